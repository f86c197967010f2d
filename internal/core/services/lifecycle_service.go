package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
	"github.com/egov-portal/portal-service/internal/metrics"
)

type LifecycleOptions struct {
	// DefaultAmount is charged when the service has no fee of its own.
	DefaultAmount float64
	// AllowDecideAwaitingPayment lets officers decide unpaid requests.
	AllowDecideAwaitingPayment bool
}

// LifecycleService drives service requests through the status table:
// citizens create and pay, scoped officers approve or reject.
type LifecycleService struct {
	catalog  ports.CatalogRepository
	users    ports.UserRepository
	requests ports.RequestRepository
	intake   ports.FileIntake

	table         domain.TransitionTable
	defaultAmount float64
	log           *logrus.Entry
}

var _ ports.LifecycleService = (*LifecycleService)(nil)

func NewLifecycleService(
	catalog ports.CatalogRepository,
	users ports.UserRepository,
	requests ports.RequestRepository,
	intake ports.FileIntake,
	opts LifecycleOptions,
) *LifecycleService {
	return &LifecycleService{
		catalog:       catalog,
		users:         users,
		requests:      requests,
		intake:        intake,
		table:         domain.NewTransitionTable(opts.AllowDecideAwaitingPayment),
		defaultAmount: opts.DefaultAmount,
		log:           logrus.WithField("component", "lifecycle"),
	}
}

func (s *LifecycleService) AvailableServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *LifecycleService) Create(ctx context.Context, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, domain.Validationf("description is required")
	}
	if in.ServiceID <= 0 {
		return nil, domain.Validationf("service_id is required")
	}

	svc, err := s.catalog.FindService(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Validationf("service %d does not exist", in.ServiceID)
	}
	if err != nil {
		return nil, err
	}

	var (
		staged *ports.StagedFile
		doc    *domain.Document
	)
	if in.Document != nil {
		staged, err = s.stage(ctx, *in.Document, ports.PurposeServiceDoc)
		if err != nil {
			return nil, err
		}
		doc = &domain.Document{FilePath: staged.PublicPath, FileType: staged.ContentType}
	}

	req := domain.ServiceRequest{
		CitizenID:   in.CitizenID,
		ServiceID:   in.ServiceID,
		ServiceName: svc.Name,
		Description: in.Description,
		Status:      domain.StatusAwaitingPayment,
	}
	id, err := s.requests.Create(ctx, req, doc)
	if err != nil {
		s.discard(ctx, staged)
		return nil, err
	}
	s.commit(ctx, staged, id)

	metrics.RequestTransitionsTotal.WithLabelValues("create", string(domain.StatusAwaitingPayment)).Inc()
	s.log.WithFields(logrus.Fields{"request_id": id, "citizen_id": in.CitizenID, "service_id": in.ServiceID}).Info("service request created")

	created, err := s.requests.FindByID(ctx, id)
	if err != nil {
		// the insert already committed; report what we know
		req.ID = id
		return &req, nil
	}
	return created, nil
}

func (s *LifecycleService) PaymentForm(ctx context.Context, citizenID, requestID int64) (*ports.PaymentForm, error) {
	scope, err := s.ownedScope(ctx, citizenID, requestID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &ports.PaymentForm{Request: *req, AmountDue: s.amountFor(*scope)}, nil
}

// SubmitPayment records the proof and moves the request to under_review in
// one transaction. The proof file only becomes visible once that commits.
func (s *LifecycleService) SubmitPayment(ctx context.Context, citizenID, requestID int64, proof *ports.Upload) (domain.Status, error) {
	if proof == nil {
		return "", domain.Validationf("payment proof file is required")
	}

	scope, err := s.ownedScope(ctx, citizenID, requestID)
	if err != nil {
		return "", err
	}
	if _, _, err := s.table.Apply(scope.Status, domain.ActionSubmitPayment); err != nil {
		return "", err
	}

	staged, err := s.stage(ctx, *proof, ports.PurposePaymentProof)
	if err != nil {
		return "", err
	}

	status, err := s.requests.RecordPayment(ctx, requestID, func(locked domain.RequestScope) (domain.Status, domain.Payment, error) {
		if locked.CitizenID != citizenID {
			return locked.Status, domain.Payment{}, domain.NotFoundf("request %d", requestID)
		}
		next, _, err := s.table.Apply(locked.Status, domain.ActionSubmitPayment)
		if err != nil {
			return locked.Status, domain.Payment{}, err
		}
		return next, domain.Payment{
			Amount:    s.amountFor(locked),
			Status:    domain.PaymentPending,
			ProofFile: staged.PublicPath,
		}, nil
	})
	if err != nil {
		s.discard(ctx, staged)
		return "", err
	}
	s.commit(ctx, staged, requestID)

	metrics.RequestTransitionsTotal.WithLabelValues(string(domain.ActionSubmitPayment), string(status)).Inc()
	s.log.WithFields(logrus.Fields{"request_id": requestID, "citizen_id": citizenID, "status": status}).Info("payment submitted")
	return status, nil
}

// Decide applies an officer outcome. Requests outside the officer's
// assignment are reported as missing and left untouched.
func (s *LifecycleService) Decide(ctx context.Context, officerID, requestID int64, action domain.Action) (domain.Status, error) {
	if action != domain.ActionApprove && action != domain.ActionReject {
		return "", domain.Validationf("invalid action %q", action)
	}

	assignment, err := s.assignmentOf(ctx, officerID)
	if err != nil {
		return "", err
	}

	var changed bool
	status, err := s.requests.Transition(ctx, requestID, func(scope domain.RequestScope) (domain.Status, error) {
		if !assignment.Matches(scope.ServiceID, scope.DepartmentID) {
			return scope.Status, domain.NotFoundf("request %d", requestID)
		}
		next, ok, err := s.table.Apply(scope.Status, action)
		changed = ok
		return next, err
	})
	if err != nil {
		return "", err
	}

	entry := s.log.WithFields(logrus.Fields{"request_id": requestID, "officer_id": officerID, "status": status})
	if changed {
		metrics.RequestTransitionsTotal.WithLabelValues(string(action), string(status)).Inc()
		entry.Info("request decided")
	} else {
		entry.Debug("decision already applied")
	}
	return status, nil
}

func (s *LifecycleService) ListForOfficer(ctx context.Context, officerID int64, filter string) ([]domain.OfficerRequest, error) {
	status, err := domain.ParseOfficerFilter(filter)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentOf(ctx, officerID)
	if err != nil {
		return nil, err
	}
	return s.requests.ListByAssignment(ctx, assignment, status)
}

func (s *LifecycleService) ListForCitizen(ctx context.Context, citizenID int64) ([]domain.ServiceRequest, error) {
	return s.requests.ListByCitizen(ctx, citizenID)
}

func (s *LifecycleService) ViewForOfficer(ctx context.Context, officerID, requestID int64) (*domain.RequestDetail, error) {
	assignment, err := s.assignmentOf(ctx, officerID)
	if err != nil {
		return nil, err
	}
	return s.requests.FindDetail(ctx, requestID, assignment)
}

func (s *LifecycleService) assignmentOf(ctx context.Context, officerID int64) (domain.Assignment, error) {
	officer, err := s.users.FindByID(ctx, officerID)
	if err != nil {
		return domain.Assignment{}, err
	}
	a, ok := officer.Assignment()
	if !ok {
		return domain.Assignment{}, fmt.Errorf("%w: officer %d has no department/service assignment", domain.ErrForbidden, officerID)
	}
	return a, nil
}

// ownedScope hides requests of other citizens behind ErrNotFound.
func (s *LifecycleService) ownedScope(ctx context.Context, citizenID, requestID int64) (*domain.RequestScope, error) {
	scope, err := s.requests.FindScope(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if scope.CitizenID != citizenID {
		return nil, domain.NotFoundf("request %d", requestID)
	}
	return scope, nil
}

func (s *LifecycleService) amountFor(scope domain.RequestScope) float64 {
	if scope.ServiceFee != nil {
		return *scope.ServiceFee
	}
	return s.defaultAmount
}

func (s *LifecycleService) stage(ctx context.Context, up ports.Upload, want ports.Purpose) (*ports.StagedFile, error) {
	staged, err := s.intake.Stage(ctx, up)
	if err != nil {
		return nil, err
	}
	if staged.Purpose != want {
		s.discard(ctx, staged)
		return nil, domain.Validationf("field %q cannot be used here", up.Field)
	}
	return staged, nil
}

func (s *LifecycleService) commit(ctx context.Context, staged *ports.StagedFile, requestID int64) {
	if staged == nil {
		return
	}
	if err := s.intake.Commit(ctx, staged); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"staging":    staged.StagingKey,
			"path":       staged.PublicPath,
		}).WithError(err).Error("row committed but upload promotion failed")
	}
}

func (s *LifecycleService) discard(ctx context.Context, staged *ports.StagedFile) {
	if staged == nil {
		return
	}
	if err := s.intake.Discard(ctx, staged); err != nil {
		s.log.WithField("staging", staged.StagingKey).WithError(err).Warn("failed to discard staged upload")
	}
}
