package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type ProfileService struct {
	users    ports.UserRepository
	requests ports.RequestRepository
	intake   ports.FileIntake
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(users ports.UserRepository, requests ports.RequestRepository, intake ports.FileIntake) *ProfileService {
	return &ProfileService{users: users, requests: requests, intake: intake}
}

// UploadProfilePicture stages the image, points the user row at it and then
// promotes the file. A failed row update discards the staged copy; once the
// new picture is live the previous one is deleted.
func (s *ProfileService) UploadProfilePicture(ctx context.Context, userID int64, up ports.Upload) (string, error) {
	if up.Field != "profile_pic" {
		return "", domain.Validationf("profile picture must be sent as profile_pic")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	previous := user.ProfilePicture

	staged, err := s.intake.Stage(ctx, up)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateProfilePicture(ctx, userID, staged.PublicPath); err != nil {
		_ = s.intake.Discard(ctx, staged)
		return "", err
	}

	log := logrus.WithFields(logrus.Fields{"component": "profile", "user_id": userID})
	if err := s.intake.Commit(ctx, staged); err != nil {
		log.WithField("path", staged.PublicPath).WithError(err).Error("profile picture saved but file promotion failed")
		return staged.PublicPath, nil
	}
	if previous != "" && previous != staged.PublicPath {
		if err := s.intake.Remove(ctx, previous); err != nil {
			log.WithField("path", previous).WithError(err).Warn("failed to remove previous profile picture")
		}
	}
	return staged.PublicPath, nil
}

// AuthorizeFileRead decides whether viewer may download an upload. Profile
// pictures are visible to every signed-in user. Request documents and
// payment proofs are visible to the owning citizen, officers assigned to the
// request's service and admins; everyone else is told the file does not
// exist.
func (s *ProfileService) AuthorizeFileRead(ctx context.Context, viewer domain.Session, purpose ports.Purpose, publicPath string) error {
	if purpose == ports.PurposeProfilePicture {
		return nil
	}

	scope, err := s.requests.FindByAttachment(ctx, publicPath)
	if err != nil {
		return err
	}

	switch viewer.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCitizen:
		if scope.CitizenID == viewer.UserID {
			return nil
		}
	case domain.RoleOfficer:
		officer, err := s.users.FindByID(ctx, viewer.UserID)
		if err != nil {
			return err
		}
		if a, ok := officer.Assignment(); ok && a.Matches(scope.ServiceID, scope.DepartmentID) {
			return nil
		}
	}
	return domain.NotFoundf("upload")
}

func (s *ProfileService) CitizenDashboard(ctx context.Context, citizenID int64) (*ports.CitizenDashboard, error) {
	citizen, err := s.users.FindByID(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	return &ports.CitizenDashboard{Citizen: *citizen, Requests: requests}, nil
}

func (s *ProfileService) OfficerDashboard(ctx context.Context, officerID int64) (*domain.OfficerProfile, error) {
	return s.users.FindOfficerProfile(ctx, officerID)
}

func (s *ProfileService) AdminDashboard(ctx context.Context, adminID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, adminID)
}
