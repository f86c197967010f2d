package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
	"github.com/egov-portal/portal-service/internal/core/services"
	"github.com/egov-portal/portal-service/internal/mocks"
)

func TestProfileService_UploadProfilePicture(t *testing.T) {
	tests := []struct {
		name          string
		field         string
		setup         func(users *mocks.MockUserRepository, intake *mocks.MockFileIntake)
		wantErr       error
		wantCommitted int
		wantDiscarded int
	}{
		{
			name:          "stores_and_promotes_picture",
			field:         "profile_pic",
			setup:         func(*mocks.MockUserRepository, *mocks.MockFileIntake) {},
			wantCommitted: 1,
		},
		{
			name:    "wrong_field",
			field:   "document",
			setup:   func(*mocks.MockUserRepository, *mocks.MockFileIntake) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:  "row_update_failure_discards",
			field: "profile_pic",
			setup: func(users *mocks.MockUserRepository, _ *mocks.MockFileIntake) {
				users.UpdateError = domain.ErrStorage
			},
			wantErr:       domain.ErrStorage,
			wantDiscarded: 1,
		},
		{
			name:  "promotion_failure_is_not_reported",
			field: "profile_pic",
			setup: func(_ *mocks.MockUserRepository, intake *mocks.MockFileIntake) {
				intake.CommitError = domain.ErrStorage
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMockUserRepository()
			catalog := mocks.NewMockCatalogRepository()
			intake := mocks.NewMockFileIntake()
			tt.setup(users, intake)
			id := users.SeedUser(domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleCitizen})

			svc := services.NewProfileService(users, mocks.NewMockRequestRepository(catalog, users), intake)
			path, err := svc.UploadProfilePicture(context.Background(), id, ports.Upload{
				Field: tt.field, Filename: "me.png", ContentType: "image/png", Body: strings.NewReader("png"),
			})

			if len(intake.Committed) != tt.wantCommitted {
				t.Errorf("expected %d committed, got %d", tt.wantCommitted, len(intake.Committed))
			}
			if len(intake.Discarded) != tt.wantDiscarded {
				t.Errorf("expected %d discarded, got %d", tt.wantDiscarded, len(intake.Discarded))
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(path, "/uploads/profile_pics/") {
				t.Errorf("expected public profile path, got %q", path)
			}
			stored, _ := users.FindByID(context.Background(), id)
			if stored.ProfilePicture != path {
				t.Errorf("expected user row to point at %q, got %q", path, stored.ProfilePicture)
			}
		})
	}
}

func TestProfileService_ReplacesPreviousPicture(t *testing.T) {
	tests := []struct {
		name        string
		previous    string
		removeErr   error
		wantRemoved []string
	}{
		{"removes_previous_file", "/uploads/profile_pics/old.png", nil, []string{"/uploads/profile_pics/old.png"}},
		{"first_picture", "", nil, nil},
		{"removal_failure_is_not_reported", "/uploads/profile_pics/old.png", domain.ErrStorage, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMockUserRepository()
			intake := mocks.NewMockFileIntake()
			intake.RemoveError = tt.removeErr
			id := users.SeedUser(domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleCitizen, ProfilePicture: tt.previous})

			svc := services.NewProfileService(users, mocks.NewMockRequestRepository(mocks.NewMockCatalogRepository(), users), intake)
			path, err := svc.UploadProfilePicture(context.Background(), id, ports.Upload{
				Field: "profile_pic", Filename: "new.png", Body: strings.NewReader("png"),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path == tt.previous {
				t.Fatalf("expected a new path")
			}
			if len(intake.Removed) != len(tt.wantRemoved) || (len(tt.wantRemoved) > 0 && intake.Removed[0] != tt.wantRemoved[0]) {
				t.Errorf("expected removed %v, got %v", tt.wantRemoved, intake.Removed)
			}
		})
	}

	t.Run("previous_kept_when_promotion_fails", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		intake := mocks.NewMockFileIntake()
		intake.CommitError = domain.ErrStorage
		id := users.SeedUser(domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleCitizen, ProfilePicture: "/uploads/profile_pics/old.png"})

		svc := services.NewProfileService(users, mocks.NewMockRequestRepository(mocks.NewMockCatalogRepository(), users), intake)
		if _, err := svc.UploadProfilePicture(context.Background(), id, ports.Upload{
			Field: "profile_pic", Filename: "new.png", Body: strings.NewReader("png"),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(intake.Removed) != 0 {
			t.Errorf("expected previous picture to be kept, removed %v", intake.Removed)
		}
	})
}

func TestProfileService_AuthorizeFileRead(t *testing.T) {
	users := mocks.NewMockUserRepository()
	catalog := mocks.NewMockCatalogRepository()
	requests := mocks.NewMockRequestRepository(catalog, users)

	transport := catalog.SeedDepartment("Transport")
	licence := catalog.SeedService("Driving Licence", transport, nil)
	permit := catalog.SeedService("Parking Permit", transport, nil)

	owner := users.SeedUser(domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleCitizen})
	stranger := users.SeedUser(domain.User{Name: "Ben", Email: "ben@example.com", Role: domain.RoleCitizen})
	scoped := users.SeedUser(domain.User{Name: "Olu", Email: "olu@example.com", Role: domain.RoleOfficer, DepartmentID: &transport, ServiceID: &licence})
	other := users.SeedUser(domain.User{Name: "Pat", Email: "pat@example.com", Role: domain.RoleOfficer, DepartmentID: &transport, ServiceID: &permit})
	admin := users.SeedUser(domain.User{Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin})

	reqID := requests.SeedRequest(owner, licence, domain.StatusUnderReview)
	doc := "/uploads/service_docs/document-1-2.pdf"
	proof := "/uploads/payments/proof_file-1-2.png"
	requests.Documents[reqID] = []domain.Document{{RequestID: reqID, FilePath: doc}}
	requests.Payments[reqID] = []domain.Payment{{RequestID: reqID, ProofFile: proof}}

	svc := services.NewProfileService(users, requests, mocks.NewMockFileIntake())

	tests := []struct {
		name    string
		viewer  domain.Session
		purpose ports.Purpose
		path    string
		wantErr error
	}{
		{"owner_reads_document", domain.Session{UserID: owner, Role: domain.RoleCitizen}, ports.PurposeServiceDoc, doc, nil},
		{"owner_reads_proof", domain.Session{UserID: owner, Role: domain.RoleCitizen}, ports.PurposePaymentProof, proof, nil},
		{"other_citizen_denied", domain.Session{UserID: stranger, Role: domain.RoleCitizen}, ports.PurposeServiceDoc, doc, domain.ErrNotFound},
		{"scoped_officer_reads_proof", domain.Session{UserID: scoped, Role: domain.RoleOfficer}, ports.PurposePaymentProof, proof, nil},
		{"officer_of_other_service_denied", domain.Session{UserID: other, Role: domain.RoleOfficer}, ports.PurposeServiceDoc, doc, domain.ErrNotFound},
		{"admin_reads_document", domain.Session{UserID: admin, Role: domain.RoleAdmin}, ports.PurposeServiceDoc, doc, nil},
		{"unreferenced_document", domain.Session{UserID: admin, Role: domain.RoleAdmin}, ports.PurposeServiceDoc, "/uploads/service_docs/orphan.pdf", domain.ErrNotFound},
		{"profile_pictures_are_shared", domain.Session{UserID: stranger, Role: domain.RoleCitizen}, ports.PurposeProfilePicture, "/uploads/profile_pics/x.png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AuthorizeFileRead(context.Background(), tt.viewer, tt.purpose, tt.path)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProfileService_Dashboards(t *testing.T) {
	users := mocks.NewMockUserRepository()
	catalog := mocks.NewMockCatalogRepository()
	requests := mocks.NewMockRequestRepository(catalog, users)
	dept := catalog.SeedDepartment("Transport")
	svcID := catalog.SeedService("Driving Licence", dept, nil)
	users.DepartmentNames[dept] = "Transport"
	users.ServiceNames[svcID] = "Driving Licence"

	citizen := users.SeedUser(domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleCitizen})
	officer := users.SeedUser(domain.User{Name: "Olu", Email: "olu@example.com", Role: domain.RoleOfficer, DepartmentID: &dept, ServiceID: &svcID})
	requests.SeedRequest(citizen, svcID, domain.StatusAwaitingPayment)
	requests.SeedRequest(citizen, svcID, domain.StatusApproved)

	svc := services.NewProfileService(users, requests, mocks.NewMockFileIntake())
	ctx := context.Background()

	dash, err := svc.CitizenDashboard(ctx, citizen)
	if err != nil {
		t.Fatalf("citizen dashboard: %v", err)
	}
	if dash.Citizen.ID != citizen || len(dash.Requests) != 2 {
		t.Errorf("expected citizen with 2 requests, got %+v", dash)
	}
	if !dash.Requests[0].CreatedAt.After(dash.Requests[1].CreatedAt) {
		t.Errorf("expected newest request first")
	}

	profile, err := svc.OfficerDashboard(ctx, officer)
	if err != nil {
		t.Fatalf("officer dashboard: %v", err)
	}
	if profile.DepartmentName != "Transport" || profile.ServiceName != "Driving Licence" {
		t.Errorf("expected assignment names, got %+v", profile)
	}
}
