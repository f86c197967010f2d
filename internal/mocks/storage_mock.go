package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockFileIntake implements ports.FileIntake and records which staged files
// were committed or discarded.
type MockFileIntake struct {
	mu sync.Mutex
	n  int

	Staged    []ports.StagedFile
	Committed []ports.StagedFile
	Discarded []ports.StagedFile
	Removed   []string

	StageError  error
	CommitError error
	RemoveError error
}

var _ ports.FileIntake = (*MockFileIntake)(nil)

func NewMockFileIntake() *MockFileIntake {
	return &MockFileIntake{}
}

func (m *MockFileIntake) Stage(ctx context.Context, up ports.Upload) (*ports.StagedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StageError != nil {
		return nil, m.StageError
	}

	var purpose ports.Purpose
	switch up.Field {
	case "profile_pic":
		purpose = ports.PurposeProfilePicture
	case "document", "service_doc":
		purpose = ports.PurposeServiceDoc
	case "proof_file":
		purpose = ports.PurposePaymentProof
	default:
		return nil, domain.Validationf("unsupported upload field %q", up.Field)
	}
	if up.Body != nil {
		_, _ = io.Copy(io.Discard, up.Body)
	}

	m.n++
	name := fmt.Sprintf("%s-%d", up.Field, m.n)
	f := ports.StagedFile{
		Purpose:     purpose,
		Name:        name,
		ContentType: up.ContentType,
		StagingKey:  "_staging/" + string(purpose) + "/" + name,
		Key:         string(purpose) + "/" + name,
		PublicPath:  "/uploads/" + string(purpose) + "/" + name,
	}
	m.Staged = append(m.Staged, f)
	return &f, nil
}

func (m *MockFileIntake) Commit(ctx context.Context, f *ports.StagedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CommitError != nil {
		return m.CommitError
	}
	m.Committed = append(m.Committed, *f)
	return nil
}

func (m *MockFileIntake) Discard(ctx context.Context, f *ports.StagedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Discarded = append(m.Discarded, *f)
	return nil
}

func (m *MockFileIntake) Remove(ctx context.Context, publicPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveError != nil {
		return m.RemoveError
	}
	m.Removed = append(m.Removed, publicPath)
	return nil
}
