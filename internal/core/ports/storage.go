package ports

import (
	"context"
	"io"
)

type Purpose string

const (
	PurposeProfilePicture Purpose = "profile_pics"
	PurposeServiceDoc     Purpose = "service_docs"
	PurposePaymentProof   Purpose = "payments"
)

// Upload is one multipart file as received from the client.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// StagedFile is an upload written to staging but not yet visible under its
// purpose directory.
type StagedFile struct {
	Purpose     Purpose
	Name        string
	ContentType string
	StagingKey  string
	Key         string
	PublicPath  string
}

type FileIntake interface {
	Stage(ctx context.Context, up Upload) (*StagedFile, error)
	Commit(ctx context.Context, f *StagedFile) error
	Discard(ctx context.Context, f *StagedFile) error
	// Remove deletes a committed upload by its public path.
	Remove(ctx context.Context, publicPath string) error
}

// FileStore is the blob backend behind the intake.
type FileStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Move(ctx context.Context, from, to string) error
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
