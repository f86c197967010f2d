package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

func newTestIntake(t *testing.T) (*Intake, string) {
	t.Helper()

	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	intake := NewIntake(store)
	intake.now = func() time.Time { return time.UnixMilli(1700000000123) }
	intake.rand = func() int64 { return 42 }
	return intake, root
}

func TestClassify(t *testing.T) {
	tests := []struct {
		field   string
		want    ports.Purpose
		wantErr bool
	}{
		{field: "profile_pic", want: ports.PurposeProfilePicture},
		{field: "document", want: ports.PurposeServiceDoc},
		{field: "service_doc", want: ports.PurposeServiceDoc},
		{field: "proof_file", want: ports.PurposePaymentProof},
		{field: "avatar", wantErr: true},
		{field: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := Classify(tt.field)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIntake_FileName(t *testing.T) {
	intake, _ := newTestIntake(t)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"keeps_extension", "scan.PDF", "document-1700000000123-42.pdf"},
		{"no_extension", "scan", "document-1700000000123-42"},
		{"strips_path", "../../etc/passwd.txt", "document-1700000000123-42.txt"},
		{"drops_odd_characters", "photo.j p$g", "document-1700000000123-42.jpg"},
		{"drops_long_extension", "x.abcdefghijklmnop", "document-1700000000123-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intake.FileName("document", tt.original); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIntake_StageCommit(t *testing.T) {
	intake, root := newTestIntake(t)
	ctx := context.Background()

	staged, err := intake.Stage(ctx, ports.Upload{
		Field:       "proof_file",
		Filename:    "receipt.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if staged.PublicPath != "/uploads/payments/proof_file-1700000000123-42.png" {
		t.Errorf("unexpected public path %q", staged.PublicPath)
	}

	final := filepath.Join(root, "payments", staged.Name)
	if _, err := os.Stat(final); !os.IsNotExist(err) {
		t.Fatalf("staged file should not be visible before commit")
	}

	if err := intake.Commit(ctx, staged); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("committed file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("expected file content to round-trip, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(staged.StagingKey))); !os.IsNotExist(err) {
		t.Errorf("staging copy should be gone after commit")
	}
}

func TestIntake_Discard(t *testing.T) {
	intake, root := newTestIntake(t)
	ctx := context.Background()

	staged, err := intake.Stage(ctx, ports.Upload{
		Field:    "document",
		Filename: "id.pdf",
		Body:     strings.NewReader("pdf"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := intake.Discard(ctx, staged); err != nil {
		t.Fatalf("discard failed: %v", err)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "service_docs"))
	if len(entries) != 0 {
		t.Errorf("expected no service documents, found %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(staged.StagingKey))); !os.IsNotExist(err) {
		t.Errorf("staging copy should be removed")
	}
}

func TestIntake_StageRejectsUnknownField(t *testing.T) {
	intake, _ := newTestIntake(t)

	_, err := intake.Stage(context.Background(), ports.Upload{
		Field: "resume",
		Body:  strings.NewReader("x"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestKeyFromPublicPath(t *testing.T) {
	tests := []struct {
		name    string
		purpose string
		file    string
		want    string
		wantErr bool
	}{
		{"valid", "profile_pics", "profile_pic-1-2.png", "profile_pics/profile_pic-1-2.png", false},
		{"unknown_purpose", "secrets", "a.png", "", true},
		{"staging_is_private", "_staging", "a.png", "", true},
		{"hidden_name", "payments", ".env", "", true},
		{"nested_name", "payments", "a/b.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyFromPublicPath(tt.purpose, tt.file)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("expected not found, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("expected %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	_, err = store.Open(context.Background(), "payments/nope.png")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if _, err := store.Open(context.Background(), "../outside"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected traversal to be rejected, got %v", err)
	}
}

func TestIntake_StageFileTypes(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		wantType string
		wantErr  bool
	}{
		{"pdf_document", "document", "id-card.PDF", "application/pdf", false},
		{"word_document", "service_doc", "form.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"png_receipt", "proof_file", "receipt.png", "image/png", false},
		{"jpeg_profile", "profile_pic", "me.jpeg", "image/jpeg", false},
		{"html_document", "document", "evil.html", "", true},
		{"svg_profile", "profile_pic", "me.svg", "", true},
		{"pdf_profile", "profile_pic", "cv.pdf", "", true},
		{"word_receipt", "proof_file", "receipt.doc", "", true},
		{"no_extension", "document", "scan", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intake, root := newTestIntake(t)

			staged, err := intake.Stage(context.Background(), ports.Upload{
				Field:       tt.field,
				Filename:    tt.filename,
				ContentType: "text/html",
				Body:        strings.NewReader("x"),
			})
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				entries, _ := os.ReadDir(filepath.Join(root, stagingPrefix))
				if len(entries) != 0 {
					t.Errorf("expected nothing staged for a rejected file")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			// the client-declared type is ignored
			if staged.ContentType != tt.wantType {
				t.Errorf("expected content type %q, got %q", tt.wantType, staged.ContentType)
			}
		})
	}
}

func TestServeAs(t *testing.T) {
	tests := []struct {
		key        string
		wantType   string
		wantInline bool
	}{
		{"profile_pics/a.png", "image/png", true},
		{"payments/a.JPG", "image/jpeg", true},
		{"service_docs/a.pdf", "application/pdf", false},
		{"service_docs/a.html", "application/octet-stream", false},
		{"service_docs/a.svg", "application/octet-stream", false},
		{"service_docs/a", "application/octet-stream", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ct, inline := ServeAs(tt.key)
			if ct != tt.wantType || inline != tt.wantInline {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.wantType, tt.wantInline, ct, inline)
			}
		})
	}
}

func TestIntake_Remove(t *testing.T) {
	intake, root := newTestIntake(t)
	ctx := context.Background()

	staged, err := intake.Stage(ctx, ports.Upload{Field: "profile_pic", Filename: "me.png", Body: strings.NewReader("png")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := intake.Commit(ctx, staged); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := intake.Remove(ctx, staged.PublicPath); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "profile_pics", staged.Name)); !os.IsNotExist(err) {
		t.Errorf("expected committed file to be removed")
	}

	for _, bad := range []string{"/etc/passwd", "/uploads/_staging/profile_pics/x.png", "/uploads/payments/../secret"} {
		if err := intake.Remove(ctx, bad); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected %q to be refused, got %v", bad, err)
		}
	}
}
