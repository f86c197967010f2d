package storage

import (
	"context"
	"fmt"
	"math/rand"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
	"github.com/egov-portal/portal-service/internal/metrics"
)

const (
	stagingPrefix = "_staging"
	publicPrefix  = "/uploads"
	maxExtLen     = 10
)

// allowedExt lists the file types each purpose accepts. Scriptable formats
// such as html or svg are never stored.
var allowedExt = map[ports.Purpose][]string{
	ports.PurposeProfilePicture: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	ports.PurposeServiceDoc:     {".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"},
	ports.PurposePaymentProof:   {".pdf", ".jpg", ".jpeg", ".png"},
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ServeAs returns the content type a stored key is served with and whether
// a browser may render it inline. Only images are inline; unknown types are
// opaque downloads.
func ServeAs(key string) (contentType string, inline bool) {
	ct, ok := contentTypes[strings.ToLower(path.Ext(key))]
	if !ok {
		return "application/octet-stream", false
	}
	return ct, strings.HasPrefix(ct, "image/")
}

// Classify routes a multipart field name to its storage purpose.
func Classify(field string) (ports.Purpose, error) {
	switch field {
	case "profile_pic":
		return ports.PurposeProfilePicture, nil
	case "document", "service_doc":
		return ports.PurposeServiceDoc, nil
	case "proof_file":
		return ports.PurposePaymentProof, nil
	default:
		return "", domain.Validationf("unsupported upload field %q", field)
	}
}

// Intake stages uploads and promotes them once the referencing row exists.
type Intake struct {
	store ports.FileStore
	now   func() time.Time
	rand  func() int64
}

var _ ports.FileIntake = (*Intake)(nil)

func NewIntake(store ports.FileStore) *Intake {
	return &Intake{
		store: store,
		now:   time.Now,
		rand:  func() int64 { return rand.Int63n(1_000_000_000) },
	}
}

// FileName builds {field}-{unixMillis}-{random}{ext}.
func (i *Intake) FileName(field, original string) string {
	return fmt.Sprintf("%s-%d-%d%s", field, i.now().UnixMilli(), i.rand(), cleanExt(original))
}

func (i *Intake) Stage(ctx context.Context, up ports.Upload) (*ports.StagedFile, error) {
	purpose, err := Classify(up.Field)
	if err != nil {
		return nil, err
	}
	if up.Body == nil {
		return nil, domain.Validationf("%s: no file uploaded", up.Field)
	}
	ext := cleanExt(up.Filename)
	if !slices.Contains(allowedExt[purpose], ext) {
		return nil, domain.Validationf("%s must be one of %s", up.Field, strings.Join(allowedExt[purpose], ", "))
	}

	name := i.FileName(up.Field, up.Filename)
	key := path.Join(string(purpose), name)
	f := &ports.StagedFile{
		Purpose:     purpose,
		Name:        name,
		ContentType: contentTypes[ext],
		StagingKey:  path.Join(stagingPrefix, key),
		Key:         key,
		PublicPath:  PublicPath(key),
	}

	if err := i.store.Put(ctx, f.StagingKey, f.ContentType, up.Body); err != nil {
		return nil, fmt.Errorf("%w: stage upload: %v", domain.ErrStorage, err)
	}
	return f, nil
}

func (i *Intake) Commit(ctx context.Context, f *ports.StagedFile) error {
	if err := i.store.Move(ctx, f.StagingKey, f.Key); err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "intake",
			"staging":   f.StagingKey,
			"key":       f.Key,
		}).WithError(err).Error("failed to promote staged upload")
		return fmt.Errorf("%w: commit upload: %v", domain.ErrStorage, err)
	}
	metrics.UploadsTotal.WithLabelValues(string(f.Purpose)).Inc()
	return nil
}

func (i *Intake) Discard(ctx context.Context, f *ports.StagedFile) error {
	if err := i.store.Delete(ctx, f.StagingKey); err != nil {
		logrus.WithField("staging", f.StagingKey).WithError(err).Warn("failed to discard staged upload")
		return fmt.Errorf("%w: discard upload: %v", domain.ErrStorage, err)
	}
	return nil
}

// Remove deletes a committed upload by its public path.
func (i *Intake) Remove(ctx context.Context, publicPath string) error {
	rest, ok := strings.CutPrefix(publicPath, publicPrefix+"/")
	if !ok {
		return domain.NotFoundf("upload %s", publicPath)
	}
	purpose, name, _ := strings.Cut(rest, "/")
	key, err := KeyFromPublicPath(purpose, name)
	if err != nil {
		return err
	}
	if err := i.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: remove upload: %v", domain.ErrStorage, err)
	}
	return nil
}

// cleanExt keeps a short alphanumeric extension from the client file name.
func cleanExt(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if ext == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 || b.Len() > maxExtLen+1 {
		return ""
	}
	return b.String()
}

// PublicPath is the URL path a committed key is served under.
func PublicPath(key string) string {
	return path.Join(publicPrefix, key)
}

// KeyFromPublicPath maps /uploads/{purpose}/{name} back to the store key.
func KeyFromPublicPath(purpose, name string) (string, error) {
	switch ports.Purpose(purpose) {
	case ports.PurposeProfilePicture, ports.PurposeServiceDoc, ports.PurposePaymentProof:
	default:
		return "", domain.NotFoundf("upload")
	}
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", domain.NotFoundf("upload")
	}
	return path.Join(purpose, name), nil
}
