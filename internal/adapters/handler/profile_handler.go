package handler

import (
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/adapters/storage"
	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileService
	files    ports.FileStore
}

func NewProfileHandler(profiles ports.ProfileService, files ports.FileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, files: files}
}

type UploadResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (h *ProfileHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, domain.Validationf("profile picture must be sent as multipart form data"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	up, closer, err := formUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if up == nil {
		writeError(w, r, domain.Validationf("profile_pic file is required"))
		return
	}
	defer closeUpload(closer)

	p, err := h.profiles.UploadProfilePicture(r.Context(), sess.UserID, *up)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{Message: "Profile picture updated", Path: p})
}

// ServeUpload streams a committed upload to a viewer allowed to read it.
// Staged files are never reachable through this route. Only images render
// inline; everything else is a sandboxed download.
func (h *ProfileHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	key, err := storage.KeyFromPublicPath(vars["purpose"], vars["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.profiles.AuthorizeFileRead(r.Context(), *sess, ports.Purpose(vars["purpose"]), storage.PublicPath(key)); err != nil {
		writeError(w, r, err)
		return
	}

	body, err := h.files.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	ct, inline := storage.ServeAs(key)
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": path.Base(key)}))
	w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("upload stream interrupted")
	}
}
