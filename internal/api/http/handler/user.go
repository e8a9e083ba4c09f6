package handler

import (
	"net/http"
	"strings"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/service"
)

const maxAvatarSize = 5 << 20

// User exposes profile and avatar operations. All routes require a bearer
// token.
type User struct {
	users          *service.User
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler instance.
func NewUser(users *service.User, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		users:          users,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	email, ok := h.contextManager.UserEmail(r.Context())
	if !ok {
		handleError(w, apierrors.NewUnauthenticated("missing authorization token"))
		return
	}

	profile, err := h.users.Profile(r.Context(), email)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *User) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	email, ok := h.contextManager.UserEmail(r.Context())
	if !ok {
		handleError(w, apierrors.NewUnauthenticated("missing authorization token"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		handleError(w, apierrors.NewValidation("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		handleError(w, apierrors.NewValidation("avatar file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		handleError(w, apierrors.NewValidation("avatar must be an image"))
		return
	}
	if header.Size > maxAvatarSize {
		handleError(w, apierrors.NewValidation("avatar exceeds the size limit"))
		return
	}

	profile, err := h.users.SetAvatar(r.Context(), email, file, header.Size, contentType)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *User) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	email, ok := h.contextManager.UserEmail(r.Context())
	if !ok {
		handleError(w, apierrors.NewUnauthenticated("missing authorization token"))
		return
	}

	if err := h.users.DeleteAvatar(r.Context(), email); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "avatar deleted")
}
