package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/service"
)

const stateCookieName = "oauth_state"

// resetAck is returned whether or not the email is registered.
const resetAck = "if that email is registered, a reset link has been sent"

// Auth exposes the account lifecycle over HTTP.
type Auth struct {
	auth           *service.Auth
	federated      *service.Federated
	contextManager model.ContextManager
	frontendURL    string
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler instance.
func NewAuth(
	auth *service.Auth,
	federated *service.Federated,
	contextManager model.ContextManager,
	frontendURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		auth:           auth,
		federated:      federated,
		contextManager: contextManager,
		frontendURL:    frontendURL,
		logger:         logger,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	ZipCode     string `json:"zip_code"`
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if err := validateRegistration(req); err != nil {
		handleError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		ZipCode:     req.ZipCode,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")
	if email == "" || token == "" {
		handleError(w, apierrors.NewValidation("email and token are required"))
		return
	}

	if err := h.auth.VerifyEmail(r.Context(), email, token); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "email verified successfully")
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *Auth) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if err := validateEmail(req.Email); err != nil {
		handleError(w, err)
		return
	}

	if err := h.auth.ResendVerification(r.Context(), req.Email); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "if that email needs verification, a new link has been sent")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  model.Public `json:"user"`
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if err := validateEmail(req.Email); err != nil {
		handleError(w, err)
		return
	}
	if req.Password == "" {
		handleError(w, apierrors.NewValidation("password is required"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: result.User})
}

// Logout validates the bearer token via the authenticate middleware and
// acknowledges. Tokens are stateless; the client discards its copy.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "logged out")
}

func (h *Auth) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if err := validateEmail(req.Email); err != nil {
		handleError(w, err)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, resetAck)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if req.Token == "" {
		handleError(w, apierrors.NewValidation("token is required"))
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		handleError(w, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "password reset successfully")
}

// GoogleAuth redirects to the provider consent page with a random state
// value pinned in a short-lived cookie.
func (h *Auth) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		handleError(w, apierrors.NewInternal(err))
		return
	}
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.federated.AuthURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the OAuth flow. All outcomes redirect to the
// front-end: success carries the session token in query parameters, the
// accepted trade-off for redirect flows.
func (h *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.logger.Info("Auth handler: oauth state mismatch")
		h.redirectWithError(w, r, "auth_failed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "auth_failed")
		return
	}

	result, err := h.federated.Login(r.Context(), code)
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierrors.CodeNotFound {
			h.redirectWithError(w, r, "registration_required")
			return
		}
		h.logger.Error("Auth handler: federated login failed",
			"error", err.Error())
		h.redirectWithError(w, r, "auth_failed")
		return
	}

	query := url.Values{}
	query.Set("token", result.Token)
	query.Set("email", result.User.Email)
	query.Set("first_name", result.User.FirstName)
	http.Redirect(w, r, fmt.Sprintf("%s/auth/callback?%s", h.frontendURL, query.Encode()), http.StatusTemporaryRedirect)
}

type linkGoogleRequest struct {
	GoogleID    string `json:"google_id"`
	GoogleEmail string `json:"google_email"`
}

// LinkGoogle attaches an external subject id to the authenticated account.
func (h *Auth) LinkGoogle(w http.ResponseWriter, r *http.Request) {
	email, ok := h.contextManager.UserEmail(r.Context())
	if !ok {
		handleError(w, apierrors.NewUnauthenticated("missing authorization token"))
		return
	}

	var req linkGoogleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if req.GoogleID == "" || req.GoogleEmail == "" {
		handleError(w, apierrors.NewValidation("google_id and google_email are required"))
		return
	}

	if err := h.federated.Link(r.Context(), email, req.GoogleID); err != nil {
		handleError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "google account linked")
}

func (h *Auth) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, fmt.Sprintf("%s/login?error=%s", h.frontendURL, code), http.StatusTemporaryRedirect)
}
