package middleware

import (
	"net/http"
	"strings"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
)

// SessionValidator resolves the user email from a bearer token.
type SessionValidator interface {
	ValidateSession(token string) (string, error)
}

// Authenticate validates bearer tokens and injects the user email into the
// request context.
type Authenticate struct {
	sessions       SessionValidator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionValidator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle rejects requests without a valid bearer token.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "missing authorization token")
			return
		}

		email, err := m.sessions.ValidateSession(token)
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected",
				"error", err.Error())
			unauthorized(w, "invalid or expired session token")
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserEmail(r.Context(), email)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + string(apierrors.CodeUnauthenticated) + `"}`))
}
