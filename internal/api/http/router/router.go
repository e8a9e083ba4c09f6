// Package router assembles the HTTP API: handlers, authentication,
// logging and rate-limit middleware.
package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kindnet/kindnet-server/internal/api/http/handler"
	"github.com/kindnet/kindnet-server/internal/api/http/middleware"
	"github.com/kindnet/kindnet-server/internal/config"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/ratelimit"
	"github.com/kindnet/kindnet-server/internal/service"
)

// Router wires services into the chi mux.
type Router struct {
	authService      *service.Auth
	federatedService *service.Federated
	userService      *service.User
	itemService      *service.Item
	reviewService    *service.Review
	contextManager   model.ContextManager
	limiterStore     ratelimit.Store
	authConf         config.Auth
	urls             config.URLs
	logger           *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	federatedService *service.Federated,
	userService *service.User,
	itemService *service.Item,
	reviewService *service.Review,
	contextManager model.ContextManager,
	limiterStore ratelimit.Store,
	authConf config.Auth,
	urls config.URLs,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:      authService,
		federatedService: federatedService,
		userService:      userService,
		itemService:      itemService,
		reviewService:    reviewService,
		contextManager:   contextManager,
		limiterStore:     limiterStore,
		authConf:         authConf,
		urls:             urls,
		logger:           logger,
	}
}

// keyedByIP prefixes the client IP so limiters sharing a store do not
// collide across buckets.
func keyedByIP(bucket string) ratelimit.KeyFunc {
	return func(r *http.Request) string {
		return bucket + ":" + ratelimit.ClientIP(r)
	}
}

// Register builds the route tree. Login and registration endpoints sit
// behind per-IP rate limits; resend-verification and reset-request share
// the registration bucket.
func (r *Router) Register() (*chi.Mux, error) {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	loginLimiter, err := ratelimit.NewLimiter(r.limiterStore, ratelimit.Config{
		Limit:  r.authConf.LoginRateLimit,
		Window: r.authConf.LoginRateWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build login limiter: %w", err)
	}
	registerLimiter, err := ratelimit.NewLimiter(r.limiterStore, ratelimit.Config{
		Limit:  r.authConf.RegisterRateLimit,
		Window: r.authConf.RegisterRateWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build register limiter: %w", err)
	}

	loginLimit := ratelimit.Middleware(loginLimiter, keyedByIP("login"))
	registerLimit := ratelimit.Middleware(registerLimiter, keyedByIP("register"))

	authHandler := handler.NewAuth(r.authService, r.federatedService, r.contextManager, r.urls.Frontend, r.logger)
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)
	itemHandler := handler.NewItem(r.itemService, r.contextManager, r.logger)
	reviewHandler := handler.NewReview(r.reviewService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Use(logging.Handle)

	mux.Route("/auth", func(mux chi.Router) {
		mux.With(registerLimit).Post("/register", authHandler.Register)
		mux.Get("/verify-email", authHandler.VerifyEmail)
		mux.With(registerLimit).Post("/resend-verification", authHandler.ResendVerification)
		mux.With(loginLimit).Post("/login", authHandler.Login)
		mux.With(registerLimit).Post("/request-password-reset", authHandler.RequestPasswordReset)
		mux.Post("/reset-password", authHandler.ResetPassword)
		mux.Get("/google", authHandler.GoogleAuth)
		mux.Get("/google/callback", authHandler.GoogleCallback)

		mux.Group(func(mux chi.Router) {
			mux.Use(authenticate.Handle)
			mux.Post("/logout", authHandler.Logout)
			mux.Post("/link-google", authHandler.LinkGoogle)
		})
	})

	mux.Route("/users", func(mux chi.Router) {
		mux.Use(authenticate.Handle)
		mux.Get("/me", userHandler.Me)
		mux.Post("/me/avatar", userHandler.UploadAvatar)
		mux.Delete("/me/avatar", userHandler.DeleteAvatar)
	})

	mux.Route("/items", func(mux chi.Router) {
		mux.Get("/", itemHandler.List)
		mux.Get("/{id}", itemHandler.Get)
		mux.Get("/{id}/reviews", reviewHandler.List)

		mux.Group(func(mux chi.Router) {
			mux.Use(authenticate.Handle)
			mux.Post("/", itemHandler.Create)
			mux.Put("/{id}", itemHandler.Update)
			mux.Delete("/{id}", itemHandler.Delete)
			mux.Post("/{id}/reviews", reviewHandler.Create)
		})
	})

	return mux, nil
}
