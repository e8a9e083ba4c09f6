package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"github.com/kindnet/kindnet-server/internal/api/http/httpctx"
	"github.com/kindnet/kindnet-server/internal/api/http/router"
	httpServer "github.com/kindnet/kindnet-server/internal/api/http/server"
	"github.com/kindnet/kindnet-server/internal/config"
	"github.com/kindnet/kindnet-server/internal/email"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/oauth"
	"github.com/kindnet/kindnet-server/internal/password"
	"github.com/kindnet/kindnet-server/internal/ratelimit"
	"github.com/kindnet/kindnet-server/internal/repository/postgres"
	"github.com/kindnet/kindnet-server/internal/server"
	"github.com/kindnet/kindnet-server/internal/service"
	storage "github.com/kindnet/kindnet-server/internal/storage/minio"
	"github.com/kindnet/kindnet-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	resetTokenRepo := postgres.NewPasswordResetTokenRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.Auth.SessionTokenTTL)
	hasher := password.NewBcrypt(cfg.Auth.BcryptCost)
	sender := newSender(cfg.Email, logger)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	googleProvider := oauth.NewGoogleProvider(cfg.OAuth)

	authService := service.NewAuth(userRepo, resetTokenRepo, tokenManager, hasher, sender, logger, cfg.Auth, cfg.URLs)
	federatedService := service.NewFederated(userRepo, tokenManager, googleProvider, logger)
	userService := service.NewUser(userRepo, storageClient, logger)
	itemService := service.NewItem(itemRepo, storageClient, logger)
	reviewService := service.NewReview(reviewRepo, itemRepo, logger)

	ctxMgr := httpctx.NewManager()
	limiterStore := newLimiterStore(cfg.Redis)

	r := router.New(authService, federatedService, userService, itemService, reviewService, ctxMgr, limiterStore, cfg.Auth, cfg.URLs, logger)
	mux, err := r.Register()
	if err != nil {
		logger.Fatal("failed to register routes", "error", err)
	}

	s := httpServer.NewHTTPServer(mux, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(s)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", s.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newSender returns the Postmark sender when API tokens are configured and a
// log-only sender otherwise.
func newSender(cfg config.Email, logger *logger.Logger) email.Sender {
	if cfg.PostmarkServerToken == "" {
		logger.Info("email tokens not configured, using dev sender")
		return email.NewDevSender(logger)
	}

	sender, err := email.NewPostmarkSender(cfg)
	if err != nil {
		logger.Fatal("failed to create email sender", "error", err)
	}

	return sender
}

// newLimiterStore returns a Redis-backed limiter store when an address is
// configured and an in-process store otherwise.
func newLimiterStore(cfg config.Redis) ratelimit.Store {
	if cfg.Addr == "" {
		return ratelimit.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return ratelimit.NewRedisStore(client, "ratelimit")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
