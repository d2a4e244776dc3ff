// Package main is the entry point for the blog service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/amitkhot2001/blogs/docs"
	"github.com/amitkhot2001/blogs/internal/config"
	"github.com/amitkhot2001/blogs/internal/database"
	"github.com/amitkhot2001/blogs/internal/handlers"
	"github.com/amitkhot2001/blogs/internal/hashid"
	"github.com/amitkhot2001/blogs/internal/logger"
	"github.com/amitkhot2001/blogs/internal/mailer"
	"github.com/amitkhot2001/blogs/internal/metrics"
	"github.com/amitkhot2001/blogs/internal/otp"
	"github.com/amitkhot2001/blogs/internal/repository"
	"github.com/amitkhot2001/blogs/internal/routes"
	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/amitkhot2001/blogs/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// @title Blog API
// @version 1.0
// @description Multi-author blogging API with passcode signup and public search
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	codec, err := hashid.New(cfg.HashIDSalt, cfg.HashIDMinLength)
	if err != nil {
		log.WithError(err).Fatal("Failed to build id codec")
	}

	pending, err := newOTPStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize OTP store")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize token service")
	}
	authService := service.NewAuthService(userRepo, jwtService, pending, newMailer(cfg, log), cfg.OTPTTL)
	postService := service.NewPostService(postRepo, codec)
	publicService := service.NewPublicService(postRepo, userRepo, codec)

	// Initialize handlers
	respond := handlers.NewResponder(log, cfg.IsProduction())
	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, respond),
		Blog:   handlers.NewBlogHandler(postService, respond),
		Public: handlers.NewPublicHandler(publicService, respond),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }, respond),
	}

	metrics.MustRegister()

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.Setup(router, h, jwtService, cfg, log)

	var handler http.Handler = router
	if cfg.RateLimitPerMinute > 0 {
		handler = httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute)(router)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Starting blog service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	closeDB(db, log)
}

func newOTPStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (otp.Store, error) {
	if cfg.OTPStore == config.OTPStoreRedis {
		client, err := redis.NewClient(ctx, redis.Options{
			Host:       cfg.RedisHost,
			Port:       cfg.RedisPort,
			Password:   cfg.RedisPassword,
			DisableTLS: cfg.RedisNoTLS,
		})
		if err != nil {
			return nil, err
		}
		log.Info("Using redis OTP store")
		return otp.NewRedisStore(client, otp.DefaultGrace), nil
	}

	store := otp.NewMemoryStore()
	go store.Run(ctx, cfg.OTPSweepInterval)
	log.Info("Using in-memory OTP store")
	return store, nil
}

func newMailer(cfg *config.Config, log *logrus.Logger) mailer.Sender {
	if cfg.SendGridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, passcodes will only be logged")
		return mailer.NewLogSender(log)
	}
	return mailer.WithBreaker(mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.SenderEmail), log)
}

func closeDB(db *gorm.DB, log *logrus.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Warn("Failed to close database")
	}
}
