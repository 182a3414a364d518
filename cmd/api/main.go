package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
	"github.com/BruksfildServices01/barber-booking/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validators.RegisterBindings(); err != nil {
		return err
	}

	db, err := dbpkg.Open(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := metrics.RegisterDB(sqlDB); err != nil {
		log.Warn("db stats collector not registered", zap.Error(err))
	}

	clock := timezone.NewSystemClock(cfg.Timezone)

	// ======================================================
	// OPTIONAL INFRA
	// ======================================================
	var availability cache.AvailabilityCache = cache.NopAvailabilityCache{}
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		availability = cache.NewRedisAvailabilityCache(rdb, cfg.AvailabilityCacheTTL, log)
		log.Info("availability cache enabled")
	}

	var photos handlers.PhotoStorage
	if cfg.PhotosEnabled() {
		s3cfg := media.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}
		photos = media.NewPhotoStore(media.NewS3Client(s3cfg), s3cfg)
		log.Info("photo uploads enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	var notifier notification.Notifier = notification.NopNotifier{}
	if cfg.MailEnabled() {
		notifier = notification.NewSMTPMailer(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, cfg.PublicBaseURL, cfg.DefaultLocale, clock.Location())
		log.Info("smtp notifications enabled", zap.String("host", cfg.SMTP.Host))
	}

	notifications := notification.NewDispatcher(notifier, log)
	defer notifications.Close()

	auditor := audit.NewDispatcher(audit.New(db), log)
	defer auditor.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:            db,
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTTTL,
		DefaultLocale: cfg.DefaultLocale,
		Serializable:  cfg.SerializableBookings,
		Clock:         clock,
		Cache:         availability,
		Audit:         auditor,
		Notify:        notifications,
		Photos:        photos,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("timezone", clock.Location().String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Dispatchers close on return; requests still running past the deadline
	// have their events dropped.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown deadline exceeded", zap.Error(err))
		return err
	}
	return nil
}
