package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // notification timestamps need zone data on slim images

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"portfolio-contact-backend/config"
	_ "portfolio-contact-backend/docs" // Important for Swagger
	v1 "portfolio-contact-backend/internal/delivery/http/v1"
	"portfolio-contact-backend/internal/repository/postgres"
	"portfolio-contact-backend/internal/usecase"
	"portfolio-contact-backend/pkg/audit"
	"portfolio-contact-backend/pkg/auth"
	"portfolio-contact-backend/pkg/backup"
	"portfolio-contact-backend/pkg/database"
	"portfolio-contact-backend/pkg/email"
	"portfolio-contact-backend/pkg/logger"
	"portfolio-contact-backend/pkg/redis"
	"portfolio-contact-backend/pkg/scheduler"
	"portfolio-contact-backend/pkg/validation"
)

// @title           Portfolio Contact Backend API
// @version         1.0
// @description     Contact form backend that keeps every valid submission in the database or the backup log.
// @host            localhost:8000
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio contact backend",
		"port", cfg.Port,
		"durability_policy", cfg.DurabilityPolicy,
		"email_transport", cfg.EmailTransport,
	)

	ctx := context.Background()

	// 3. Setup Database (optional, the backup log covers outages)
	dbPool := setupDatabase(ctx, cfg)
	if dbPool != nil {
		defer dbPool.Close()
	}

	// 4. Setup Audit Trail
	auditLog := audit.New("portfolio-contact-backend", cfg.GinMode)
	if dbPool != nil {
		auditLog.SetPersistFunc(audit.NewRepository(dbPool).CreatePersistFunc())
	}
	audit.SetDefault(auditLog)
	defer func() { _ = auditLog.Sync() }()

	// 5. Setup Redis (optional, rate limits fall back to memory)
	var redisClient *goredis.Client
	if cfg.UpstashRedisURL != "" {
		redisClient, err = redis.New(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limits", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 6. Setup Repositories and Stores
	contactRepo := postgres.NewContactRepository(dbPool)
	adminUserRepo := postgres.NewAdminUserRepository(dbPool)
	backupStore := backup.NewFileStore(cfg.BackupPath)

	// 7. Setup Email Notifier
	sender, err := email.NewSender(ctx, cfg)
	if err != nil {
		logger.Log.Error("Email sender setup failed, notifications are off", "error", err)
		sender = nil
	}
	notifier := email.NewNotifier(cfg, sender, auditLog)
	if !notifier.Enabled() {
		logger.Log.Warn("Email notifications not configured", "transport", notifier.Transport())
	}

	// 8. Setup UseCases
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	contactUC := usecase.NewContactUsecase(contactRepo, backupStore, notifier, validation.New(), auditLog, cfg.DurabilityPolicy)
	var loginGuard usecase.LoginGuard
	if redisClient != nil {
		loginGuard = auth.NewLoginTracker(redisClient, auth.DefaultLoginTrackerConfig())
	}
	authUC := usecase.NewAuthUsecase(adminUserRepo, tokens, loginGuard, auditLog)
	adminUC := usecase.NewAdminUsecase(contactRepo, auditLog)

	var ping usecase.PingFunc
	if dbPool != nil {
		ping = func(ctx context.Context) error { return database.Ping(ctx, dbPool) }
	}
	healthUC := usecase.NewHealthUsecase(ping, string(notifier.Transport()), cfg.BackupPath)

	// 9. Setup Scheduled Jobs
	jobs := scheduler.New()
	setupMirror(ctx, cfg, jobs)
	jobs.Start()

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		AuthUC:    authUC,
		AdminUC:   adminUC,
		HealthUC:  healthUC,
		Tokens:    tokens,
		Redis:     redisClient,
		Audit:     auditLog,
		Config:    cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := notifier.Wait(shutdownCtx); err != nil {
		logger.Log.Warn("Pending notifications abandoned", "error", err)
	}
	jobs.Stop()

	logger.Log.Info("Server exiting")
}

// setupDatabase returns nil when no database is configured or the URL is
// invalid. An unreachable database still yields a pool that reconnects lazily.
func setupDatabase(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	if cfg.DBUrl == "" {
		return nil
	}
	pool, err := database.NewPostgresPool(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Invalid database configuration, running without database", "error", err)
		return nil
	}
	if err := database.Ping(ctx, pool); err != nil {
		logger.Log.Warn("Database unreachable at startup, submissions go to the backup log", "error", err)
		return pool
	}
	if cfg.AutoMigrate {
		seed := postgres.AdminSeed{Username: cfg.AdminUsername, Email: cfg.AdminEmail, Password: cfg.AdminPassword}
		if err := postgres.Migrate(ctx, pool, seed); err != nil {
			logger.Log.Error("Migration failed", "error", err)
		}
	}
	return pool
}

func setupMirror(ctx context.Context, cfg *config.Config, jobs *scheduler.Scheduler) {
	mc := backup.MirrorConfigFrom(cfg)
	if !mc.Enabled() {
		return
	}
	client, err := backup.NewS3Client(ctx, mc)
	if err != nil {
		logger.Log.Error("Backup mirror disabled", "error", err)
		return
	}
	mirror := backup.NewMirror(client, mc.Bucket, mc.Prefix, cfg.BackupPath)
	err = jobs.Add("backup-mirror", cfg.MirrorSchedule, func(ctx context.Context) error {
		key, err := mirror.Snapshot(ctx)
		if errors.Is(err, backup.ErrNoBackup) {
			return nil
		}
		if err != nil {
			return err
		}
		logger.Log.Info("Backup log mirrored", "bucket", mc.Bucket, "key", key)
		return nil
	})
	if err != nil {
		logger.Log.Error("Invalid backup mirror schedule", "schedule", cfg.MirrorSchedule, "error", err)
	}
}
