package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactdeck/contactdeck/config"
	"github.com/contactdeck/contactdeck/internal/email"
	"github.com/contactdeck/contactdeck/internal/health"
	"github.com/contactdeck/contactdeck/internal/infrastructure/mongodb"
	"github.com/contactdeck/contactdeck/internal/infrastructure/postgres"
	ctxlog "github.com/contactdeck/contactdeck/internal/log"
	"github.com/contactdeck/contactdeck/internal/metrics"
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/contactdeck/contactdeck/internal/stats"
	httptransport "github.com/contactdeck/contactdeck/internal/transport/http"
	"github.com/contactdeck/contactdeck/internal/transport/http/handler"
	"github.com/contactdeck/contactdeck/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		userRepo    repository.UserRepository
		contactRepo repository.ContactRepository
		store       health.Pinger
	)

	switch cfg.StoreBackend {
	case "postgres":
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()

		userRepo = postgres.NewUserRepository(pool)
		contactRepo = postgres.NewContactRepository(pool)
		store = pool
	default:
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer func() {
			if err := db.Disconnect(context.Background()); err != nil {
				logger.Error("mongo disconnect", "error", err)
			}
		}()
		if err := db.EnsureIndexes(ctx); err != nil {
			log.Fatalf("indexes: %v", err)
		}

		userRepo = mongodb.NewUserRepository(db)
		contactRepo = mongodb.NewContactRepository(db)
		store = db
	}

	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Auth
	authUsecase := usecase.NewAuthUsecase(userRepo, emailSender, []byte(cfg.JWTSecret), cfg.TokenTTL, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Contacts
	contactUsecase := usecase.NewContactUsecase(contactRepo)
	contactHandler := handler.NewContactHandler(contactUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(store, cfg.StoreBackend, logger, prometheus.DefaultRegisterer)

	collector := stats.NewCollector(userRepo, contactRepo, logger)
	if err := collector.Start(); err != nil {
		log.Fatalf("stats collector: %v", err)
	}
	defer collector.Stop()

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, contactHandler, httptransport.RouterConfig{
			JWTKey:        []byte(cfg.JWTSecret),
			AuthRateRPS:   cfg.AuthRateRPS,
			AuthRateBurst: cfg.AuthRateBurst,
		}),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
