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

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/travelapp/travel-auth/config"
	"github.com/travelapp/travel-auth/internal/email"
	"github.com/travelapp/travel-auth/internal/health"
	"github.com/travelapp/travel-auth/internal/infrastructure/postgres"
	"github.com/travelapp/travel-auth/internal/janitor"
	ctxlog "github.com/travelapp/travel-auth/internal/log"
	"github.com/travelapp/travel-auth/internal/metrics"
	"github.com/travelapp/travel-auth/internal/password"
	"github.com/travelapp/travel-auth/internal/token"
	httptransport "github.com/travelapp/travel-auth/internal/transport/http"
	"github.com/travelapp/travel-auth/internal/transport/http/handler"
	"github.com/travelapp/travel-auth/internal/usecase"
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

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	accounts := postgres.NewAccountRepository(pool)

	hasher := password.NewBcryptHasher(0)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	sender := email.NewSender(cfg.ResendAPIKey, cfg.EmailFromHeader(), cfg.EmailEnabled, logger)
	mailer := email.NewConfirmationMailer(sender, cfg.FrontendBaseURL)

	authUsecase := usecase.NewAuthUsecase(accounts, hasher, issuer, mailer, logger, cfg.ConfirmTokenTTL)
	authHandler := handler.NewAuthHandler(authUsecase, accounts, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweeper, err := janitor.New(accounts, cfg.JanitorSchedule, cfg.JanitorGrace, logger)
	if err != nil {
		stop()
		log.Fatalf("janitor: %v", err)
	}
	sweeper.Start()

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, []byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
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
	sweeper.Stop(shutdownCtx)
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
