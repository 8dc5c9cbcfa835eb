package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finsmart/internal/config"
	"finsmart/internal/demo"
	"finsmart/internal/events"
	"finsmart/internal/handlers"
	"finsmart/internal/logging"
	"finsmart/internal/service"
	"finsmart/internal/session"
	"finsmart/internal/storage"
	"finsmart/internal/storage/postgres"
	"finsmart/internal/storage/sqlite"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	publisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	sessions := session.NewManager(store)
	h := handlers.NewHandlers(
		service.NewAuthService(store, sessions, publisher),
		service.NewFinanceService(store, publisher),
		demo.NewTimeSeeded(),
		cfg.SecureCookie,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           setupRouter(h, cfg.CORSOrigins, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithFields(logrus.Fields{"addr": srv.Addr, "driver": cfg.DBDriver}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sweepSessions(gctx, sessions, cfg.SweepInterval, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupRouter wraps the API routes with CORS and request logging.
func setupRouter(h *handlers.Handlers, corsOrigins []string, logger *logrus.Logger) http.Handler {
	return logging.Middleware(logger)(handlers.CORS(corsOrigins, h.Routes()))
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return store, nil
	default:
		db, err := sqlite.NewDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite %s: %w", cfg.DBPath, err)
		}
		return db, nil
	}
}

func openPublisher(cfg config.Config, logger *logrus.Logger) (events.Publisher, error) {
	if cfg.AMQP.URL == "" {
		return events.Nop{}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, fmt.Errorf("init event publisher: %w", err)
	}
	logger.WithField("exchange", cfg.AMQP.Exchange).Info("publishing events to AMQP")
	return p, nil
}

// sweepSessions deletes expired sessions every interval until ctx is done.
func sweepSessions(ctx context.Context, sessions *session.Manager, interval time.Duration, logger *logrus.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Sweep(ctx)
			if err != nil {
				logger.WithError(err).Warn("session sweep failed")
				continue
			}
			if n > 0 {
				logger.WithField("removed", n).Debug("expired sessions swept")
			}
		}
	}
}
