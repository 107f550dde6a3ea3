package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/lasty-backend/internal/adapter/oracle"
	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres/trainingerror"
	userrepo "github.com/heartmarshall/lasty-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres/wordpair"
	"github.com/heartmarshall/lasty-backend/internal/config"
	"github.com/heartmarshall/lasty-backend/internal/service/session"
	"github.com/heartmarshall/lasty-backend/internal/service/stats"
	"github.com/heartmarshall/lasty-backend/internal/service/training"
	usersvc "github.com/heartmarshall/lasty-backend/internal/service/user"
	"github.com/heartmarshall/lasty-backend/internal/service/words"
	"github.com/heartmarshall/lasty-backend/internal/transport/middleware"
	"github.com/heartmarshall/lasty-backend/internal/transport/rest"
	"github.com/heartmarshall/lasty-backend/migrations"
)

const rateLimitPerMinute = 300

// Run wires the whole application: configuration, logging, database,
// migrations, services, and the HTTP server with graceful shutdown.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := migrate(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	oracleClient, err := oracle.New(cfg.Oracle)
	if err != nil {
		return fmt.Errorf("create oracle client: %w", err)
	}

	wordRepo := wordpair.New(pool)
	errorRepo := trainingerror.New(pool)
	profileRepo := userrepo.New(pool)
	retryer := postgres.NewRetryer(cfg.Database)

	engine := training.NewService(logger, wordRepo, errorRepo, profileRepo, oracleClient, retryer)
	orchestrator := session.NewOrchestrator(logger, session.NewMemoryStore(), engine, cfg.Training.SessionLimits)
	wordsService := words.NewService(logger, wordRepo, cfg.Training.MaxImportWords)
	statsService := stats.NewService(logger, wordRepo, errorRepo)
	userService := usersvc.NewService(logger, profileRepo, postgres.NewTxManager(pool))

	router := rest.NewRouter(
		rest.NewTrainingHandler(orchestrator, logger),
		rest.NewWordsHandler(wordsService, logger),
		rest.NewStatsHandler(statsService, logger),
		rest.NewUsersHandler(userService, logger),
		rest.NewHealthHandler(pool, BuildVersion()),
	)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(rateLimitPerMinute),
		middleware.Identity,
	)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// migrate applies the embedded goose migrations. goose needs a
// database/sql handle, so this opens its own short-lived connection.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
