package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/spf13/afero"

	delivery "github.com/williamsclintwayne/YourBank-backend/internal/delivery/http"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/artifactstore"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/config"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/notify"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/pdf"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/postgres"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/qrgen"
	"github.com/williamsclintwayne/YourBank-backend/internal/jobs/retention"
	"github.com/williamsclintwayne/YourBank-backend/internal/txid"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/history"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/proof"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/transfer"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/verify"
)

const (
	dbMaxConns        = 10
	dbMinConns        = 2
	dbMaxConnLifetime = 30 * time.Minute
	dbMaxConnIdleTime = 5 * time.Minute

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second

	transactionIDPrefix = "YB"
	qrSizePixels        = 256
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	pool, err := initDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	artifacts, err := artifactstore.NewFilesystem(afero.NewOsFs(), cfg.ArtifactDir)
	if err != nil {
		logger.Error("artifact store init failed", "error", err)
		os.Exit(1)
	}

	uow := postgres.NewUnitOfWork(pool)

	transferUC := transfer.NewEngine(
		uow, txid.NewGenerator(transactionIDPrefix),
		notify.NewLogDispatcher(logger), logger,
	)
	proofUC := proof.NewService(
		uow, pdf.NewRenderer(), qrgen.NewGenerator(qrSizePixels), artifacts,
		cfg.BankName, cfg.VerifyBaseURL, logger,
	)
	verifyUC := verify.NewService(uow, logger)
	historyUC := history.NewService(uow)

	janitor := retention.NewJanitor(artifacts,
		time.Duration(cfg.RetentionDays)*24*time.Hour, logger)
	scheduler := cron.New()
	if err := janitor.Schedule(scheduler, cfg.CleanupSchedule); err != nil {
		logger.Error("scheduler init failed", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := delivery.NewHandler(transferUC, proofUC, verifyUC, historyUC)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           delivery.NewRouter(handler),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func initDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = dbMaxConns
	cfg.MinConns = dbMinConns
	cfg.MaxConnLifetime = dbMaxConnLifetime
	cfg.MaxConnIdleTime = dbMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
