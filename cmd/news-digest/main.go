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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/news-digest/internal/config"
	"github.com/kitbuilder587/news-digest/internal/httpapi"
	"github.com/kitbuilder587/news-digest/internal/metrics"
	"github.com/kitbuilder587/news-digest/internal/ratelimit"
	"github.com/kitbuilder587/news-digest/internal/search/serper"
	"github.com/kitbuilder587/news-digest/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "news-digest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	mode, err := service.ParseStorageMode(cfg.Storage.Mode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openHistoryRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	// без backend писать некуда
	if repo == nil {
		mode = service.StorageOff
	}

	m := metrics.New(nil)

	searchClient := serper.New(serper.Config{
		APIKey:    cfg.Serper.APIKey,
		BaseURL:   cfg.Serper.BaseURL,
		Timeout:   cfg.Serper.Timeout,
		ResultCap: cfg.Serper.ResultCap,
	}, logger)

	history := service.NewHistoryService(repo, logger)
	news := service.NewNewsService(service.NewsServiceDeps{
		Search:  searchClient,
		History: history,
		Logger:  logger,
		Metrics: m,
		Config:  service.NewsConfig{StorageMode: mode},
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute})
		defer limiter.Stop()
	}

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		News:        news,
		History:     history,
		Validator:   validator.New(),
		Logger:      logger,
		Metrics:     m,
		Limiter:     limiter,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting news digest service",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("storage_mode", mode.String()),
		zap.Int("rate_limit_per_minute", cfg.RateLimit.RequestsPerMinute),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", zap.Error(err))
		}

		// фоновые записи истории должны успеть завершиться до закрытия хранилища
		news.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		return err
	}

	logger.Info("service stopped")
	return nil
}
