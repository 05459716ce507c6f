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

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/CampaignKPI_GO/internal/app"
	"github.com/AngelCh415/CampaignKPI_GO/internal/config"
	"github.com/AngelCh415/CampaignKPI_GO/internal/httpx"
	"github.com/AngelCh415/CampaignKPI_GO/internal/kpi"
	"github.com/AngelCh415/CampaignKPI_GO/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := app.NewSource(cfg, logger)
	if err != nil {
		logger.Error("campaign source", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer closeSrc()

	pred, err := app.NewPredictor(ctx, cfg, logger)
	if err != nil {
		logger.Error("predictor", slog.String("err", err.Error()))
		os.Exit(1)
	}

	rec := metrics.NewRecorder()
	kpis := kpi.NewService(src, logger)
	r := httpx.NewRouter(logger, kpis, pred, rec, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
