package app

import (
	"context"
	"log/slog"

	"github.com/AngelCh415/CampaignKPI_GO/internal/config"
	"github.com/AngelCh415/CampaignKPI_GO/internal/predict"
	"github.com/AngelCh415/CampaignKPI_GO/internal/store"
)

// NewSource picks Postgres when DATABASE_URL is set and the CSV file
// otherwise. The returned close func is never nil.
func NewSource(cfg config.Config, log *slog.Logger) (store.Source, func() error, error) {
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresSource(cfg.DatabaseURL, cfg.DataTable)
		if err != nil {
			return nil, nil, err
		}
		log.Info("campaign source", slog.String("kind", "postgres"), slog.String("table", cfg.DataTable))
		return pg, pg.Close, nil
	}
	log.Info("campaign source", slog.String("kind", "csv"), slog.String("path", cfg.DataPath))
	return store.NewCSVSource(cfg.DataPath), func() error { return nil }, nil
}

// NewPredictor prefers the self-hosted model server, then Gemini. Without
// either it returns predict.Unavailable.
func NewPredictor(ctx context.Context, cfg config.Config, log *slog.Logger) (predict.Predictor, error) {
	switch {
	case cfg.PredictorURL != "":
		log.Info("predictor", slog.String("kind", "http"), slog.String("url", cfg.PredictorURL))
		return predict.NewHTTPPredictor(predict.NewHTTPClient(cfg.HTTPTimeout), cfg.PredictorURL, cfg.PredictMaxTokens, log), nil
	case cfg.GeminiAPIKey != "":
		log.Info("predictor", slog.String("kind", "gemini"), slog.String("model", cfg.GeminiModel))
		g, err := predict.NewGeminiPredictor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.PredictMaxTokens)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		log.Warn("no predictor configured")
		return predict.Unavailable{}, nil
	}
}
