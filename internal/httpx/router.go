package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AngelCh415/CampaignKPI_GO/internal/kpi"
	"github.com/AngelCh415/CampaignKPI_GO/internal/metrics"
	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
	"github.com/AngelCh415/CampaignKPI_GO/internal/predict"
	"github.com/AngelCh415/CampaignKPI_GO/internal/store"
	"github.com/AngelCh415/CampaignKPI_GO/internal/utils"
)

const maxBody = 1 << 20

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func NewRouter(log *slog.Logger, kpis *kpi.Service, pred predict.Predictor, rec *metrics.Recorder, origins []string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Instrument(rec))
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := kpis.Ready(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Method(http.MethodGet, "/metrics", rec.Handler())

	mux.Post("/filter-campaigns", func(w http.ResponseWriter, r *http.Request) {
		// cuerpo vacío = sin filtros
		var f models.Filters
		if err := decode(w, r, &f); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid filter payload", err)
			return
		}
		res, err := kpis.Compute(r.Context(), f)
		if err != nil {
			rec.Query(metrics.OutcomeError)
			log.Error("kpi query failed", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
			writeError(w, dataStatus(err), "campaign data unavailable", err)
			return
		}
		if res.Message == models.MessageNoMatch {
			rec.Query(metrics.OutcomeNoMatch)
		} else {
			rec.Query(metrics.OutcomeSuccess)
		}
		writeJSON(w, http.StatusOK, res)
	})

	mux.Get("/filter-options", func(w http.ResponseWriter, r *http.Request) {
		opts, err := kpis.Options(r.Context())
		if err != nil {
			writeError(w, dataStatus(err), "campaign data unavailable", err)
			return
		}
		writeJSON(w, http.StatusOK, opts)
	})

	mux.Post("/predict-campaign-outcome", func(w http.ResponseWriter, r *http.Request) {
		var in models.PredictRequest
		if err := decode(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid prediction payload", err)
			return
		}
		out, err := pred.Predict(r.Context(), in.Description)
		switch {
		case err == nil:
			rec.Prediction(metrics.OutcomeSuccess)
			writeJSON(w, http.StatusOK, models.PredictResponse{Prediction: out})
		case errors.Is(err, predict.ErrEmptyDescription):
			writeError(w, http.StatusBadRequest, "description is required", nil)
		case errors.Is(err, predict.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "prediction model unavailable", nil)
		default:
			rec.Prediction(metrics.OutcomeError)
			log.Error("prediction failed", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
			writeError(w, http.StatusBadGateway, "prediction failed", err)
		}
	})

	return mux
}

// decode returns io.EOF for an empty body.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v)
}

// dataStatus keeps source failures apart from client cancellations.
func dataStatus(err error) int {
	if errors.Is(err, store.ErrDataUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, code int, msg string, err error) {
	body := errorBody{Error: msg}
	if err != nil {
		body.Detail = err.Error()
	}
	writeJSON(w, code, body)
}

// writeJSON encodes before writing the header, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		slog.Error("encode response", slog.String("err", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"response encoding failed"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
