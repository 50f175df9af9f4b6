package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/essay"
	"github.com/MikeSquared-Agency/Northstar/internal/events"
	"github.com/MikeSquared-Agency/Northstar/internal/ranking"
)

type RouterConfig struct {
	RateLimitPerMinute int
	TopK               int
}

func NewRouter(c catalog.Catalog, r *ranking.Ranker, e *essay.Orchestrator, p events.Publisher, cfg RouterConfig, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.RequestID)
	router.Use(CORSMiddleware)
	router.Use(RequestLogger(logger))
	if cfg.RateLimitPerMinute > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))
	}

	weights := NewWeightsHandler()
	scholarships := NewScholarshipsHandler(c, e)
	matches := NewMatchesHandler(c, r, p, cfg.TopK, logger)
	essays := NewEssaysHandler(e, p, logger)

	router.Route("/api/v1", func(api chi.Router) {
		api.Post("/weights/reweight", weights.Reweight)

		api.Get("/scholarships", scholarships.List)
		api.Post("/scholarships/match", matches.Match)
		api.Get("/scholarships/{id}", scholarships.Get)
		api.Get("/scholarships/{id}/analysis", scholarships.Analysis)

		api.Post("/essays/generate", essays.Generate)
	})

	return router
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
