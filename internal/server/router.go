package server

import (
	"net/http"

	"varejo-ai-web/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/healthz", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		// --- エンティティ管理 ---
		r.Post("/stores", h.HandleCreateStore)
		r.Get("/stores/{id}", h.HandleGetStore)
		r.Post("/campaigns", h.HandleCreateCampaign)
		r.Get("/campaigns/{id}", h.HandleGetCampaign)

		// --- 生成パイプライン ---
		r.Route("/generate", func(r chi.Router) {
			r.Post("/campaign", h.HandleGenerateCampaignCopy)
			r.Post("/reels", h.HandleGenerateReels)
			r.Post("/weekly-plan", h.HandleGenerateWeeklyPlan)
		})

		r.Get("/weekly-plan", h.HandleGetWeeklyPlan)
	})
}
