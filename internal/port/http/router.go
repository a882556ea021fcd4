package http

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, m *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log, m))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.HandleLogin)

		r.Get("/products", h.HandleListProducts)
		r.Get("/products/{id}", h.HandleGetProduct)
		r.Post("/products/{id}/offers", h.HandleMakeOffer)
		r.Get("/shops/{id}", h.HandleGetShop)
		r.Get("/shops/{id}/products", h.HandleListShopProducts)

		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(h.tokens, log))

			r.Get("/me", h.HandleMe)
			r.Get("/dashboard", h.HandleDashboard)

			r.Post("/products", h.HandleAddProduct)
			r.Post("/products/description", h.HandleGenerateDescription)
			r.Post("/products/{id}/images", h.HandleUploadImage)

			r.Get("/favorites", h.HandleListFavorites)
			r.Post("/favorites/{productID}/toggle", h.HandleToggleFavorite)

			r.Get("/orders", h.HandleListOrders)
			r.Post("/orders", h.HandleCreateOrder)
			r.Get("/orders/{id}", h.HandleGetOrder)
			r.Post("/orders/{id}/status", h.HandleAdvanceStatus)
		})
	})

	return r
}
