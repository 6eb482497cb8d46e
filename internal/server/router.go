package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"stockledger/internal/cart"
	inventorycontroller "stockledger/internal/inventory/controller"
)

func NewRouter(
	activityCtrl *inventorycontroller.ActivityController,
	cartCtrl *cart.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/activities", activityCtrl.RecordActivity)
			r.Get("/activities", activityCtrl.ListActivities)
			r.Get("/activities/summary", activityCtrl.ActivitySummary)
			r.Get("/products/{productId}/activities", activityCtrl.ListProductActivities)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/items", cartCtrl.HandleAddItem)
			r.Put("/items", cartCtrl.HandleUpdateItem)
		})
	})

	return r
}
