package api

import (
	"net/http"

	"github.com/aled/logistics-sandbox/internal/api/handlers"
	"github.com/aled/logistics-sandbox/internal/api/middleware"
	"github.com/aled/logistics-sandbox/internal/config"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)
	createLimit := middleware.NewRateLimit(cfg.DemoCreateRatePerMin)

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS)
	r.Use(metrics.Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Initialize handlers
	demoHandler := handlers.NewDemoHandler(services.Demo, log)
	adminHandler := handlers.NewAdminHandler(services.Demo, log)
	erpHandler := handlers.NewERPHandler(services.ERP, log)

	// API v1 routes; every call may carry a token, so auth resolution is
	// global and protected handlers decide what anonymous means.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(services.Demo))

		r.Route("/demos", func(r chi.Router) {
			r.With(createLimit.Handler).Post("/", demoHandler.Create)
			r.Get("/{guid}", demoHandler.Get)
			r.Delete("/{guid}", demoHandler.Delete)
			r.Get("/{guid}/retailers", demoHandler.GetRetailers)
			r.Post("/{guid}/users", demoHandler.CreateUser)
			r.Post("/{guid}/login", demoHandler.Login)
		})

		r.Delete("/logout/{token}", demoHandler.Logout)

		r.Get("/admin", adminHandler.Load)

		// Pass-through ERP reads
		r.Get("/shipments", erpHandler.Shipments)
		r.Get("/distribution-centers", erpHandler.DistributionCenters)
		r.Route("/retailers", func(r chi.Router) {
			r.Get("/", erpHandler.Retailers)
			r.Get("/{id}", erpHandler.Retailer)
			r.Get("/{id}/inventory", erpHandler.RetailerInventory)
		})
		r.Get("/products", erpHandler.Products)
	})

	return r
}
