package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/analytics"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/fleet"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/inventory"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/observability"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/requisition"
	"github.com/Arturolibup/sitemainventarios-sub002/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	RequisitionHandler *requisition.Handler
	InventoryHandler   *inventory.Handler
	MasterDataHandler  *masterdata.Handler
	FleetHandler       *fleet.Handler
	AnalyticsHandler   *analytics.Handler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router for the API surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if params.RequisitionHandler != nil {
			params.RequisitionHandler.MountRoutes(r)
		}
		if params.InventoryHandler != nil {
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
		}
		if params.MasterDataHandler != nil {
			r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
		}
		if params.FleetHandler != nil {
			r.Route("/fleet", params.FleetHandler.MountRoutes)
		}
		if params.AnalyticsHandler != nil {
			r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
		}
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
