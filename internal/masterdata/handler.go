// Package masterdata groups the catalog subdomains behind one route mount.
package masterdata

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/areas"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/products"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/providers"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/units"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/warehouses"
)

// Handler aggregates the per-entity handlers under a single mount point.
type Handler struct {
	products   *products.Handler
	units      *units.Handler
	areas      *areas.Handler
	providers  *providers.Handler
	warehouses *warehouses.Handler
}

// NewHandler wires the catalog services and handlers against the shared pool.
func NewHandler(pool *pgxpool.Pool, logger *slog.Logger) *Handler {
	return &Handler{
		products:   products.NewHandler(products.NewService(products.NewPostgresRepository(pool), logger), logger),
		units:      units.NewHandler(units.NewService(units.NewPostgresRepository(pool), logger), logger),
		areas:      areas.NewHandler(areas.NewService(areas.NewPostgresRepository(pool), logger), logger),
		providers:  providers.NewHandler(providers.NewService(providers.NewPostgresRepository(pool), logger), logger),
		warehouses: warehouses.NewHandler(warehouses.NewService(warehouses.NewPostgresRepository(pool), logger), logger),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	h.products.MountRoutes(r)
	h.units.MountRoutes(r)
	h.areas.MountRoutes(r)
	h.providers.MountRoutes(r)
	h.warehouses.MountRoutes(r)
}
