// Package appointments provides the service-booking module: scheduling a
// catalog service for a visit, tracking its outcome and feeding the audit
// trail.
package appointments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/appointments/handler"
	"orcamento_backend/internal/appointments/repository"
	"orcamento_backend/internal/appointments/service"
	"orcamento_backend/internal/events"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

// Module is the appointments bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the appointments module. The catalog gateway comes from
// the catalog module so bookings resolve services without a direct import.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, catalog service.CatalogGateway, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, log)
	svc.SetEventBus(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes mounts the appointment routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/appointments"))
}

var _ apphttp.Module = (*Module)(nil)
