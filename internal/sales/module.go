// Package sales provides the sale record module: one-way conversion of
// approved quotes into immutable sales, plus the sale read side.
package sales

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/events"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/internal/sales/handler"
	"orcamento_backend/internal/sales/repository"
	"orcamento_backend/internal/sales/service"
	"orcamento_backend/platform/logger"
)

// Module is the sales bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the sales module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.SetEventBus(eventBus)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sales"
}

// Service exposes the service layer to sibling modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the sale routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/sales"))
}

var _ apphttp.Module = (*Module)(nil)
