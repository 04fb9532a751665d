// Package audit subscribes to domain events and keeps an append-only trail
// of who did what across the quote lifecycle and the catalog.
package audit

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/audit/handler"
	"orcamento_backend/internal/audit/repository"
	"orcamento_backend/internal/audit/service"
	"orcamento_backend/internal/events"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/platform/logger"
)

// Module is the audit bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the audit module and subscribes it to the event bus.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.Subscribe(eventBus)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "audit"
}

// RegisterRoutes mounts the read-only audit listing.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/audit-logs"))
}

var _ apphttp.Module = (*Module)(nil)
