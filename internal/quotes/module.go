// Package quotes provides the quote drafting and decision workflow module.
package quotes

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/events"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/internal/quotes/handler"
	"orcamento_backend/internal/quotes/repository"
	"orcamento_backend/internal/quotes/service"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

// Module is the quotes bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	docs    *service.DocumentService
}

// NewModule wires the quotes module. The catalog gateway, renderer and sender
// come from their own modules so the quote workflow stays decoupled from
// catalog storage and document delivery.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, catalog service.CatalogGateway, renderer service.Renderer, sender service.Sender, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, log)
	svc.SetEventBus(eventBus)
	docs := service.NewDocumentService(svc, catalog, renderer, sender, log)
	h := handler.New(svc, docs, val)

	return &Module{
		handler: h,
		service: svc,
		docs:    docs,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotes"
}

// Service exposes the service layer to sibling modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Documents exposes the document service so storage archiving can be attached.
func (m *Module) Documents() *service.DocumentService {
	return m.docs
}

// RegisterRoutes mounts the quote routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

var _ apphttp.Module = (*Module)(nil)
