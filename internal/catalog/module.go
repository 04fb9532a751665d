// Package catalog provides the priced-service, client and address module.
// It also exposes the read-only gateway the quote workflow resolves services
// and clients through.
package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/catalog/handler"
	"orcamento_backend/internal/catalog/repository"
	"orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/events"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

// Module is the catalog bounded context implementing http.Module.
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	gateway     *service.Gateway
	apptGateway *service.AppointmentGateway
}

// NewModule wires the catalog module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.SetEventBus(eventBus)

	return &Module{
		handler:     handler.New(svc, val),
		service:     svc,
		gateway:     service.NewGateway(svc),
		apptGateway: service.NewAppointmentGateway(svc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Gateway returns the read-only port the quotes module depends on.
func (m *Module) Gateway() *service.Gateway {
	return m.gateway
}

// AppointmentGateway returns the snapshot port the appointments module
// depends on.
func (m *Module) AppointmentGateway() *service.AppointmentGateway {
	return m.apptGateway
}

// RegisterRoutes mounts services, clients and companies on the authenticated
// group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterServiceRoutes(ctx.Protected.Group("/services"))
	m.handler.RegisterClientRoutes(ctx.Protected.Group("/clients"))
	m.handler.RegisterCompanyRoutes(ctx.Protected.Group("/companies"))
}

var _ apphttp.Module = (*Module)(nil)
