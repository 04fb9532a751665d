// Package auth provides login and the authenticated profile endpoint.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/auth/handler"
	"orcamento_backend/internal/auth/repository"
	"orcamento_backend/internal/auth/service"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/platform/config"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

// Module is the auth bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts login on the public group behind the stricter rate
// limiter, and the profile route on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	if ctx.AuthRateLimiter != nil {
		public.Use(ctx.AuthRateLimiter.RateLimit())
	}
	m.handler.RegisterPublicRoutes(public)

	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/auth"))
}

var _ apphttp.Module = (*Module)(nil)
