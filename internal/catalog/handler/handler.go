package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/catalog/transport"
	"orcamento_backend/platform/httpkit"
	"orcamento_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// RegisterServiceRoutes mounts the priced-service routes.
func (h *Handler) RegisterServiceRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListServices)
	rg.POST("", h.CreateService)
	rg.GET("/:id", h.GetService)
	rg.PUT("/:id", h.UpdateService)
	rg.DELETE("/:id", h.DeleteService)
}

// RegisterClientRoutes mounts the client and address routes.
func (h *Handler) RegisterClientRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListClients)
	rg.POST("", h.CreateClient)
	rg.GET("/:id", h.GetClient)
	rg.PUT("/:id", h.UpdateClient)
	rg.DELETE("/:id", h.DeleteClient)
	rg.GET("/:id/addresses", h.ListAddresses)
	rg.POST("/:id/addresses", h.CreateAddress)
	rg.PUT("/:id/addresses/:addressId", h.UpdateAddress)
	rg.DELETE("/:id/addresses/:addressId", h.DeleteAddress)
}

// RegisterCompanyRoutes mounts the issuing-company routes.
func (h *Handler) RegisterCompanyRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListCompanies)
	rg.POST("", h.CreateCompany)
	rg.GET("/:id", h.GetCompany)
	rg.PUT("/:id", h.UpdateCompany)
	rg.DELETE("/:id", h.DeleteCompany)
}

// ── Services ──────────────────────────────────────────────────────────────────

func (h *Handler) ListServices(c *gin.Context) {
	var req transport.ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	services, err := h.svc.ListServices(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, services)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req transport.CreateServiceRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	svc, err := h.svc.CreateService(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, svc)
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	svc, err := h.svc.GetService(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, svc)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateServiceRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	svc, err := h.svc.UpdateService(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteService(c.Request.Context(), userID, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (h *Handler) ListClients(c *gin.Context) {
	var req transport.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ListClients(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req transport.CreateClientRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	client, err := h.svc.CreateClient(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, client)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	client, err := h.svc.GetClient(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateClientRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	client, err := h.svc.UpdateClient(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, client)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteClient(c.Request.Context(), userID, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Addresses ─────────────────────────────────────────────────────────────────

func (h *Handler) ListAddresses(c *gin.Context) {
	clientID, ok := h.id(c, "id")
	if !ok {
		return
	}

	addresses, err := h.svc.ListAddresses(c.Request.Context(), clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, addresses)
}

func (h *Handler) CreateAddress(c *gin.Context) {
	clientID, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req transport.AddressRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	addr, err := h.svc.CreateAddress(c.Request.Context(), userID, clientID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, addr)
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	clientID, ok := h.id(c, "id")
	if !ok {
		return
	}
	addressID, ok := h.id(c, "addressId")
	if !ok {
		return
	}
	var req transport.AddressRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	addr, err := h.svc.UpdateAddress(c.Request.Context(), userID, clientID, addressID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, addr)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	clientID, ok := h.id(c, "id")
	if !ok {
		return
	}
	addressID, ok := h.id(c, "addressId")
	if !ok {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteAddress(c.Request.Context(), userID, clientID, addressID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Companies ─────────────────────────────────────────────────────────────────

func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.svc.ListCompanies(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, companies)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req transport.CompanyRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	company, err := h.svc.CreateCompany(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, company)
}

func (h *Handler) GetCompany(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	company, err := h.svc.GetCompany(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, company)
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req transport.CompanyRequest
	if !h.bind(c, &req) {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	company, err := h.svc.UpdateCompany(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, company)
}

func (h *Handler) DeleteCompany(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	userID, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCompany(c.Request.Context(), userID, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func (h *Handler) id(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) actor(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return userID, true
}
