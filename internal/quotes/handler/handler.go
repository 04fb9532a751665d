package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orcamento_backend/internal/quotes/service"
	"orcamento_backend/internal/quotes/transport"
	"orcamento_backend/platform/httpkit"
	"orcamento_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc      *service.Service
	docs     *service.DocumentService
	validate *validator.Validator
}

func New(svc *service.Service, docs *service.DocumentService, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, docs: docs, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/draft", h.StartDraft)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/items", h.AddItem)
	rg.PUT("/:id/items/:serviceId", h.SetQuantity)
	rg.DELETE("/:id/items/:serviceId", h.RemoveItem)
	rg.POST("/:id/finalize", h.Finalize)
	rg.POST("/:id/decision", h.Decide)
	rg.GET("/:id/pdf", h.DownloadPDF)
	rg.POST("/:id/email", h.Email)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quote, err := h.svc.Create(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, quote)
}

func (h *Handler) StartDraft(c *gin.Context) {
	var req transport.StartDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quote, err := h.svc.StartDraft(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, quote)
}

func (h *Handler) GetByID(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	quote, err := h.svc.GetByID(c.Request.Context(), quoteID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

func (h *Handler) AddItem(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quote, err := h.svc.AddItem(c.Request.Context(), quoteID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

func (h *Handler) SetQuantity(c *gin.Context) {
	quoteID, serviceID, ok := h.itemParams(c)
	if !ok {
		return
	}

	var req transport.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	quote, err := h.svc.SetQuantity(c.Request.Context(), quoteID, serviceID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	quoteID, serviceID, ok := h.itemParams(c)
	if !ok {
		return
	}

	quote, err := h.svc.RemoveItem(c.Request.Context(), quoteID, serviceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

func (h *Handler) Finalize(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quote, err := h.svc.Finalize(c.Request.Context(), quoteID, userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

func (h *Handler) Decide(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quote, err := h.svc.SetDecision(c.Request.Context(), quoteID, userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

func (h *Handler) DownloadPDF(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	pdf, filename, err := h.docs.RenderPDF(c.Request.Context(), quoteID)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) Email(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.EmailQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.docs.Email(c.Request.Context(), quoteID, req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"sent": len(req.Recipients)})
}

func (h *Handler) itemParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, uuid.Nil, false
	}
	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, uuid.Nil, false
	}
	return quoteID, serviceID, true
}
