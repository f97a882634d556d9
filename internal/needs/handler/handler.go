package handler

import (
	"net/http"

	"wex_backend/internal/needs/service"
	"wex_backend/internal/needs/transport"
	"wex_backend/platform/httpkit"
	"wex_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for needs
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new needs handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the need routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/close", h.Close)
}

// Create handles POST /api/v1/needs
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateNeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if identity.Role() != "buyer" {
		httpkit.Error(c, http.StatusForbidden, "only buyers submit needs", nil)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), service.SourceWeb, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/needs
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListForBuyer(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/needs/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Close handles POST /api/v1/needs/:id/close
func (h *Handler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Close(c.Request.Context(), id, identity.UserID(), identity.Role()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "closed"})
}
