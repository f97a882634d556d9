package handler

import (
	"net/http"

	"wex_backend/internal/matching/service"
	"wex_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for matching
type Handler struct {
	svc *service.Service
}

// New creates a new matching handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the match routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/needs/:needId", h.ListForNeed)
	rg.GET("/:id", h.GetByID)
}

// RegisterAdminRoutes registers the clearing trigger for support use.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/needs/:needId/clear", h.Clear)
}

// Clear handles POST /api/v1/admin/matches/needs/:needId/clear
func (h *Handler) Clear(c *gin.Context) {
	needID, err := uuid.Parse(c.Param("needId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Clear(c.Request.Context(), needID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListForNeed handles GET /api/v1/matches/needs/:needId
func (h *Handler) ListForNeed(c *gin.Context) {
	needID, err := uuid.Parse(c.Param("needId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListForNeed(c.Request.Context(), needID, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/matches/:id
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

	result, err := h.svc.GetMatch(c.Request.Context(), id, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
