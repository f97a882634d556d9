package handler

import (
	"net/http"

	"wex_backend/internal/warehouses/service"
	"wex_backend/internal/warehouses/transport"
	"wex_backend/platform/httpkit"
	"wex_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for warehouses
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new warehouses handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the warehouse routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id/terms", h.UpsertTerms)
	rg.POST("/:id/delist", h.Delist)
	rg.POST("/:id/photos/upload-url", h.RequestPhotoUpload)
	rg.POST("/:id/photos", h.ConfirmPhoto)
	rg.GET("/:id/photos", h.ListPhotos)
	rg.DELETE("/:id/photos/:photoId", h.DeletePhoto)
	rg.POST("/:id/description", h.GenerateDescription)
}

func (h *Handler) supplierIdentity(c *gin.Context) (httpkit.Identity, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return nil, false
	}
	if identity.Role() != "supplier" && identity.Role() != "admin" {
		httpkit.Error(c, http.StatusForbidden, "supplier access required", nil)
		return nil, false
	}
	return identity, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// Create handles POST /api/v1/warehouses
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/warehouses
func (h *Handler) List(c *gin.Context) {
	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.ListForSupplier(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/warehouses/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// UpsertTerms handles PUT /api/v1/warehouses/:id/terms
func (h *Handler) UpsertTerms(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.UpsertListingTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.UpsertTerms(c.Request.Context(), id, identity.UserID(), identity.Role(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Delist handles POST /api/v1/warehouses/:id/delist
func (h *Handler) Delist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.Delist(c.Request.Context(), id, identity.UserID(), identity.Role()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "delisted"})
}

// RequestPhotoUpload handles POST /api/v1/warehouses/:id/photos/upload-url
func (h *Handler) RequestPhotoUpload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.RequestPhotoUpload(c.Request.Context(), id, identity.UserID(), identity.Role(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ConfirmPhoto handles POST /api/v1/warehouses/:id/photos
func (h *Handler) ConfirmPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.ConfirmPhoto(c.Request.Context(), id, identity.UserID(), identity.Role(), req); httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{"status": "recorded"})
}

// ListPhotos handles GET /api/v1/warehouses/:id/photos
func (h *Handler) ListPhotos(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.ListPhotos(c.Request.Context(), id, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DeletePhoto handles DELETE /api/v1/warehouses/:id/photos/:photoId
func (h *Handler) DeletePhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	photoID, ok := parseIDParam(c, "photoId")
	if !ok {
		return
	}
	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePhoto(c.Request.Context(), id, photoID, identity.UserID(), identity.Role()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "deleted"})
}

// GenerateDescription handles POST /api/v1/warehouses/:id/description
func (h *Handler) GenerateDescription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	identity, ok := h.supplierIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateDescription(c.Request.Context(), id, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
