package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SoundHire-Cloud/service-booking/internal/application"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/response"
)

// CatalogHandler serves the public package and gear catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/packages", h.ListPackages)
		v1.GET("/packages/:id", h.GetPackage)
		v1.GET("/gear", h.ListGear)
	}
}

// ListPackages returns every package, cheapest first.
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	result, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPackage returns a package with its gear lines.
func (h *CatalogHandler) GetPackage(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid package ID")
		return
	}

	result, err := h.service.GetPackage(c.Request.Context(), packageID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListGear returns the gear inventory.
func (h *CatalogHandler) ListGear(c *gin.Context) {
	result, err := h.service.ListGear(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
