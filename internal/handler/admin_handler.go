package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SoundHire-Cloud/service-booking/internal/application"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/response"
)

// AdminHandler handles admin HTTP requests for bookings, the catalog and
// global settings.
type AdminHandler struct {
	bookings *application.BookingService
	catalog  *application.CatalogService
	settings *application.SettingsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	catalog *application.CatalogService,
	settings *application.SettingsService,
) *AdminHandler {
	return &AdminHandler{bookings: bookings, catalog: catalog, settings: settings}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)

		admin.POST("/packages", h.CreatePackage)
		admin.PATCH("/packages/:id", h.UpdatePackage)
		admin.DELETE("/packages/:id", h.DeletePackage)

		admin.GET("/settings/addon-rate", h.GetAddonRate)
		admin.PUT("/settings/addon-rate", h.UpdateAddonRate)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// CreatePackage handles POST /api/v1/admin/packages.
func (h *AdminHandler) CreatePackage(c *gin.Context) {
	var req application.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalog.CreatePackage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdatePackage handles PATCH /api/v1/admin/packages/:id.
func (h *AdminHandler) UpdatePackage(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid package ID")
		return
	}

	var req application.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalog.UpdatePackage(c.Request.Context(), packageID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePackage handles DELETE /api/v1/admin/packages/:id.
func (h *AdminHandler) DeletePackage(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid package ID")
		return
	}

	if err := h.catalog.DeletePackage(c.Request.Context(), packageID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAddonRate handles GET /api/v1/admin/settings/addon-rate.
func (h *AdminHandler) GetAddonRate(c *gin.Context) {
	result, err := h.settings.GetAddonRate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateAddonRate handles PUT /api/v1/admin/settings/addon-rate.
func (h *AdminHandler) UpdateAddonRate(c *gin.Context) {
	var req application.UpdateAddonRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.settings.UpdateAddonRate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
