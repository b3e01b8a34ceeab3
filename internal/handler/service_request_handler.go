package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelbooking/service-booking/internal/application"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

// ServiceRequestHandler handles HTTP requests for services ordered on bookings.
type ServiceRequestHandler struct {
	service *application.ServiceRequestService
}

// NewServiceRequestHandler creates a new ServiceRequestHandler.
func NewServiceRequestHandler(service *application.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{service: service}
}

// RegisterRoutes registers all service request routes.
func (h *ServiceRequestHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	services := r.Group("/api/v1/room-services")
	services.Use(authMW)
	{
		services.GET("", middleware.RequireAdmin(), h.List)
		services.GET("/booking/:bookingId", h.ListByBooking)
		services.GET("/:id", h.Get)
		services.POST("", h.Create)
		services.DELETE("/booking/:bookingId", middleware.RequireAdmin(), h.DeleteAllByBooking)
		services.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
	}
}

// List handles GET /api/v1/room-services.
func (h *ServiceRequestHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// ListByBooking handles GET /api/v1/room-services/booking/:bookingId.
func (h *ServiceRequestHandler) ListByBooking(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "bookingId", "booking")
	if !ok {
		return
	}

	items, err := h.service.ListByBooking(c.Request.Context(), caller, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Get handles GET /api/v1/room-services/:id.
func (h *ServiceRequestHandler) Get(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "room service")
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// Create handles POST /api/v1/room-services.
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	var req application.ServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Delete handles DELETE /api/v1/room-services/:id.
func (h *ServiceRequestHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "room service")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAllByBooking handles DELETE /api/v1/room-services/booking/:bookingId.
func (h *ServiceRequestHandler) DeleteAllByBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "bookingId", "booking")
	if !ok {
		return
	}

	if err := h.service.DeleteAllByBooking(c.Request.Context(), bookingID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
