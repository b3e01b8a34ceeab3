package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelbooking/service-booking/internal/application"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

// RoomAmenityHandler handles HTTP requests for room amenities.
type RoomAmenityHandler struct {
	service *application.RoomAmenityService
}

// NewRoomAmenityHandler creates a new RoomAmenityHandler.
func NewRoomAmenityHandler(service *application.RoomAmenityService) *RoomAmenityHandler {
	return &RoomAmenityHandler{service: service}
}

// RegisterRoutes registers all room amenity routes.
func (h *RoomAmenityHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	amenities := r.Group("/api/v1/room-amenities")
	amenities.Use(authMW)
	{
		amenities.GET("", h.List)
		amenities.GET("/room/:roomId", h.ListByRoom)
		amenities.GET("/:id", h.Get)
		amenities.POST("", middleware.RequireAdmin(), h.Create)
		amenities.DELETE("/room/:roomId", middleware.RequireAdmin(), h.DeleteAllByRoom)
		amenities.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
	}
}

// List handles GET /api/v1/room-amenities.
func (h *RoomAmenityHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// ListByRoom handles GET /api/v1/room-amenities/room/:roomId.
func (h *RoomAmenityHandler) ListByRoom(c *gin.Context) {
	roomID, ok := parseID(c, "roomId", "room")
	if !ok {
		return
	}

	items, err := h.service.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Get handles GET /api/v1/room-amenities/:id.
func (h *RoomAmenityHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "room amenity")
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// Create handles POST /api/v1/room-amenities.
func (h *RoomAmenityHandler) Create(c *gin.Context) {
	var req application.RoomAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Delete handles DELETE /api/v1/room-amenities/:id.
func (h *RoomAmenityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "room amenity")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAllByRoom handles DELETE /api/v1/room-amenities/room/:roomId.
func (h *RoomAmenityHandler) DeleteAllByRoom(c *gin.Context) {
	roomID, ok := parseID(c, "roomId", "room")
	if !ok {
		return
	}

	if err := h.service.DeleteAllByRoom(c.Request.Context(), roomID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
