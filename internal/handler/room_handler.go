package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/application"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

// RoomUseCases is the room behaviour the HTTP layer depends on.
type RoomUseCases interface {
	ListRooms(ctx context.Context) ([]application.RoomDTO, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*application.RoomDTO, error)
	CreateRoom(ctx context.Context, req application.RoomRequest) (*application.RoomDTO, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, req application.RoomRequest) (*application.RoomDTO, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	FindAvailableRoom(ctx context.Context, req application.AvailabilityRequest) (*application.RoomDTO, error)
}

// RoomHandler handles HTTP requests for rooms and availability.
type RoomHandler struct {
	service RoomUseCases
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service RoomUseCases) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers all room routes.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	rooms := r.Group("/api/v1/rooms")
	rooms.Use(authMW)
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id", h.GetRoom)
		rooms.POST("/available-room", h.FindAvailableRoom)
		rooms.POST("", middleware.RequireAdmin(), h.CreateRoom)
		rooms.PUT("/:id", middleware.RequireAdmin(), h.UpdateRoom)
		rooms.DELETE("/:id", middleware.RequireAdmin(), h.DeleteRoom)
	}
}

// ListRooms handles GET /api/v1/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rooms)
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := parseID(c, "id", "room")
	if !ok {
		return
	}

	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

// FindAvailableRoom handles POST /api/v1/rooms/available-room.
func (h *RoomHandler) FindAvailableRoom(c *gin.Context) {
	var req application.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.service.FindAvailableRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

// CreateRoom handles POST /api/v1/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// UpdateRoom handles PUT /api/v1/rooms/:id.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id", "room")
	if !ok {
		return
	}

	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id", "room")
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
