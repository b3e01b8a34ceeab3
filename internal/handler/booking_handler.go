package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/application"
	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/pagination"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

// BookingUseCases is the booking behaviour the HTTP layer depends on.
type BookingUseCases interface {
	CreateBooking(ctx context.Context, caller auth.Caller, req application.BookingRequest) (*application.BookingDTO, error)
	GetBooking(ctx context.Context, caller auth.Caller, id uuid.UUID) (*application.BookingDTO, error)
	ListBookings(ctx context.Context, caller auth.Caller, page pagination.Request) (pagination.Result[application.BookingDTO], error)
	UpdateBooking(ctx context.Context, caller auth.Caller, id uuid.UUID, req application.BookingRequest) (*application.BookingDTO, error)
	UpdateBookingStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, status string) (*application.BookingDTO, error)
	DeleteBooking(ctx context.Context, caller auth.Caller, id uuid.UUID) error
	GetBookingStats(ctx context.Context) (*application.BookingStatsDTO, error)
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service BookingUseCases
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service BookingUseCases) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.PATCH("/:id/status", middleware.RequireAdmin(), h.UpdateBookingStatus)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Non-admins only see their own bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), caller, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id", "booking")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), caller, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id", "booking")
	if !ok {
		return
	}

	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), caller, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id", "booking")
	if !ok {
		return
	}

	var req application.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBookingStatus(c.Request.Context(), caller, bookingID, req.BookingStatus)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	bookingID, ok := parseID(c, "id", "booking")
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), caller, bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
