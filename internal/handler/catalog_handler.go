package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/application"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

// CatalogUseCases is the catalog behaviour the HTTP layer depends on.
type CatalogUseCases interface {
	List(ctx context.Context, activeOnly bool) ([]application.CatalogEntryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*application.CatalogEntryDTO, error)
	Create(ctx context.Context, req application.CatalogRequest) (*application.CatalogEntryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req application.CatalogRequest) (*application.CatalogEntryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogHandler serves one catalog (amenity types or service types) under path.
type CatalogHandler struct {
	service CatalogUseCases
	path    string
}

// NewCatalogHandler creates a CatalogHandler mounted at /api/v1/<path>.
func NewCatalogHandler(service CatalogUseCases, path string) *CatalogHandler {
	return &CatalogHandler{service: service, path: path}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	entries := r.Group("/api/v1/" + h.path)
	entries.Use(authMW)
	{
		entries.GET("", h.List)
		entries.GET("/:id", h.Get)
		entries.POST("", middleware.RequireAdmin(), h.Create)
		entries.PUT("/:id", middleware.RequireAdmin(), h.Update)
		entries.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
	}
}

// List handles GET /api/v1/<path>?active=true.
func (h *CatalogHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// Get handles GET /api/v1/<path>/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "catalog entry")
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

// Create handles POST /api/v1/<path>.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req application.CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update handles PUT /api/v1/<path>/:id.
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "catalog entry")
	if !ok {
		return
	}

	var req application.CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

// Delete handles DELETE /api/v1/<path>/:id.
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "catalog entry")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
