package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/pagination"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

// parsePagination reads page, size, sort, direction and search from the query.
// Normalization happens in the service.
func parsePagination(c *gin.Context) pagination.Request {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(pagination.DefaultSize)))

	return pagination.Request{
		Page:      page,
		Size:      size,
		Sort:      c.Query("sort"),
		Direction: c.Query("direction"),
		Search:    c.Query("search"),
	}
}

// parseID parses the named path parameter, writing 400 when it is not a UUID.
func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// currentCaller returns the authenticated caller, writing 401 when absent.
func currentCaller(c *gin.Context) (auth.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
	}
	return caller, ok
}
