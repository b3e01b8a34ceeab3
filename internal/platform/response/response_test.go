package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

func TestError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperror.NewNotFoundError("Booking", "1"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", apperror.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid state", apperror.NewInvalidStateError("CANCELED", "BOOKED"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"forbidden", apperror.NewForbiddenError("no"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", apperror.NewConflictError("dup"), http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Error.Message, "db down")
			}
		})
	}
}
