package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hotelbooking/service-booking/internal/application"
	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/platform/pagination"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, caller auth.Caller, req application.BookingRequest) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, req)
	dto, _ := args.Get(0).(*application.BookingDTO)
	return dto, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, caller auth.Caller, id uuid.UUID) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, id)
	dto, _ := args.Get(0).(*application.BookingDTO)
	return dto, args.Error(1)
}

func (m *mockBookingService) ListBookings(ctx context.Context, caller auth.Caller, page pagination.Request) (pagination.Result[application.BookingDTO], error) {
	args := m.Called(ctx, caller, page)
	return args.Get(0).(pagination.Result[application.BookingDTO]), args.Error(1)
}

func (m *mockBookingService) UpdateBooking(ctx context.Context, caller auth.Caller, id uuid.UUID, req application.BookingRequest) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, id, req)
	dto, _ := args.Get(0).(*application.BookingDTO)
	return dto, args.Error(1)
}

func (m *mockBookingService) UpdateBookingStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, status string) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, id, status)
	dto, _ := args.Get(0).(*application.BookingDTO)
	return dto, args.Error(1)
}

func (m *mockBookingService) DeleteBooking(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *mockBookingService) GetBookingStats(ctx context.Context) (*application.BookingStatsDTO, error) {
	args := m.Called(ctx)
	dto, _ := args.Get(0).(*application.BookingStatsDTO)
	return dto, args.Error(1)
}

type mockRoomService struct {
	mock.Mock
}

func (m *mockRoomService) ListRooms(ctx context.Context) ([]application.RoomDTO, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]application.RoomDTO)
	return rooms, args.Error(1)
}

func (m *mockRoomService) GetRoom(ctx context.Context, id uuid.UUID) (*application.RoomDTO, error) {
	args := m.Called(ctx, id)
	dto, _ := args.Get(0).(*application.RoomDTO)
	return dto, args.Error(1)
}

func (m *mockRoomService) CreateRoom(ctx context.Context, req application.RoomRequest) (*application.RoomDTO, error) {
	args := m.Called(ctx, req)
	dto, _ := args.Get(0).(*application.RoomDTO)
	return dto, args.Error(1)
}

func (m *mockRoomService) UpdateRoom(ctx context.Context, id uuid.UUID, req application.RoomRequest) (*application.RoomDTO, error) {
	args := m.Called(ctx, id, req)
	dto, _ := args.Get(0).(*application.RoomDTO)
	return dto, args.Error(1)
}

func (m *mockRoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRoomService) FindAvailableRoom(ctx context.Context, req application.AvailabilityRequest) (*application.RoomDTO, error) {
	args := m.Called(ctx, req)
	dto, _ := args.Get(0).(*application.RoomDTO)
	return dto, args.Error(1)
}

type testServer struct {
	router *gin.Engine
	jwt    *auth.JWTManager
}

func newTestServer(t *testing.T, bookings BookingUseCases, rooms RoomUseCases) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt := auth.NewJWTManager("test-secret", "", time.Minute)
	authMW := middleware.AuthMiddleware(jwt, auth.RoleAdmin)

	r := gin.New()
	NewBookingHandler(bookings).RegisterRoutes(&r.RouterGroup, authMW)
	NewAdminBookingHandler(bookings).RegisterRoutes(&r.RouterGroup, authMW)
	NewRoomHandler(rooms).RegisterRoutes(&r.RouterGroup, authMW)
	return &testServer{router: r, jwt: jwt}
}

func (s *testServer) token(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	token, err := s.jwt.Generate(userID, roles)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.False(t, env.Success)
	return *env.Error
}

func isCaller(userID string) interface{} {
	return mock.MatchedBy(func(c auth.Caller) bool { return c.UserID == userID })
}

func TestCreateBooking_Created(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))
	roomID := uuid.New()

	req := application.BookingRequest{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		CheckInDate:   "2030-01-15",
		CheckOutDate:  "2030-01-17",
		AdultCapacity: 2,
		RoomID:        roomID,
	}
	svc.On("CreateBooking", mock.Anything, isCaller("user-1"), req).
		Return(&application.BookingDTO{ID: uuid.New(), RoomID: roomID, BookingStatus: "BOOKED", Night: 2, Version: 1}, nil)

	w := s.do(http.MethodPost, "/api/v1/bookings", s.token(t, "user-1", "USER"), req)
	require.Equal(t, http.StatusCreated, w.Code)

	var env struct {
		Success bool                   `json:"success"`
		Data    application.BookingDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "BOOKED", env.Data.BookingStatus)
	assert.Equal(t, 2, env.Data.Night)

	var raw struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, float64(1), raw.Data["version"])
	svc.AssertExpectations(t)
}

func TestCreateBooking_RoomUnavailable(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))

	svc.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, bookingDomain.ErrRoomUnavailable)

	w := s.do(http.MethodPost, "/api/v1/bookings", s.token(t, "user-1"), application.BookingRequest{
		FirstName: "Ada", LastName: "Lovelace", AdultCapacity: 1, RoomID: uuid.New(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "Room is not available for the selected dates", body.Message)
}

func TestCreateBooking_RejectsBadInput(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))

	w := s.do(http.MethodPost, "/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/bookings", s.token(t, "user-1"), map[string]string{"first_name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, w).Code)

	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBooking_ErrorMapping(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))
	token := s.token(t, "user-2")

	forbidden := uuid.New()
	missing := uuid.New()
	svc.On("GetBooking", mock.Anything, mock.Anything, forbidden).
		Return(nil, apperror.NewForbiddenError("Access denied: You can only view your own bookings"))
	svc.On("GetBooking", mock.Anything, mock.Anything, missing).
		Return(nil, apperror.NewNotFoundError("Booking", missing.String()))

	w := s.do(http.MethodGet, "/api/v1/bookings/"+forbidden.String(), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: You can only view your own bookings", decodeError(t, w).Message)

	w = s.do(http.MethodGet, "/api/v1/bookings/"+missing.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/bookings/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid booking ID", decodeError(t, w).Message)
}

func TestListBookings_PassesPagination(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))

	expected := pagination.Request{Page: 2, Size: 5, Sort: "last_name", Direction: "desc", Search: "smith"}
	svc.On("ListBookings", mock.Anything, isCaller("user-1"), expected).
		Return(pagination.NewResult([]application.BookingDTO{{LastName: "Smith"}}, 11, expected), nil)

	w := s.do(http.MethodGet, "/api/v1/bookings?page=2&size=5&sort=last_name&direction=desc&search=smith", s.token(t, "user-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data pagination.Result[application.BookingDTO] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(11), env.Data.Total)
	assert.Equal(t, 3, env.Data.TotalPages)
	assert.True(t, env.Data.Last)
	svc.AssertExpectations(t)
}

func TestUpdateBookingStatus_AdminOnly(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))
	id := uuid.New()
	path := "/api/v1/bookings/" + id.String() + "/status"

	w := s.do(http.MethodPatch, path, s.token(t, "user-1", "USER"), application.StatusRequest{BookingStatus: "CANCELED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.On("UpdateBookingStatus", mock.Anything, isCaller("admin"), id, "CHECKED_IN").
		Return(nil, apperror.NewInvalidStateError("CANCELED", "CHECKED_IN"))

	w = s.do(http.MethodPatch, path, s.token(t, "admin", auth.RoleAdmin), application.StatusRequest{BookingStatus: "CHECKED_IN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status transition from CANCELED to CHECKED_IN", decodeError(t, w).Message)
}

func TestDeleteBooking(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))
	id := uuid.New()
	svc.On("DeleteBooking", mock.Anything, isCaller("user-1"), id).Return(nil)

	w := s.do(http.MethodDelete, "/api/v1/bookings/"+id.String(), s.token(t, "user-1"), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAdminBookingStats(t *testing.T) {
	svc := new(mockBookingService)
	s := newTestServer(t, svc, new(mockRoomService))
	svc.On("GetBookingStats", mock.Anything).
		Return(&application.BookingStatsDTO{Total: 3, ByStatus: map[string]int64{"BOOKED": 3}}, nil)

	w := s.do(http.MethodGet, "/api/v1/admin/stats/bookings", s.token(t, "user-1"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/admin/stats/bookings", s.token(t, "admin", auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestFindAvailableRoom(t *testing.T) {
	rooms := new(mockRoomService)
	s := newTestServer(t, new(mockBookingService), rooms)
	token := s.token(t, "user-1")

	found := application.AvailabilityRequest{NumberOfAdults: 2, CheckInDate: "2030-01-15", CheckOutDate: "2030-01-17"}
	none := application.AvailabilityRequest{NumberOfAdults: 4, CheckInDate: "2030-01-15", CheckOutDate: "2030-01-17"}
	rooms.On("FindAvailableRoom", mock.Anything, found).Return(&application.RoomDTO{RoomNumber: 101, PriceCents: 10000}, nil)
	rooms.On("FindAvailableRoom", mock.Anything, none).Return(nil, apperror.NewNotFoundMessage("No available room"))

	w := s.do(http.MethodPost, "/api/v1/rooms/available-room", token, found)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"room_number":101`)

	w = s.do(http.MethodPost, "/api/v1/rooms/available-room", token, none)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No available room", decodeError(t, w).Message)
}

func TestRoomWrites_RequireAdmin(t *testing.T) {
	rooms := new(mockRoomService)
	s := newTestServer(t, new(mockBookingService), rooms)
	req := application.RoomRequest{RoomNumber: 101, PriceCents: 10000, AdultCapacity: 2}

	w := s.do(http.MethodPost, "/api/v1/rooms", s.token(t, "user-1"), req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	rooms.On("CreateRoom", mock.Anything, req).Return(nil, apperror.NewConflictError("Room number 101 already exists."))
	w = s.do(http.MethodPost, "/api/v1/rooms", s.token(t, "admin", auth.RoleAdmin), req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Room number 101 already exists.", decodeError(t, w).Message)
}
