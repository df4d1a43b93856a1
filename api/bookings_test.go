package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.BookingWithVehicle, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingWithVehicle), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.BookingWithVehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingWithVehicle), args.Error(1)
}

func (m *MockBookingUseCase) CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newCreateRequest(t *testing.T, c *gin.Context, req createBookingRequest) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	start := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	newCreateRequest(t, c, createBookingRequest{
		VehicleID:   "v-1",
		CustomerID:  "c-1",
		FromPincode: "560001",
		ToPincode:   "560011",
		StartTime:   start.Format(time.RFC3339),
	})

	created := &domain.BookingWithVehicle{
		Booking: domain.Booking{
			ID:                         "b-1",
			VehicleID:                  "v-1",
			CustomerID:                 "c-1",
			FromPincode:                "560001",
			ToPincode:                  "560011",
			StartTime:                  start,
			EndTime:                    start.Add(10 * time.Hour),
			EstimatedRideDurationHours: 10,
			Status:                     domain.BookingStatusActive,
		},
		VehicleName:       "Tata Ace",
		VehicleCapacityKg: 750,
		VehicleTyres:      4,
	}
	mockService.On("CreateBooking", c.Request.Context(), booking.CreateBookingInput{
		VehicleID:   "v-1",
		CustomerID:  "c-1",
		FromPincode: "560001",
		ToPincode:   "560011",
		StartTime:   start,
	}).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "b-1", response.ID)
	assert.Equal(t, string(domain.BookingStatusActive), response.Status)
	assert.Equal(t, 10, response.EstimatedRideDurationHours)
	require.NotNil(t, response.Vehicle)
	assert.Equal(t, "Tata Ace", response.Vehicle.Name)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	start := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	newCreateRequest(t, c, createBookingRequest{
		VehicleID:   "v-1",
		CustomerID:  "c-1",
		FromPincode: "560001",
		ToPincode:   "560011",
		StartTime:   start.Format(time.RFC3339),
	})

	mockService.On("CreateBooking", c.Request.Context(), mock.Anything).Return(nil, domain.ErrBookingConflict)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_VehicleNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	start := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	newCreateRequest(t, c, createBookingRequest{
		VehicleID:   "missing",
		CustomerID:  "c-1",
		FromPincode: "560001",
		ToPincode:   "560011",
		StartTime:   start.Format(time.RFC3339),
	})

	mockService.On("CreateBooking", c.Request.Context(), mock.Anything).Return(nil, domain.ErrVehicleNotFound)

	handler.create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_BadPincode(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	newCreateRequest(t, c, createBookingRequest{
		VehicleID:   "v-1",
		CustomerID:  "c-1",
		FromPincode: "56001",
		ToPincode:   "560011",
		StartTime:   "2030-01-01T10:00:00Z",
	})

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/bookings", nil)

	bookings := []domain.BookingWithVehicle{
		{
			Booking:     domain.Booking{ID: "b-1", VehicleID: "v-1", Status: domain.BookingStatusActive},
			VehicleName: "Tata Ace",
		},
		{
			Booking: domain.Booking{ID: "b-2", VehicleID: "v-2", Status: domain.BookingStatusCompleted},
		},
	}
	mockService.On("ListBookings", c.Request.Context()).Return(bookings, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "b-1", response[0].ID)
	require.NotNil(t, response[0].Vehicle)
	assert.Nil(t, response[1].Vehicle)

	mockService.AssertExpectations(t)
}
