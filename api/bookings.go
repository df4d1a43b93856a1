package api

import (
	"net/http"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	VehicleID   string `json:"vehicleId"`
	CustomerID  string `json:"customerId"`
	FromPincode string `json:"fromPincode"`
	ToPincode   string `json:"toPincode"`
	StartTime   string `json:"startTime"`
}

type vehicleSummary struct {
	Name       string `json:"name"`
	CapacityKg int    `json:"capacityKg"`
	Tyres      int    `json:"tyres"`
}

type bookingResponse struct {
	ID                         string          `json:"id"`
	VehicleID                  string          `json:"vehicleId"`
	CustomerID                 string          `json:"customerId"`
	FromPincode                string          `json:"fromPincode"`
	ToPincode                  string          `json:"toPincode"`
	StartTime                  string          `json:"startTime"`
	EndTime                    string          `json:"endTime"`
	EstimatedRideDurationHours int             `json:"estimatedRideDurationHours"`
	Status                     string          `json:"status"`
	Vehicle                    *vehicleSummary `json:"vehicle,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !pincodeRe.MatchString(req.FromPincode) || !pincodeRe.MatchString(req.ToPincode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pincodes must be exactly 6 digits"})
		return
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startTime must be an RFC3339 timestamp"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		VehicleID:   req.VehicleID,
		CustomerID:  req.CustomerID,
		FromPincode: req.FromPincode,
		ToPincode:   req.ToPincode,
		StartTime:   startTime,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(*created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func toBookingResponse(b domain.BookingWithVehicle) bookingResponse {
	resp := bookingResponse{
		ID:                         b.ID,
		VehicleID:                  b.VehicleID,
		CustomerID:                 b.CustomerID,
		FromPincode:                b.FromPincode,
		ToPincode:                  b.ToPincode,
		StartTime:                  b.StartTime.Format(time.RFC3339),
		EndTime:                    b.EndTime.Format(time.RFC3339),
		EstimatedRideDurationHours: b.EstimatedRideDurationHours,
		Status:                     string(b.Status),
	}
	if b.VehicleName != "" {
		resp.Vehicle = &vehicleSummary{
			Name:       b.VehicleName,
			CapacityKg: b.VehicleCapacityKg,
			Tyres:      b.VehicleTyres,
		}
	}
	return resp
}
