package api

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/service/vehicles"
	"github.com/gin-gonic/gin"
)

// pincodeRe gates location codes at the transport boundary; the core only
// ever sees 6-digit strings.
var pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)

type VehicleHandler struct {
	service vehicles.VehicleUseCase
}

type registerVehicleRequest struct {
	Name       string `json:"name"`
	CapacityKg int    `json:"capacityKg"`
	Tyres      int    `json:"tyres"`
}

type vehicleResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CapacityKg int    `json:"capacityKg"`
	Tyres      int    `json:"tyres"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  string `json:"createdAt"`
}

type searchParameters struct {
	CapacityRequired           int    `json:"capacityRequired"`
	FromPincode                string `json:"fromPincode"`
	ToPincode                  string `json:"toPincode"`
	StartTime                  string `json:"startTime"`
	EndTime                    string `json:"endTime"`
	EstimatedRideDurationHours int    `json:"estimatedRideDurationHours"`
}

type availabilityResponse struct {
	Vehicles                   []vehicleResponse `json:"vehicles"`
	EstimatedRideDurationHours int               `json:"estimatedRideDurationHours"`
	SearchParameters           searchParameters  `json:"searchParameters"`
}

func NewVehicleHandler(service vehicles.VehicleUseCase) *VehicleHandler {
	return &VehicleHandler{service: service}
}

func (h *VehicleHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.register)
	router.GET("/", h.list)
	router.GET("/available", h.available)
	router.DELETE("/:id", h.deactivate)
}

func (h *VehicleHandler) register(c *gin.Context) {
	var req registerVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.service.Register(c.Request.Context(), vehicles.RegisterVehicleInput{
		Name:       req.Name,
		CapacityKg: req.CapacityKg,
		Tyres:      req.Tyres,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toVehicleResponse(*vehicle))
}

func (h *VehicleHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]vehicleResponse, 0, len(list))
	for _, v := range list {
		resp = append(resp, toVehicleResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VehicleHandler) available(c *gin.Context) {
	capacityRequired, err := strconv.Atoi(c.Query("capacityRequired"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacityRequired must be an integer"})
		return
	}
	fromPincode := c.Query("fromPincode")
	toPincode := c.Query("toPincode")
	if !pincodeRe.MatchString(fromPincode) || !pincodeRe.MatchString(toPincode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pincodes must be exactly 6 digits"})
		return
	}
	startTime, err := time.Parse(time.RFC3339, c.Query("startTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startTime must be an RFC3339 timestamp"})
		return
	}

	result, err := h.service.FindAvailable(c.Request.Context(), vehicles.AvailabilityInput{
		CapacityRequired: capacityRequired,
		FromPincode:      fromPincode,
		ToPincode:        toPincode,
		StartTime:        startTime,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := availabilityResponse{
		Vehicles:                   make([]vehicleResponse, 0, len(result.Vehicles)),
		EstimatedRideDurationHours: result.DurationHours,
		SearchParameters: searchParameters{
			CapacityRequired:           capacityRequired,
			FromPincode:                fromPincode,
			ToPincode:                  toPincode,
			StartTime:                  result.Window.Start.Format(time.RFC3339),
			EndTime:                    result.Window.End.Format(time.RFC3339),
			EstimatedRideDurationHours: result.DurationHours,
		},
	}
	for _, v := range result.Vehicles {
		resp.Vehicles = append(resp.Vehicles, toVehicleResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VehicleHandler) deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toVehicleResponse(v domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:         v.ID,
		Name:       v.Name,
		CapacityKg: v.CapacityKg,
		Tyres:      v.Tyres,
		IsActive:   v.IsActive,
		CreatedAt:  v.CreatedAt.Format(time.RFC3339),
	}
}
