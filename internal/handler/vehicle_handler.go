package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/service"
	"github.com/fieldmile/fieldmile-backend-go/pkg/response"
)

// VehicleHandler handles HTTP requests for vehicle periods
type VehicleHandler struct {
	service *service.VehicleService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(service *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// CreatePeriod handles POST /api/v1/vehicle-periods
func (h *VehicleHandler) CreatePeriod(c *gin.Context) {
	var period models.VehiclePeriod
	if err := c.ShouldBindJSON(&period); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := h.service.CreatePeriod(period)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to create vehicle period", err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// GetPeriods handles GET /api/v1/vehicle-periods
func (h *VehicleHandler) GetPeriods(c *gin.Context) {
	var filter models.VehiclePeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	periods, err := h.service.GetPeriods(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get vehicle periods", err)
		return
	}
	response.Success(c, periods)
}
