package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/service"
	"github.com/fieldmile/fieldmile-backend-go/pkg/response"
)

// SegmentationHandler handles HTTP triggers and reads for segmentation
type SegmentationHandler struct {
	segmentation *service.SegmentationService
	carpool      *service.CarpoolService
	ingest       *service.IngestService
	trips        *service.TripService
}

// NewSegmentationHandler creates a new segmentation handler
func NewSegmentationHandler(segmentation *service.SegmentationService, carpool *service.CarpoolService, ingest *service.IngestService, trips *service.TripService) *SegmentationHandler {
	return &SegmentationHandler{segmentation: segmentation, carpool: carpool, ingest: ingest, trips: trips}
}

func shiftID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid shift ID", err)
		return 0, false
	}
	return id, true
}

// RecomputeShift handles POST /api/v1/segmentation/shifts/:id/recompute
func (h *SegmentationHandler) RecomputeShift(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	summary, err := h.segmentation.RecomputeShift(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to recompute segmentation", err)
		return
	}
	response.Success(c, summary)
}

// RecomputeDate handles POST /api/v1/recompute/dates/:date — the full
// pipeline: segmentation for every shift on the date, then carpool
// detection over the resulting driving trips.
func (h *SegmentationHandler) RecomputeDate(c *gin.Context) {
	date := c.Param("date")

	shifts, err := h.segmentation.RecomputeDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to recompute segmentation", err)
		return
	}

	carpoolSummary, err := h.carpool.RecomputeDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to recompute carpool groups", err)
		return
	}

	response.Success(c, gin.H{
		"shifts":  shifts,
		"carpool": carpoolSummary,
	})
}

// ingestRequest is the POST body for bulk point ingestion.
type ingestRequest struct {
	EmployeeID int64                  `json:"employee_id" binding:"required"`
	Date       string                 `json:"date" binding:"required"`
	Points     []models.GpsPointInput `json:"points" binding:"required"`
}

// IngestPoints handles POST /api/v1/shifts/:id/points
func (h *SegmentationHandler) IngestPoints(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift := models.Shift{ID: id, EmployeeID: req.EmployeeID, Date: req.Date}
	stored, err := h.ingest.IngestShiftPoints(shift, req.Points)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to ingest points", err)
		return
	}
	response.Success(c, gin.H{"stored": stored})
}

// GetShiftClusters handles GET /api/v1/shifts/:id/clusters
func (h *SegmentationHandler) GetShiftClusters(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}
	clusters, err := h.trips.GetClustersByShift(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get clusters", err)
		return
	}
	response.Success(c, clusters)
}

// GetShiftTrips handles GET /api/v1/shifts/:id/trips
func (h *SegmentationHandler) GetShiftTrips(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}
	trips, err := h.trips.GetTripsByShift(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get trips", err)
		return
	}
	response.Success(c, trips)
}
