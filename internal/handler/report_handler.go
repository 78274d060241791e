package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldmile/fieldmile-backend-go/internal/service"
	"github.com/fieldmile/fieldmile-backend-go/pkg/response"
)

// ReportHandler handles reimbursement reporting
type ReportHandler struct {
	service *service.ReimbursementService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *service.ReimbursementService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetReimbursementReport handles GET /api/v1/reports/reimbursement?date=
func (h *ReportHandler) GetReimbursementReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "Missing date parameter", nil)
		return
	}

	report, err := h.service.TripReport(date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to build reimbursement report", err)
		return
	}
	response.Success(c, report)
}
