package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldmile/fieldmile-backend-go/internal/service"
	"github.com/fieldmile/fieldmile-backend-go/pkg/response"
)

// CarpoolHandler handles HTTP requests for carpool detection
type CarpoolHandler struct {
	service *service.CarpoolService
}

// NewCarpoolHandler creates a new carpool handler
func NewCarpoolHandler(service *service.CarpoolService) *CarpoolHandler {
	return &CarpoolHandler{service: service}
}

// RecomputeDate handles POST /api/v1/carpool/dates/:date/recompute
func (h *CarpoolHandler) RecomputeDate(c *gin.Context) {
	summary, err := h.service.RecomputeDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to recompute carpool groups", err)
		return
	}
	response.Success(c, summary)
}

// GetGroups handles GET /api/v1/carpool/dates/:date/groups
func (h *CarpoolHandler) GetGroups(c *gin.Context) {
	groups, err := h.service.GetGroups(c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get carpool groups", err)
		return
	}
	response.Success(c, groups)
}
