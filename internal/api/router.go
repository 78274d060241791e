package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldmile/fieldmile-backend-go/internal/config"
	"github.com/fieldmile/fieldmile-backend-go/internal/database"
	"github.com/fieldmile/fieldmile-backend-go/internal/handler"
	"github.com/fieldmile/fieldmile-backend-go/internal/middleware"
	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
	"github.com/fieldmile/fieldmile-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers onto a gin engine.
func SetupRouter(cfg *config.Config) *gin.Engine {
	db := database.GetDB()

	pointRepo := repository.NewPointRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)
	tripRepo := repository.NewTripRepository(db)
	carpoolRepo := repository.NewCarpoolRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	segmentationSvc := service.NewSegmentationService(pointRepo, segmentRepo)
	carpoolSvc := service.NewCarpoolService(tripRepo, carpoolRepo, vehicleRepo)
	ingestSvc := service.NewIngestService(pointRepo)
	tripSvc := service.NewTripService(tripRepo, segmentRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	reimbursementSvc := service.NewReimbursementService(tripRepo, carpoolRepo, vehicleRepo)

	segmentationHandler := handler.NewSegmentationHandler(segmentationSvc, carpoolSvc, ingestSvc, tripSvc)
	tripHandler := handler.NewTripHandler(tripSvc)
	carpoolHandler := handler.NewCarpoolHandler(carpoolSvc)
	vehicleHandler := handler.NewVehicleHandler(vehicleSvc)
	reportHandler := handler.NewReportHandler(reimbursementSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Fieldmile backend is running",
		})
	})

	api := r.Group("/api/v1")
	{
		// Recompute triggers are admin-only.
		admin := api.Group("", middleware.RequireAuth(cfg))
		{
			admin.POST("/segmentation/shifts/:id/recompute", segmentationHandler.RecomputeShift)
			admin.POST("/carpool/dates/:date/recompute", carpoolHandler.RecomputeDate)
			admin.POST("/recompute/dates/:date", segmentationHandler.RecomputeDate)
		}

		api.POST("/shifts/:id/points", segmentationHandler.IngestPoints)
		api.GET("/shifts/:id/clusters", segmentationHandler.GetShiftClusters)
		api.GET("/shifts/:id/trips", segmentationHandler.GetShiftTrips)

		api.GET("/trips", tripHandler.GetTrips)

		api.GET("/carpool/dates/:date/groups", carpoolHandler.GetGroups)

		api.GET("/reports/reimbursement", reportHandler.GetReimbursementReport)

		api.POST("/vehicle-periods", vehicleHandler.CreatePeriod)
		api.GET("/vehicle-periods", vehicleHandler.GetPeriods)
	}

	return r
}
