package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"fleet-api/internal/config"
	"fleet-api/internal/http/middleware"
	"fleet-api/internal/model"
	"fleet-api/internal/service"
	"fleet-api/internal/storage"
)

type Handler struct {
	authService        *service.AuthService
	vehicleService     *service.VehicleService
	driverService      *service.DriverService
	jobService         *service.JobService
	tripService        *service.TripService
	maintenanceService *service.MaintenanceService
	documentService    *service.DocumentService
	positionService    *service.PositionService
	ingestService      *service.IngestService
	dashboardService   *service.DashboardService
	blobs              *storage.CloudinaryStore
	database           *gorm.DB
	cfg                *config.Config
	startedAt          time.Time
	log                zerolog.Logger
}

func NewHandler(
	authService *service.AuthService,
	vehicleService *service.VehicleService,
	driverService *service.DriverService,
	jobService *service.JobService,
	tripService *service.TripService,
	maintenanceService *service.MaintenanceService,
	documentService *service.DocumentService,
	positionService *service.PositionService,
	ingestService *service.IngestService,
	dashboardService *service.DashboardService,
	blobs *storage.CloudinaryStore,
	database *gorm.DB,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authService:        authService,
		vehicleService:     vehicleService,
		driverService:      driverService,
		jobService:         jobService,
		tripService:        tripService,
		maintenanceService: maintenanceService,
		documentService:    documentService,
		positionService:    positionService,
		ingestService:      ingestService,
		dashboardService:   dashboardService,
		blobs:              blobs,
		database:           database,
		cfg:                cfg,
		startedAt:          time.Now(),
		log:                log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware, ingestLimiter gin.HandlerFunc) {
	api := r.Group("/api")

	api.GET("/health", h.health)
	api.GET("/health/data", h.healthData)
	api.GET("/ready", h.ready)

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/auth/me", authMiddleware, h.me)

	api.POST("/ingest/:provider", ingestLimiter, h.ingestWebhook)
	api.POST("/test/send-position", authMiddleware, h.sendTestPosition)
	api.POST("/cloudinary/sign", authMiddleware, h.signUpload)

	orgs := api.Group("/orgs/:orgId", authMiddleware, middleware.RequireOrg())
	{
		orgs.GET("/vehicles", h.listVehicles)
		orgs.POST("/vehicles", h.createVehicle)
		orgs.GET("/vehicles/export/csv", h.exportVehiclesCSV)
		orgs.GET("/vehicles/:id", h.getVehicle)
		orgs.PATCH("/vehicles/:id", h.updateVehicle)

		orgs.GET("/drivers", h.listDrivers)
		orgs.POST("/drivers", h.createDriver)
		orgs.GET("/drivers/:id", h.getDriver)
		orgs.PATCH("/drivers/:id", h.updateDriver)
		orgs.DELETE("/drivers/:id", h.deleteDriver)

		orgs.GET("/jobs", h.listJobs)
		orgs.POST("/jobs", h.createJob)
		orgs.GET("/jobs/stats", h.jobStats)
		orgs.GET("/jobs/:id", h.getJob)
		orgs.PATCH("/jobs/:id", h.updateJob)
		orgs.PATCH("/jobs/:id/status", h.updateJobStatus)
		orgs.DELETE("/jobs/:id", h.deleteJob)

		orgs.GET("/trips", h.listTrips)
		orgs.GET("/trips/summary", h.tripSummary)
		orgs.GET("/trips/export/csv", h.exportTripsCSV)
		orgs.GET("/trips/:id", h.getTrip)

		orgs.GET("/maintenance/schedules", h.listMaintenanceSchedules)
		orgs.POST("/maintenance/schedules", h.createMaintenanceSchedule)
		orgs.PATCH("/maintenance/schedules/:id", h.updateMaintenanceSchedule)
		orgs.GET("/maintenance/logs", h.listMaintenanceLogs)
		orgs.POST("/maintenance/logs", h.createMaintenanceLog)

		orgs.GET("/documents", h.listDocuments)
		orgs.POST("/documents", h.createDocument)
		orgs.DELETE("/documents/:id", h.deleteDocument)

		orgs.GET("/positions", h.listPositions)
		orgs.POST("/positions/mobile", h.recordMobilePosition)

		orgs.GET("/dashboard", h.dashboard)
		orgs.GET("/reports/summary", h.reportSummary)
		orgs.GET("/reports/trips/csv", h.exportTripsReportCSV)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse("invalid_credentials"))
	case errors.Is(err, service.ErrUserDisabled):
		c.JSON(http.StatusForbidden, errorResponse("user_disabled"))
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

func (h *Handler) principal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
	}
	return principal, ok
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
