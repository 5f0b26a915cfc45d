package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/service"
)

func (h *Handler) listMaintenanceSchedules(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	schedules, err := h.maintenanceService.ListSchedules(c.Request.Context(), principal, c.Query("vehicleId"), queryInt(c, "limit", 0))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

func (h *Handler) createMaintenanceSchedule(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		VehicleID     string   `json:"vehicleId"`
		Title         string   `json:"title"`
		Priority      string   `json:"priority"`
		EveryDays     *int     `json:"everyDays"`
		EveryKm       *float64 `json:"everyKm"`
		NextDueDate   *string  `json:"nextDueDate"`
		NextDueOdomKm *float64 `json:"nextDueOdomKm"`
		Notes         *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}
	if req.VehicleID == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, errorResponse("vehicleId and title required"))
		return
	}

	schedule, err := h.maintenanceService.CreateSchedule(c.Request.Context(), principal, service.CreateScheduleInput{
		VehicleID:     req.VehicleID,
		Title:         req.Title,
		Priority:      req.Priority,
		EveryDays:     req.EveryDays,
		EveryKm:       req.EveryKm,
		NextDueDate:   req.NextDueDate,
		NextDueOdomKm: req.NextDueOdomKm,
		Notes:         req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

func (h *Handler) updateMaintenanceSchedule(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Title         *string  `json:"title"`
		Priority      *string  `json:"priority"`
		EveryDays     *int     `json:"everyDays"`
		EveryKm       *float64 `json:"everyKm"`
		NextDueDate   *string  `json:"nextDueDate"`
		NextDueOdomKm *float64 `json:"nextDueOdomKm"`
		Notes         *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}

	schedule, err := h.maintenanceService.UpdateSchedule(c.Request.Context(), principal, c.Param("id"), service.UpdateScheduleInput{
		Title:         req.Title,
		Priority:      req.Priority,
		EveryDays:     req.EveryDays,
		EveryKm:       req.EveryKm,
		NextDueDate:   req.NextDueDate,
		NextDueOdomKm: req.NextDueOdomKm,
		Notes:         req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "schedule": schedule})
}

func (h *Handler) listMaintenanceLogs(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	logs, err := h.maintenanceService.ListLogs(c.Request.Context(), principal, c.Query("vehicleId"), queryInt(c, "limit", 0))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *Handler) createMaintenanceLog(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		ScheduleID  string   `json:"scheduleId"`
		PerformedAt string   `json:"performedAt"`
		OdometerKm  *float64 `json:"odometerKm"`
		Cost        *float64 `json:"cost"`
		Notes       *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}
	if req.ScheduleID == "" || req.PerformedAt == "" {
		c.JSON(http.StatusBadRequest, errorResponse("scheduleId and performedAt required"))
		return
	}

	log, rolled, err := h.maintenanceService.CreateLog(c.Request.Context(), principal, service.CreateLogInput{
		ScheduleID:  req.ScheduleID,
		PerformedAt: req.PerformedAt,
		OdometerKm:  req.OdometerKm,
		Cost:        req.Cost,
		Notes:       req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"log": log, "scheduleRolled": rolled})
}
