package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
	"fleet-api/internal/service"
)

func (h *Handler) listJobs(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	page, limit := model.ClampPage(queryInt(c, "page", 1), queryInt(c, "limit", 20), 20, 100)
	filter := repository.JobListFilter{
		Search:            c.Query("search"),
		AssignedVehicleID: c.Query("assignedVehicleId"),
		SortBy:            c.DefaultQuery("sortBy", "createdAt"),
		SortDesc:          c.DefaultQuery("sortOrder", "desc") != "asc",
		Page:              page,
		Limit:             limit,
	}
	if status := c.Query("status"); status != "" {
		s := model.JobStatus(status)
		filter.Status = &s
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"pagination": model.NewPagination(page, limit, total),
	})
}

type jobRequest struct {
	Title             *string        `json:"title"`
	Pickup            datatypes.JSON `json:"pickup"`
	Dropoff           datatypes.JSON `json:"dropoff"`
	AssignedVehicleID *string        `json:"assignedVehicleId"`
	AssignedDriverID  *string        `json:"assignedDriverId"`
	Status            *string        `json:"status"`
	Eta               *string        `json:"eta"`
	Notes             *string        `json:"notes"`
	Description       *string        `json:"description"`
	Priority          *string        `json:"priority"`
	ScheduledAt       *time.Time     `json:"scheduledAt"`
}

func (h *Handler) createJob(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}

	input := service.CreateJobInput{
		Title:             "Untitled Job",
		Pickup:            req.Pickup,
		Dropoff:           req.Dropoff,
		AssignedVehicleID: req.AssignedVehicleID,
		AssignedDriverID:  req.AssignedDriverID,
		Eta:               req.Eta,
		Notes:             req.Notes,
		Description:       req.Description,
		ScheduledAt:       req.ScheduledAt,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}

	job, err := h.jobService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *Handler) getJob(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *Handler) updateJob(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), principal, c.Param("id"), service.UpdateJobInput{
		Title:             req.Title,
		Pickup:            req.Pickup,
		Dropoff:           req.Dropoff,
		AssignedVehicleID: req.AssignedVehicleID,
		AssignedDriverID:  req.AssignedDriverID,
		Status:            req.Status,
		Eta:               req.Eta,
		Notes:             req.Notes,
		Description:       req.Description,
		Priority:          req.Priority,
		ScheduledAt:       req.ScheduledAt,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "job": job})
}

func (h *Handler) updateJobStatus(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, errorResponse("status_required"))
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), principal, c.Param("id"), service.UpdateJobInput{
		Status: &req.Status,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "job": job})
}

func (h *Handler) deleteJob(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	job, err := h.jobService.Delete(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "status": job.Status})
}

func (h *Handler) jobStats(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	stats, err := h.jobService.Stats(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
