package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
	"fleet-api/internal/service"
)

func (h *Handler) listDrivers(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	page, limit := model.ClampPage(queryInt(c, "page", 1), queryInt(c, "limit", 20), 20, 100)
	filter := repository.DriverListFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
	if status := c.Query("status"); status != "" {
		s := model.DriverStatus(status)
		filter.Status = &s
	}

	drivers, total, err := h.driverService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drivers":    drivers,
		"pagination": model.NewPagination(page, limit, total),
	})
}

func (h *Handler) createDriver(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Name             string                  `json:"name" binding:"required"`
		Email            string                  `json:"email"`
		Phone            string                  `json:"phone"`
		LicenceNumber    string                  `json:"licenceNumber"`
		Status           string                  `json:"status"`
		EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("name required"))
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), principal, service.CreateDriverInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		LicenceNumber:    req.LicenceNumber,
		Status:           req.Status,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Driver created",
		"driver":  driver,
	})
}

func (h *Handler) getDriver(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

func (h *Handler) updateDriver(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Name             *string                 `json:"name"`
		Email            *string                 `json:"email"`
		Phone            *string                 `json:"phone"`
		LicenceNumber    *string                 `json:"licenceNumber"`
		Status           *string                 `json:"status"`
		EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}

	driver, err := h.driverService.Update(c.Request.Context(), principal, c.Param("id"), service.UpdateDriverInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		LicenceNumber:    req.LicenceNumber,
		Status:           req.Status,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "driver": driver})
}

func (h *Handler) deleteDriver(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": 1})
}
