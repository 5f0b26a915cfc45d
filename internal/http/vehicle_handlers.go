package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
	"fleet-api/internal/service"
)

func (h *Handler) listVehicles(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	page, limit := model.ClampPage(queryInt(c, "page", 1), queryInt(c, "limit", 20), 20, 100)
	filter := repository.VehicleListFilter{
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", "createdAt"),
		SortDesc: c.DefaultQuery("sortOrder", "desc") != "asc",
		Page:     page,
		Limit:    limit,
	}
	if status := c.Query("status"); status != "" {
		s := model.VehicleStatus(status)
		filter.Status = &s
	}

	vehicles, total, err := h.vehicleService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles":   vehicles,
		"pagination": model.NewPagination(page, limit, total),
	})
}

func (h *Handler) createVehicle(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Name         string   `json:"name" binding:"required"`
		Plate        string   `json:"plate" binding:"required"`
		Status       string   `json:"status"`
		Make         *string  `json:"make"`
		VehicleModel *string  `json:"vehicleModel"`
		Year         *int     `json:"year"`
		VIN          *string  `json:"vin"`
		DeviceID     *string  `json:"deviceId"`
		OdometerKm   *float64 `json:"odometerKm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("name and plate required"))
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), principal, service.CreateVehicleInput{
		Name:         req.Name,
		Plate:        req.Plate,
		Status:       req.Status,
		Make:         req.Make,
		VehicleModel: req.VehicleModel,
		Year:         req.Year,
		VIN:          req.VIN,
		DeviceID:     req.DeviceID,
		OdometerKm:   req.OdometerKm,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (h *Handler) getVehicle(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func (h *Handler) updateVehicle(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Name         *string  `json:"name"`
		Plate        *string  `json:"plate"`
		Status       *string  `json:"status"`
		Make         *string  `json:"make"`
		VehicleModel *string  `json:"vehicleModel"`
		Year         *int     `json:"year"`
		VIN          *string  `json:"vin"`
		DeviceID     *string  `json:"deviceId"`
		OdometerKm   *float64 `json:"odometerKm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid body"))
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), principal, c.Param("id"), service.UpdateVehicleInput{
		Name:         req.Name,
		Plate:        req.Plate,
		Status:       req.Status,
		Make:         req.Make,
		VehicleModel: req.VehicleModel,
		Year:         req.Year,
		VIN:          req.VIN,
		DeviceID:     req.DeviceID,
		OdometerKm:   req.OdometerKm,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "vehicle": vehicle})
}

func (h *Handler) exportVehiclesCSV(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	vehicles, err := h.vehicleService.ListAll(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	header := []string{"name", "plate", "status", "make", "vehicleModel", "year", "vin", "deviceId", "odometerKm", "createdAt", "updatedAt"}
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []string{
			v.Name,
			v.Plate,
			string(v.Status),
			csvString(v.Make),
			csvString(v.VehicleModel),
			csvInt(v.Year),
			csvString(v.VIN),
			csvString(v.DeviceID),
			strconv.FormatFloat(v.OdometerKm, 'f', -1, 64),
			v.CreatedAt.UTC().Format(time.RFC3339),
			v.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeCSV(c, "vehicles.csv", header, rows)
}
