package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/repository"
	"fleet-api/internal/service"
)

func (h *Handler) listPositions(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	views, err := h.positionService.List(c.Request.Context(), principal, repository.PositionListFilter{
		VehicleID: c.Query("vehicleId"),
		From:      queryTime(c, "from"),
		To:        queryTime(c, "to"),
		Limit:     queryInt(c, "limit", 0),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) recordMobilePosition(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		Lat       *float64 `json:"lat"`
		Lon       *float64 `json:"lon"`
		SpeedKph  *float64 `json:"speedKph"`
		Heading   *float64 `json:"heading"`
		AccuracyM *float64 `json:"accuracyM"`
		VehicleID string   `json:"vehicleId"`
		DriverID  *string  `json:"driverId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lon == nil {
		c.JSON(http.StatusBadRequest, errorResponse("lat_lon_required"))
		return
	}

	pos, err := h.positionService.RecordMobile(c.Request.Context(), principal, service.MobilePositionInput{
		Lat:       req.Lat,
		Lon:       req.Lon,
		SpeedKph:  req.SpeedKph,
		Heading:   req.Heading,
		AccuracyM: req.AccuracyM,
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": pos.ID})
}

func (h *Handler) sendTestPosition(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req struct {
		VehicleID string `json:"vehicleId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.VehicleID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("vehicleId required"))
		return
	}

	pos, err := h.positionService.SendTestPosition(c.Request.Context(), principal, req.VehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "doc": pos.View()})
}
