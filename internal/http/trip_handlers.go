package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

func tripFilterFromQuery(c *gin.Context) repository.TripListFilter {
	return repository.TripListFilter{
		VehicleID: c.Query("vehicleId"),
		From:      queryTime(c, "from"),
		To:        queryTime(c, "to"),
		SortDesc:  c.DefaultQuery("sort", "desc") != "asc",
	}
}

func (h *Handler) listTrips(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	page, limit := model.ClampPage(queryInt(c, "page", 1), queryInt(c, "limit", 20), 20, 1000)
	filter := tripFilterFromQuery(c)
	filter.Page = page
	filter.Limit = limit

	trips, total, err := h.tripService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips":      trips,
		"pagination": model.NewPagination(page, limit, total),
	})
}

func (h *Handler) getTrip(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	trip, err := h.tripService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

func (h *Handler) tripSummary(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	summary, err := h.tripService.Summary(c.Request.Context(), principal, tripFilterFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips":       summary.Trips,
		"distanceKm":  math.Round(summary.TotalKm*100) / 100,
		"durationMin": math.Round(summary.TotalMin),
		"idleMinutes": math.Round(summary.TotalIdleMin),
		"avgSpeedKph": math.Round(summary.AvgSpeed*10) / 10,
		"maxSpeedKph": math.Round(summary.MaxSpeed*10) / 10,
	})
}

func tripCSVRows(trips []model.Trip, full bool) (header []string, rows [][]string) {
	header = []string{
		"id", "vehicleId", "startTs", "endTs", "durationMin",
		"distanceKm", "avgSpeedKph", "maxSpeedKph", "idleMinutes", "stopCount",
	}
	if full {
		header = append(header,
			"startLat", "startLon", "endLat", "endLon", "startAddress", "endAddress")
	}
	header = append(header, "fuelUsedL", "co2Kg")
	if full {
		header = append(header, "harshAccel", "harshBrake", "overSpeedEvents")
	}

	rows = make([][]string, 0, len(trips))
	for _, t := range trips {
		row := []string{
			t.ID.String(),
			t.VehicleID,
			csvTime(&t.StartTs),
			csvTime(t.EndTs),
			csvFloat(t.DurationMin),
			strconv.FormatFloat(t.DistanceKm, 'f', -1, 64),
			csvFloat(t.AvgSpeedKph),
			csvFloat(t.MaxSpeedKph),
			strconv.FormatFloat(t.IdleMinutes, 'f', -1, 64),
			strconv.Itoa(t.StopCount),
		}
		if full {
			row = append(row,
				csvFloat(t.StartLat), csvFloat(t.StartLon),
				csvFloat(t.EndLat), csvFloat(t.EndLon),
				csvString(t.StartAddress), csvString(t.EndAddress))
		}
		row = append(row, csvFloat(t.FuelUsedL), csvFloat(t.CO2Kg))
		if full {
			row = append(row,
				strconv.Itoa(t.HarshAccel),
				strconv.Itoa(t.HarshBrake),
				strconv.Itoa(t.OverSpeedEvents))
		}
		rows = append(rows, row)
	}
	return header, rows
}

func (h *Handler) exportTripsCSV(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	filter := tripFilterFromQuery(c)
	filter.Limit = queryInt(c, "limit", 0)
	trips, err := h.tripService.Export(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	header, rows := tripCSVRows(trips, true)
	writeCSV(c, "trips.csv", header, rows)
}

// exportTripsReportCSV mirrors the trips export under /reports with the
// shorter column set the reports page expects.
func (h *Handler) exportTripsReportCSV(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	filter := tripFilterFromQuery(c)
	filter.Limit = queryInt(c, "limit", 0)
	trips, err := h.tripService.Export(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	header, rows := tripCSVRows(trips, false)
	writeCSV(c, "trips-report.csv", header, rows)
}
