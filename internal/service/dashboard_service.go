package service

import (
	"context"
	"math"
	"time"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

type DashboardService struct {
	vehicleRepo  *repository.VehicleRepository
	jobRepo      *repository.JobRepository
	tripRepo     *repository.TripRepository
	positionRepo *repository.PositionRepository
}

func NewDashboardService(
	vehicleRepo *repository.VehicleRepository,
	jobRepo *repository.JobRepository,
	tripRepo *repository.TripRepository,
	positionRepo *repository.PositionRepository,
) *DashboardService {
	return &DashboardService{
		vehicleRepo:  vehicleRepo,
		jobRepo:      jobRepo,
		tripRepo:     tripRepo,
		positionRepo: positionRepo,
	}
}

const (
	speedingThresholdKph = 80
	speedingWindow       = 3 * time.Hour
	telemetryWindow      = time.Hour
	fuelWindow           = 7 * 24 * time.Hour
)

type VehicleCounts struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Maintenance int64 `json:"maintenance"`
	Retired     int64 `json:"retired"`
}

type RecentJob struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Status            string     `json:"status"`
	Eta               *string    `json:"eta"`
	AssignedVehicleID *string    `json:"assignedVehicleId"`
	AssignedDriverID  *string    `json:"assignedDriverId"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type JobCounts struct {
	Today    int64            `json:"today"`
	ByStatus map[string]int64 `json:"byStatus"`
	Recent   []RecentJob      `json:"recent"`
	Totals   struct {
		Completed int64 `json:"completed"`
	} `json:"totals"`
}

type Telemetry struct {
	LastSeenCount int64      `json:"lastSeenCount"`
	LastIngestAt  *time.Time `json:"lastIngestAt"`
}

type Alert struct {
	Type        string      `json:"type"`
	Severity    string      `json:"severity"`
	VehicleID   string      `json:"vehicleId,omitempty"`
	SpeedKph    *float64    `json:"speedKph,omitempty"`
	VehicleName string      `json:"vehicleName,omitempty"`
	Plate       string      `json:"plate,omitempty"`
	Ts          interface{} `json:"ts"`
}

type Alerts struct {
	Critical int     `json:"critical"`
	Recent   []Alert `json:"recent"`
}

type KPIs struct {
	FuelEfficiency      *float64 `json:"fuelEfficiency"`
	OnTimeDeliveryPct   *int     `json:"onTimeDeliveryPct"`
	ActiveDrivers       int64    `json:"activeDrivers"`
	FleetUtilizationPct *int     `json:"fleetUtilizationPct"`
}

type Dashboard struct {
	Vehicles  VehicleCounts `json:"vehicles"`
	Jobs      JobCounts     `json:"jobs"`
	Telemetry Telemetry     `json:"telemetry"`
	Alerts    Alerts        `json:"alerts"`
	KPIs      KPIs          `json:"kpis"`
}

func (s *DashboardService) Dashboard(ctx context.Context, principal model.Principal) (*Dashboard, error) {
	orgID := principal.OrgID.String()
	now := time.Now().UTC()
	out := &Dashboard{}

	vehicleCounts, err := s.vehicleRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for _, row := range vehicleCounts {
		out.Vehicles.Total += row.Count
		switch model.VehicleStatus(row.Status) {
		case model.VehicleStatusActive:
			out.Vehicles.Active = row.Count
		case model.VehicleStatusMaintenance:
			out.Vehicles.Maintenance = row.Count
		case model.VehicleStatusRetired:
			out.Vehicles.Retired = row.Count
		}
	}

	jobCounts, err := s.jobRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out.Jobs.ByStatus = make(map[string]int64, len(jobCounts))
	for _, row := range jobCounts {
		out.Jobs.ByStatus[row.Status] = row.Count
		if model.JobStatus(row.Status) == model.JobStatusCompleted {
			out.Jobs.Totals.Completed = row.Count
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	out.Jobs.Today, err = s.jobRepo.CountCreatedBetween(ctx, orgID, today, tomorrow)
	if err != nil {
		return nil, err
	}
	todayJobs, err := s.jobRepo.ListCreatedBetween(ctx, orgID, today, tomorrow, 6)
	if err != nil {
		return nil, err
	}
	out.Jobs.Recent = make([]RecentJob, 0, len(todayJobs))
	for _, job := range todayJobs {
		out.Jobs.Recent = append(out.Jobs.Recent, RecentJob{
			ID:                job.ID.String(),
			Title:             job.Title,
			Status:            string(job.Status),
			Eta:               job.Eta,
			AssignedVehicleID: job.AssignedVehicleID,
			AssignedDriverID:  job.AssignedDriverID,
			CreatedAt:         job.CreatedAt,
		})
	}

	out.KPIs.OnTimeDeliveryPct, err = s.onTimeDeliveryPct(ctx, orgID)
	if err != nil {
		return nil, err
	}

	lastHour := now.Add(-telemetryWindow)
	out.Telemetry.LastSeenCount, err = s.positionRepo.CountSince(ctx, orgID, lastHour)
	if err != nil {
		return nil, err
	}
	out.Telemetry.LastIngestAt, err = s.positionRepo.LatestTs(ctx, orgID)
	if err != nil {
		return nil, err
	}

	speeding, err := s.positionRepo.SpeedingSince(ctx, orgID, now.Add(-speedingWindow), speedingThresholdKph, 3)
	if err != nil {
		return nil, err
	}
	maintDue, err := s.vehicleRepo.ListByStatus(ctx, orgID, model.VehicleStatusMaintenance, 3)
	if err != nil {
		return nil, err
	}
	out.Alerts.Critical = len(speeding)
	out.Alerts.Recent = make([]Alert, 0, len(speeding)+len(maintDue))
	for _, p := range speeding {
		out.Alerts.Recent = append(out.Alerts.Recent, Alert{
			Type:      "speeding",
			Severity:  "high",
			VehicleID: p.VehicleID,
			SpeedKph:  p.SpeedKph,
			Ts:        p.Ts,
		})
	}
	for _, v := range maintDue {
		out.Alerts.Recent = append(out.Alerts.Recent, Alert{
			Type:        "maintenance_due",
			Severity:    "medium",
			VehicleName: v.Name,
			Plate:       v.Plate,
			Ts:          v.UpdatedAt,
		})
	}

	out.KPIs.ActiveDrivers, err = s.positionRepo.DistinctVehiclesSince(ctx, orgID, lastHour)
	if err != nil {
		return nil, err
	}
	if out.Vehicles.Total > 0 {
		pct := int(math.Round(float64(out.Vehicles.Active) / float64(out.Vehicles.Total) * 100))
		out.KPIs.FleetUtilizationPct = &pct
	}

	dist, fuel, err := s.tripRepo.SumDistanceFuelSince(ctx, orgID, now.Add(-fuelWindow))
	if err != nil {
		return nil, err
	}
	if fuel > 0 {
		if dist == 0 {
			dist = 1
		}
		eff := math.Round(fuel/dist*100*10) / 10
		out.KPIs.FuelEfficiency = &eff
	}

	return out, nil
}

// onTimeDeliveryPct compares completion time against the promised eta. Etas
// that do not parse as RFC3339 are left out of the percentage entirely.
func (s *DashboardService) onTimeDeliveryPct(ctx context.Context, orgID string) (*int, error) {
	jobs, err := s.jobRepo.ListCompletedWithEta(ctx, orgID)
	if err != nil {
		return nil, err
	}
	var withEta, onTime int
	for _, job := range jobs {
		if job.Eta == nil || job.CompletedAt == nil {
			continue
		}
		eta, err := time.Parse(time.RFC3339, *job.Eta)
		if err != nil {
			continue
		}
		withEta++
		if !job.CompletedAt.After(eta) {
			onTime++
		}
	}
	if withEta == 0 {
		return nil, nil
	}
	pct := int(math.Round(float64(onTime) / float64(withEta) * 100))
	return &pct, nil
}

type TripsRollup struct {
	Trips       int64   `json:"trips"`
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin float64 `json:"durationMin"`
}

type ReportSummary struct {
	VehiclesByStatus map[string]int64 `json:"vehiclesByStatus"`
	JobsByStatus     map[string]int64 `json:"jobsByStatus"`
	TripsSummary     TripsRollup      `json:"tripsSummary"`
}

func (s *DashboardService) ReportSummary(ctx context.Context, principal model.Principal) (*ReportSummary, error) {
	orgID := principal.OrgID.String()

	vehicleCounts, err := s.vehicleRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	jobCounts, err := s.jobRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	summary, err := s.tripRepo.Summary(ctx, orgID, repository.TripListFilter{})
	if err != nil {
		return nil, err
	}

	out := &ReportSummary{
		VehiclesByStatus: make(map[string]int64, len(vehicleCounts)),
		JobsByStatus:     make(map[string]int64, len(jobCounts)),
		TripsSummary: TripsRollup{
			Trips:       summary.Trips,
			DistanceKm:  math.Round(summary.TotalKm*100) / 100,
			DurationMin: math.Round(summary.TotalMin),
		},
	}
	for _, row := range vehicleCounts {
		out.VehiclesByStatus[row.Status] = row.Count
	}
	for _, row := range jobCounts {
		out.JobsByStatus[row.Status] = row.Count
	}
	return out, nil
}
