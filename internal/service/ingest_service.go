package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"fleet-api/internal/model"
)

// PositionPublisher is the realtime fan-out seam; the websocket hub serves a
// single instance and the broker bridge serves a cluster.
type PositionPublisher interface {
	Publish(view model.PositionView)
}

type ledgerStore interface {
	Insert(ctx context.Context, entry *model.IngestLedger) error
}

type positionStore interface {
	InsertBatch(ctx context.Context, fixes []model.Position) error
}

type vehicleTracker interface {
	TouchLastSeen(ctx context.Context, orgID, vehicleID string, ts time.Time) error
}

type IngestService struct {
	ledgerRepo   ledgerStore
	positionRepo positionStore
	vehicleRepo  vehicleTracker
	publisher    PositionPublisher
	log          zerolog.Logger
}

func NewIngestService(
	ledgerRepo ledgerStore,
	positionRepo positionStore,
	vehicleRepo vehicleTracker,
	publisher PositionPublisher,
	log zerolog.Logger,
) *IngestService {
	return &IngestService{
		ledgerRepo:   ledgerRepo,
		positionRepo: positionRepo,
		vehicleRepo:  vehicleRepo,
		publisher:    publisher,
		log:          log,
	}
}

// flexString tolerates providers that send ids as JSON numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

// ingestEvent is the loosely-typed shape telemetry providers post. Several
// fields have aliases because providers disagree on naming.
type ingestEvent struct {
	EventID   string           `json:"eventId"`
	ID        string           `json:"id"`
	OrgID     string           `json:"orgId"`
	VehicleID flexString       `json:"vehicleId"`
	Ts        string           `json:"ts"`
	Timestamp string           `json:"timestamp"`
	Lat       *float64         `json:"lat"`
	Latitude  *float64         `json:"latitude"`
	Lon       *float64         `json:"lon"`
	Longitude *float64         `json:"longitude"`
	SpeedKph  *float64         `json:"speedKph"`
	Speed     *float64         `json:"speed"`
	Heading   *float64         `json:"heading"`
	AccuracyM *float64         `json:"accuracyM"`
	Accuracy  *float64         `json:"accuracy"`
	Ignition  *bool            `json:"ignition"`
	Metadata  *ingestEventMeta `json:"metadata"`
}

type ingestEventMeta struct {
	OrgID     string     `json:"orgId"`
	VehicleID flexString `json:"vehicleId"`
}

func (e *ingestEvent) orgID() string {
	if e.OrgID != "" {
		return e.OrgID
	}
	if e.Metadata != nil {
		return e.Metadata.OrgID
	}
	return ""
}

func (e *ingestEvent) vehicleID() string {
	if e.VehicleID.String() != "" {
		return e.VehicleID.String()
	}
	if e.Metadata != nil {
		return e.Metadata.VehicleID.String()
	}
	return ""
}

func (e *ingestEvent) idempotencyKey(now time.Time) string {
	if e.EventID != "" {
		return e.EventID
	}
	if e.ID != "" {
		return e.ID
	}
	ts := e.Timestamp
	if ts == "" {
		ts = strconv.FormatInt(now.UnixMilli(), 10)
	}
	return ts + "-" + e.vehicleID()
}

func (e *ingestEvent) coordinates() (lat, lon float64, ok bool) {
	latPtr := e.Lat
	if latPtr == nil {
		latPtr = e.Latitude
	}
	lonPtr := e.Lon
	if lonPtr == nil {
		lonPtr = e.Longitude
	}
	if latPtr == nil || lonPtr == nil {
		return 0, 0, false
	}
	lat, lon = *latPtr, *lonPtr
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, 0, false
	}
	return lat, lon, true
}

func (e *ingestEvent) eventTime(now time.Time) time.Time {
	for _, raw := range []string{e.Ts, e.Timestamp} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC()
		}
	}
	return now
}

// parseEnvelope accepts a single event object, a bare array of events, or a
// wrapper object with an events array.
func parseEnvelope(body []byte) ([]ingestEvent, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	if trimmed[0] == '[' {
		var events []ingestEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var wrapper struct {
		Events []ingestEvent `json:"events"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Events != nil {
		return wrapper.Events, nil
	}
	var single ingestEvent
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []ingestEvent{single}, nil
}

// Process applies one webhook batch. Events missing ids or coordinates are
// dropped silently; already-seen events are skipped through the ledger. If
// nothing survives the batch is rejected so the provider can alert.
func (s *IngestService) Process(ctx context.Context, provider string, body []byte) error {
	events, err := parseEnvelope(body)
	if err != nil {
		return ErrInvalidInput
	}
	if len(events) == 0 {
		return ErrInvalidInput
	}

	now := time.Now().UTC()
	var accepted []model.Position

	for i := range events {
		e := &events[i]
		orgID := e.orgID()
		vehicleID := e.vehicleID()
		if orgID == "" || vehicleID == "" {
			continue
		}

		entry := &model.IngestLedger{
			Provider: provider,
			EventID:  e.idempotencyKey(now),
			OrgID:    orgID,
			Ts:       now.Format(time.RFC3339),
		}
		if err := s.ledgerRepo.Insert(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}

		lat, lon, ok := e.coordinates()
		if !ok {
			continue
		}

		speed := e.SpeedKph
		if speed == nil {
			speed = e.Speed
		}
		accuracy := e.AccuracyM
		if accuracy == nil {
			accuracy = e.Accuracy
		}

		accepted = append(accepted, model.Position{
			Ts:        e.eventTime(now),
			OrgID:     orgID,
			VehicleID: vehicleID,
			Lat:       lat,
			Lon:       lon,
			SpeedKph:  speed,
			Heading:   e.Heading,
			AccuracyM: accuracy,
			Ignition:  e.Ignition,
			Source:    "webhook",
		})
	}

	if len(accepted) == 0 {
		return ErrInvalidInput
	}

	if err := s.positionRepo.InsertBatch(ctx, accepted); err != nil {
		return err
	}

	last := accepted[len(accepted)-1]
	if err := s.vehicleRepo.TouchLastSeen(ctx, last.OrgID, last.VehicleID, last.Ts); err != nil {
		s.log.Warn().Err(err).Str("vehicleId", last.VehicleID).Msg("lastSeenTs update failed")
	}
	if s.publisher != nil {
		s.publisher.Publish(last.View())
	}

	s.log.Info().
		Str("provider", provider).
		Int("received", len(events)).
		Int("accepted", len(accepted)).
		Msg("webhook batch ingested")
	return nil
}
