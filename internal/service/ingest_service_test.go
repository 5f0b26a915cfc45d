package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"fleet-api/internal/model"
)

func TestParseEnvelopeShapes(t *testing.T) {
	single := []byte(`{"orgId":"o1","vehicleId":"v1","lat":6.5,"lon":3.3}`)
	array := []byte(`[{"orgId":"o1","vehicleId":"v1","lat":6.5,"lon":3.3},{"orgId":"o1","vehicleId":"v2","lat":6.6,"lon":3.4}]`)
	wrapped := []byte(`{"events":[{"orgId":"o1","vehicleId":"v1","lat":6.5,"lon":3.3}]}`)

	for name, tc := range map[string]struct {
		body []byte
		want int
	}{
		"single object": {single, 1},
		"bare array":    {array, 2},
		"events field":  {wrapped, 1},
	} {
		events, err := parseEnvelope(tc.body)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(events) != tc.want {
			t.Fatalf("%s: got %d events, want %d", name, len(events), tc.want)
		}
	}
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	for _, body := range [][]byte{nil, []byte("   "), []byte("{not json"), []byte(`[{"lat":]`)} {
		if _, err := parseEnvelope(body); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestIngestEventFieldAliases(t *testing.T) {
	events, err := parseEnvelope([]byte(`{"metadata":{"orgId":"o1","vehicleId":7},"latitude":6.5,"longitude":3.3,"speed":42,"accuracy":5}`))
	if err != nil {
		t.Fatal(err)
	}
	e := &events[0]

	if e.orgID() != "o1" {
		t.Fatalf("orgID = %q", e.orgID())
	}
	if e.vehicleID() != "7" {
		t.Fatalf("vehicleID = %q, numeric ids should stringify", e.vehicleID())
	}
	lat, lon, ok := e.coordinates()
	if !ok || lat != 6.5 || lon != 3.3 {
		t.Fatalf("coordinates = %v %v %v", lat, lon, ok)
	}
}

func TestIngestEventIdempotencyKey(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	events, _ := parseEnvelope([]byte(`{"eventId":"ev-1","id":"other","vehicleId":"v1"}`))
	if key := events[0].idempotencyKey(now); key != "ev-1" {
		t.Fatalf("eventId should win, got %q", key)
	}

	events, _ = parseEnvelope([]byte(`{"id":"row-9","vehicleId":"v1"}`))
	if key := events[0].idempotencyKey(now); key != "row-9" {
		t.Fatalf("id fallback, got %q", key)
	}

	events, _ = parseEnvelope([]byte(`{"timestamp":"2024-06-01T11:59:00Z","vehicleId":"v1"}`))
	if key := events[0].idempotencyKey(now); key != "2024-06-01T11:59:00Z-v1" {
		t.Fatalf("timestamp fallback, got %q", key)
	}

	events, _ = parseEnvelope([]byte(`{"vehicleId":"v1"}`))
	want := "1717243200000-v1"
	if key := events[0].idempotencyKey(now); key != want {
		t.Fatalf("clock fallback, got %q want %q", key, want)
	}
}

func TestIngestEventCoordinateValidation(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	cases := []ingestEvent{
		{},
		{Lat: &nan, Lon: new(float64)},
		{Lat: new(float64), Lon: &inf},
		{Lat: new(float64)},
	}
	for i, e := range cases {
		if _, _, ok := e.coordinates(); ok {
			t.Fatalf("case %d: invalid coordinates accepted", i)
		}
	}
}

func TestIngestEventTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	e := ingestEvent{Ts: "2024-05-31T08:00:00Z"}
	if got := e.eventTime(now); !got.Equal(time.Date(2024, 5, 31, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("ts not honored: %v", got)
	}

	e = ingestEvent{Timestamp: "2024-05-30T08:00:00+06:00"}
	if got := e.eventTime(now); !got.Equal(time.Date(2024, 5, 30, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp not honored: %v", got)
	}

	e = ingestEvent{Ts: "yesterday"}
	if got := e.eventTime(now); !got.Equal(now) {
		t.Fatalf("unparseable ts should fall back to now, got %v", got)
	}
}

type fakeLedger struct {
	seen     map[string]bool
	inserted []string
}

func (f *fakeLedger) Insert(ctx context.Context, entry *model.IngestLedger) error {
	key := entry.Provider + "/" + entry.EventID
	if f.seen[key] {
		return gorm.ErrDuplicatedKey
	}
	f.seen[key] = true
	f.inserted = append(f.inserted, entry.EventID)
	return nil
}

type fakePositions struct {
	batches [][]model.Position
}

func (f *fakePositions) InsertBatch(ctx context.Context, fixes []model.Position) error {
	f.batches = append(f.batches, fixes)
	return nil
}

type fakeTracker struct {
	calls     int
	vehicleID string
	ts        time.Time
	err       error
}

func (f *fakeTracker) TouchLastSeen(ctx context.Context, orgID, vehicleID string, ts time.Time) error {
	f.calls++
	f.vehicleID = vehicleID
	f.ts = ts
	return f.err
}

type capturePublisher struct {
	views []model.PositionView
}

func (c *capturePublisher) Publish(view model.PositionView) {
	c.views = append(c.views, view)
}

func newTestIngest() (*IngestService, *fakeLedger, *fakePositions, *fakeTracker, *capturePublisher) {
	ledger := &fakeLedger{seen: map[string]bool{}}
	positions := &fakePositions{}
	tracker := &fakeTracker{}
	publisher := &capturePublisher{}
	svc := NewIngestService(ledger, positions, tracker, publisher, zerolog.Nop())
	return svc, ledger, positions, tracker, publisher
}

func TestProcessSkipsAlreadySeenEvents(t *testing.T) {
	svc, ledger, positions, _, _ := newTestIngest()
	ledger.seen["tele/ev-1"] = true

	body := []byte(`[
		{"eventId":"ev-1","orgId":"o1","vehicleId":"v1","lat":6.5,"lon":3.3},
		{"eventId":"ev-2","orgId":"o1","vehicleId":"v2","lat":6.6,"lon":3.4}
	]`)
	if err := svc.Process(context.Background(), "tele", body); err != nil {
		t.Fatal(err)
	}

	if len(ledger.inserted) != 1 || ledger.inserted[0] != "ev-2" {
		t.Fatalf("ledger inserts = %v, want just ev-2", ledger.inserted)
	}
	if len(positions.batches) != 1 || len(positions.batches[0]) != 1 {
		t.Fatalf("batches = %v, want one batch of one fix", positions.batches)
	}
	if got := positions.batches[0][0].VehicleID; got != "v2" {
		t.Fatalf("stored fix for %q, want v2", got)
	}
}

func TestProcessDropsBadEventsAndKeepsRest(t *testing.T) {
	svc, _, positions, tracker, publisher := newTestIngest()

	body := []byte(`[
		{"eventId":"ev-1","orgId":"o1","vehicleId":"v1","ts":"2024-06-01T10:00:00Z","lat":6.5,"lon":3.3},
		{"eventId":"ev-2","orgId":"o1","lat":6.6,"lon":3.4},
		{"eventId":"ev-3","orgId":"o1","vehicleId":"v3","ts":"2024-06-01T10:05:00Z","lat":6.7,"lon":3.5}
	]`)
	if err := svc.Process(context.Background(), "tele", body); err != nil {
		t.Fatal(err)
	}

	if len(positions.batches) != 1 || len(positions.batches[0]) != 2 {
		t.Fatalf("batches = %v, want one batch of two fixes", positions.batches)
	}
	if tracker.calls != 1 || tracker.vehicleID != "v3" {
		t.Fatalf("lastSeen touched %d times for %q, want once for v3", tracker.calls, tracker.vehicleID)
	}
	wantTs := time.Date(2024, 6, 1, 10, 5, 0, 0, time.UTC)
	if !tracker.ts.Equal(wantTs) {
		t.Fatalf("lastSeen ts = %v, want %v", tracker.ts, wantTs)
	}
	if len(publisher.views) != 1 || publisher.views[0].Metadata.VehicleID != "v3" {
		t.Fatalf("published %v, want the last accepted fix", publisher.views)
	}
}

func TestProcessRejectsBatchWithNothingUsable(t *testing.T) {
	svc, ledger, positions, _, publisher := newTestIngest()
	ledger.seen["tele/ev-1"] = true

	for name, body := range map[string][]byte{
		"all missing ids": []byte(`[{"orgId":"o1","lat":6.5,"lon":3.3},{"vehicleId":"v1","lat":6.6,"lon":3.4}]`),
		"all duplicates":  []byte(`[{"eventId":"ev-1","orgId":"o1","vehicleId":"v1","lat":6.5,"lon":3.3}]`),
	} {
		err := svc.Process(context.Background(), "tele", body)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}
	if len(positions.batches) != 0 {
		t.Fatalf("nothing should be stored, got %v", positions.batches)
	}
	if len(publisher.views) != 0 {
		t.Fatalf("nothing should be published, got %v", publisher.views)
	}
}

func TestProcessToleratesLastSeenFailure(t *testing.T) {
	svc, _, _, tracker, publisher := newTestIngest()
	tracker.err = errors.New("vehicle row gone")

	body := []byte(`{"eventId":"ev-1","orgId":"o1","vehicleId":"v1","lat":6.5,"lon":3.3}`)
	if err := svc.Process(context.Background(), "tele", body); err != nil {
		t.Fatalf("lastSeen failure must not fail the batch: %v", err)
	}
	if len(publisher.views) != 1 {
		t.Fatalf("fix should still publish, got %v", publisher.views)
	}
}
