package realtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fleet-api/internal/model"
)

func fix(orgID, vehicleID string) model.PositionView {
	return model.PositionView{
		Ts:       time.Now().UTC(),
		Metadata: model.PositionMetadata{OrgID: orgID, VehicleID: vehicleID},
		Lat:      51.1,
		Lon:      71.4,
		Source:   "webhook",
	}
}

func TestPublishReachesOwnOrgOnly(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a1 := hub.Subscribe("org-a")
	a2 := hub.Subscribe("org-a")
	b := hub.Subscribe("org-b")

	hub.Publish(fix("org-a", "veh-1"))

	for _, sub := range []*Subscriber{a1, a2} {
		select {
		case view := <-sub.C():
			if view.Metadata.VehicleID != "veh-1" {
				t.Fatalf("unexpected vehicle %q", view.Metadata.VehicleID)
			}
		case <-time.After(time.Second):
			t.Fatal("org-a subscriber did not receive the fix")
		}
	}

	select {
	case view := <-b.C():
		t.Fatalf("org-b received a foreign fix: %+v", view)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sub := hub.Subscribe("org-a")
	hub.Unsubscribe(sub)

	if _, open := <-sub.C(); open {
		t.Fatal("channel still open after unsubscribe")
	}
	if n := hub.Subscribers("org-a"); n != 0 {
		t.Fatalf("expected empty room, got %d subscribers", n)
	}

	// A second unsubscribe must be a no-op, not a double close.
	hub.Unsubscribe(sub)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sub := hub.Subscribe("org-a")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(fix("org-a", "veh-1"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	if len(sub.ch) != subscriberBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", subscriberBuffer, len(sub.ch))
	}
}
