package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"fleet-api/internal/model"
)

const subscriberBuffer = 64

// Subscriber receives the position fixes of a single org. The channel is
// closed on Unsubscribe.
type Subscriber struct {
	orgID string
	ch    chan model.PositionView
}

func (s *Subscriber) C() <-chan model.PositionView {
	return s.ch
}

// Hub fans accepted fixes out to websocket subscribers, one room per org.
// A slow subscriber loses fixes instead of stalling the rest of the room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscriber]struct{}),
		log:   log,
	}
}

func (h *Hub) Subscribe(orgID string) *Subscriber {
	sub := &Subscriber{
		orgID: orgID,
		ch:    make(chan model.PositionView, subscriberBuffer),
	}
	h.mu.Lock()
	room, ok := h.rooms[orgID]
	if !ok {
		room = make(map[*Subscriber]struct{})
		h.rooms[orgID] = room
	}
	room[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	room, ok := h.rooms[sub.orgID]
	if ok {
		if _, member := room[sub]; member {
			delete(room, sub)
			close(sub.ch)
		}
		if len(room) == 0 {
			delete(h.rooms, sub.orgID)
		}
	}
	h.mu.Unlock()
}

// Publish delivers a fix to every subscriber of its org.
func (h *Hub) Publish(view model.PositionView) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[view.Metadata.OrgID] {
		select {
		case sub.ch <- view:
		default:
			h.log.Debug().Str("orgId", view.Metadata.OrgID).Msg("subscriber buffer full, fix dropped")
		}
	}
}

func (h *Hub) Subscribers(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orgID])
}
