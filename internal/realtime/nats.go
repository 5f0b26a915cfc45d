package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"fleet-api/internal/model"
)

const positionSubjectPrefix = "positions."

// Bridge relays position fixes through NATS so every API instance feeds its
// local hub, regardless of which instance accepted the webhook. Fixes are
// published to positions.<orgId> and the bridge subscribes to positions.>.
type Bridge struct {
	conn *nats.Conn
	hub  *Hub
	sub  *nats.Subscription
	log  zerolog.Logger
}

func NewBridge(url string, hub *Hub, log zerolog.Logger) (*Bridge, error) {
	conn, err := nats.Connect(url,
		nats.Name("fleet-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Bridge{conn: conn, hub: hub, log: log}, nil
}

func (b *Bridge) Start() error {
	sub, err := b.conn.Subscribe(positionSubjectPrefix+">", func(msg *nats.Msg) {
		var view model.PositionView
		if err := json.Unmarshal(msg.Data, &view); err != nil {
			b.log.Warn().Err(err).Str("subject", msg.Subject).Msg("undecodable position message")
			return
		}
		b.hub.Publish(view)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s>: %w", positionSubjectPrefix, err)
	}
	b.sub = sub
	return nil
}

// Publish sends the fix to the broker; local delivery happens through the
// subscription like everyone else's.
func (b *Bridge) Publish(view model.PositionView) {
	data, err := json.Marshal(view)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal position for broker")
		return
	}
	if err := b.conn.Publish(positionSubjectPrefix+view.Metadata.OrgID, data); err != nil {
		b.log.Warn().Err(err).Msg("broker publish failed")
	}
}

func (b *Bridge) Close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}
