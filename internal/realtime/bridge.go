package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdesk-br/chamado-service/internal/events"
)

// Bridge relays dispatched events through a Redis channel so WebSocket
// clients connected to other instances receive them too. Messages carry the
// originating instance ID so locally broadcast events are not re-delivered.
type Bridge struct {
	client     *redis.Client
	channel    string
	instanceID string
	hub        *Hub
	logger     *zap.Logger
}

type bridgeMessage struct {
	Origin string       `json:"origem"`
	Event  events.Event `json:"evento"`
}

// NewBridge builds a bridge bound to a hub.
func NewBridge(client *redis.Client, channel string, hub *Hub, logger *zap.Logger) *Bridge {
	return &Bridge{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		hub:        hub,
		logger:     logger,
	}
}

// HandleEvent is subscribed to the dispatcher: it broadcasts locally and
// publishes to Redis for the other instances. Publishing is best-effort.
func (b *Bridge) HandleEvent(ctx context.Context, event events.Event) {
	b.hub.BroadcastEvent(event)

	if b.client == nil {
		return
	}
	data, err := json.Marshal(bridgeMessage{Origin: b.instanceID, Event: event})
	if err != nil {
		b.logger.Error("marshal bridge message", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Warn("publish event to redis", zap.Error(err))
	}
}

// Run subscribes to the Redis channel and broadcasts remote events until the
// context is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	if b.client == nil {
		return
	}
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close() //nolint:errcheck

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var bm bridgeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.logger.Warn("invalid bridge message", zap.Error(err))
				continue
			}
			if bm.Origin == b.instanceID {
				continue
			}
			b.hub.BroadcastEvent(bm.Event)
		}
	}
}
