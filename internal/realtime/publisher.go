package realtime

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/bytebufferpool"
	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/usecase"
)

const (
	EventGameUpdates = "game_updates"
	EventPickResults = "pick_results"

	defaultChannel = "pickem:events"
)

// Event is the wire envelope every realtime payload travels in.
type Event struct {
	Type        string `json:"type"`
	Payload     any    `json:"payload"`
	PublishedAt int64  `json:"publishedAt"`
}

// Publisher encodes sync-cycle events and fans them out. With Redis
// configured, events go through a pub/sub channel so every instance's hub
// sees them; otherwise they broadcast straight to the local hub.
type Publisher struct {
	hub     *Hub
	rdb     *redis.Client
	channel string
	logger  *logging.Logger
	now     func() time.Time
}

func NewPublisher(hub *Hub, rdb *redis.Client, channel string, logger *logging.Logger) *Publisher {
	if channel == "" {
		channel = defaultChannel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		hub:     hub,
		rdb:     rdb,
		channel: channel,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Publisher) PublishGameUpdates(ctx context.Context, games []game.Game) error {
	return p.publish(ctx, EventGameUpdates, games)
}

func (p *Publisher) PublishPickResults(ctx context.Context, results []usecase.PickResult) error {
	return p.publish(ctx, EventPickResults, results)
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	event := Event{Type: eventType, Payload: payload, PublishedAt: p.now().UnixMilli()}
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(event); err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	encoded := append([]byte(nil), buf.Bytes()...)

	if p.rdb != nil {
		if err := p.rdb.Publish(ctx, p.channel, encoded).Err(); err != nil {
			return fmt.Errorf("publish %s event to redis: %w", eventType, err)
		}
		return nil
	}

	if p.hub != nil {
		p.hub.Broadcast(encoded)
	}
	return nil
}

// RunFanIn forwards events from the Redis channel to the local hub. It blocks
// until the context is cancelled and must only run when Redis is configured;
// local publishes also arrive through this path, so delivery stays exactly
// once per instance.
func (p *Publisher) RunFanIn(ctx context.Context) error {
	if p.rdb == nil || p.hub == nil {
		return fmt.Errorf("redis fan-in requires a redis client and a hub")
	}

	sub := p.rdb.Subscribe(ctx, p.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", p.channel, err)
	}

	p.logger.Info("realtime redis fan-in started", "channel", p.channel)
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("redis subscription for %s closed", p.channel)
			}
			p.hub.Broadcast([]byte(msg.Payload))
		}
	}
}

// NoopPublisher drops every event. Used when realtime fanout is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishGameUpdates(context.Context, []game.Game) error          { return nil }
func (NoopPublisher) PublishPickResults(context.Context, []usecase.PickResult) error { return nil }
