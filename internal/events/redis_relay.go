package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sea-u/internal/domain/message"
	"sea-u/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errRelayClosed = errors.New("relay subscription closed")

// RedisPublisher announces message inserts on the conversation's channel so
// every instance sees them.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, m message.Message) error {
	env, err := NewMessageEnvelope(m)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return p.client.Publish(ctx, ConversationChannel(m.ConversationID), data).Err()
}

// RedisSource feeds conversation channel traffic into the local bus.
type RedisSource struct {
	client *redis.Client
	bus    *Bus
	log    *logger.Logger
	retry  reconnector
}

func NewRedisSource(client *redis.Client, bus *Bus, log *logger.Logger) *RedisSource {
	named := log.Named("redis_source")
	return &RedisSource{client: client, bus: bus, log: named, retry: newReconnector("redis relay", named)}
}

// Run relays until ctx is cancelled or the bus is closed, resubscribing with
// exponential backoff whenever the subscription drops.
func (s *RedisSource) Run(ctx context.Context) error {
	return s.retry.run(ctx, s.relay)
}

func (s *RedisSource) relay(ctx context.Context) (bool, error) {
	pubsub := s.client.PSubscribe(ctx, ConversationPattern)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return false, fmt.Errorf("psubscribe %s: %w", ConversationPattern, err)
	}
	s.log.Infof("relaying %s", ConversationPattern)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return true, errRelayClosed
			}
			m, err := s.decode(msg)
			if err != nil {
				s.log.Logger.Warn("dropping relay message", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			if err := s.bus.Publish(ctx, m); err != nil {
				return true, err
			}
		}
	}
}

func (s *RedisSource) decode(msg *redis.Message) (message.Message, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		return message.Message{}, err
	}
	m, err := env.DecodeMessage()
	if err != nil {
		return message.Message{}, err
	}
	if id, ok := ParseConversationChannel(msg.Channel); ok && id != m.ConversationID {
		return message.Message{}, fmt.Errorf("channel %s carries message of %s", msg.Channel, m.ConversationID)
	}
	return m, nil
}
