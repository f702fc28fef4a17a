package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fanlane/backstage"
)

// SignalService is the typed event channel between frontends. Events are
// published to Redis pub/sub and fanned out to realtime subscribers;
// delivery is fire-and-forget.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, channel string, event backstage.Event) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime pumps events for the channels requested on input into output
// until ctx is done. Sending a new channel list on input replaces the
// subscription set.
func (s *SignalService) Realtime(ctx context.Context, input chan []string, output chan backstage.Event) {
	pubsub := s.rdb.Subscribe(ctx)
	defer pubsub.Close()

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case channels, ok := <-input:
			if !ok {
				return
			}
			if err := pubsub.Unsubscribe(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to reset subscription",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if len(channels) == 0 {
				continue
			}
			if err := pubsub.Subscribe(ctx, channels...); err != nil {
				slog.ErrorContext(ctx, "failed to subscribe",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
			}
		case message, ok := <-messages:
			if !ok {
				return
			}
			var event backstage.Event
			if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
				slog.ErrorContext(ctx, "dropping malformed event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
