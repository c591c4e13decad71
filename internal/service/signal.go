package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

// Publish broadcasts a revalidation event to every subscribed
// dashboard session.
func (s *SignalService) Publish(ctx context.Context, event domain.RevalidationEvent) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, domain.RevalidateChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime relays revalidation events to output, filtered by the paths
// received on input. With no subscription yet, every event is relayed.
// Returns when ctx is done or input closes.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- domain.RevalidationEvent) {
	pubsub := s.rdb.Subscribe(ctx, domain.RevalidateChannel)
	defer pubsub.Close()

	relay(ctx, pubsub.Channel(), input, output)
}

func relay(ctx context.Context, messages <-chan *redis.Message, input <-chan []string, output chan<- domain.RevalidationEvent) {
	listening := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return
		case paths, ok := <-input:
			if !ok {
				return
			}
			for _, path := range paths {
				listening[path] = true
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event domain.RevalidationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if len(listening) > 0 && !listening[event.Path] {
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
