package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-rounds/internal/app"
	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/game"
	"trivia-rounds/internal/logging"
)

// StateStore keeps the encoded game under a single key: SET {namespace} {record}.
// With a backing repository it becomes a write-through cache: the backing store
// is the commit point, and cache misses are filled from it.
type StateStore struct {
	client  *redis.Client
	key     string
	ttl     time.Duration
	backing app.StateRepository
	sf      singleflight.Group
}

func NewStateStore(client *redis.Client, namespace string, ttl time.Duration) *StateStore {
	return NewStateStoreWithBacking(client, namespace, ttl, nil)
}

func NewStateStoreWithBacking(client *redis.Client, namespace string, ttl time.Duration, backing app.StateRepository) *StateStore {
	return &StateStore{
		client:  client,
		key:     namespace,
		ttl:     ttl,
		backing: backing,
	}
}

func (s *StateStore) Load(ctx context.Context) (*game.State, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == nil {
		return game.Decode(data)
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	if s.backing == nil {
		return nil, domain.ErrStateNotFound
	}

	result, err, _ := s.sf.Do(s.key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if data, err := s.client.Get(ctx, s.key).Bytes(); err == nil {
			return data, nil
		}
		state, err := s.backing.Load(ctx)
		if err != nil {
			return nil, err
		}
		data, err := game.Encode(state)
		if err != nil {
			return nil, err
		}
		if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
			logging.Log.WithError(err).Warn("failed to warm redis game cache")
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return game.Decode(result.([]byte))
}

// Save writes the cache first and commits to the backing store last. A failed
// commit evicts the cached record so the next Load reads the backing store again.
func (s *StateStore) Save(ctx context.Context, state *game.State) error {
	data, err := game.Encode(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	if s.backing == nil {
		return nil
	}
	if err := s.backing.Save(ctx, state); err != nil {
		if delErr := s.client.Del(ctx, s.key).Err(); delErr != nil {
			logging.Log.WithError(delErr).Error("failed to evict uncommitted game state from redis")
		}
		return err
	}
	return nil
}

func (s *StateStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	if s.backing != nil {
		return s.backing.Delete(ctx)
	}
	return nil
}
