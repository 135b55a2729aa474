package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"poetrade/scraper/internal/domain"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type redisStore struct {
	redisClient *redis.Client
	key         string
}

// NewRedisStore keeps the checkpoint in a single Redis key, for deployments
// where runs move between hosts and a local file would be lost.
func NewRedisStore(redisClient *redis.Client, keyPrefix string) Store {
	return &redisStore{
		redisClient: redisClient,
		key:         keyPrefix + ":state",
	}
}

func (s *redisStore) Load(ctx context.Context) (*domain.ProgressState, error) {
	val, err := s.redisClient.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			log.Infof("No progress under key %s, starting fresh", s.key)
			return domain.NewProgressState(), nil
		}
		return nil, fmt.Errorf("failed to load progress from redis: %w", err)
	}

	state := domain.NewProgressState()
	if err := json.Unmarshal([]byte(val), state); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", ErrCorruptCheckpoint, s.key, err)
	}
	return state, nil
}

func (s *redisStore) Save(ctx context.Context, state *domain.ProgressState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode progress state: %w", err)
	}
	// No expiration, the checkpoint lives until an operator removes it
	if err := s.redisClient.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save progress to redis: %w", err)
	}
	return nil
}
