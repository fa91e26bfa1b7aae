package redisq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
)

type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressStore(client *redis.Client, ttl time.Duration) ports.ProgressStore {
	return &ProgressStore{client: client, ttl: ttl}
}

func progressKey(scope domain.ProgressScope, entityID int64) string {
	return fmt.Sprintf("openframing:progress:%s:%d", scope, entityID)
}

func (s *ProgressStore) Set(ctx context.Context, p domain.Progress) error {
	p.UpdatedAt = time.Now()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	key := progressKey(p.Scope, p.EntityID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) Get(ctx context.Context, scope domain.ProgressScope, entityID int64) (*domain.Progress, error) {
	data, err := s.client.Get(ctx, progressKey(scope, entityID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	p := &domain.Progress{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return p, nil
}

func (s *ProgressStore) Clear(ctx context.Context, scope domain.ProgressScope, entityID int64) error {
	if err := s.client.Del(ctx, progressKey(scope, entityID)).Err(); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
