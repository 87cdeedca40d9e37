package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tr33-app/tr33-backend/internal/modules/scan/pipeline"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
)

// PendingScanStore holds identified-but-uncommitted attempts between
// the identify and commit calls. Entries expire on their own; a failed
// commit keeps the entry so the user can retry without re-scanning.
type PendingScanStore interface {
	Save(ctx context.Context, attempt *pipeline.Attempt, ttl time.Duration) error
	Get(ctx context.Context, id string) (*pipeline.Attempt, error)
	Delete(ctx context.Context, id string) error
}

type redisPendingStore struct {
	client *redis.Client
}

func NewPendingScanStore(client *redis.Client) PendingScanStore {
	return &redisPendingStore{client: client}
}

func pendingKey(id string) string {
	return fmt.Sprintf("scan:pending:%s", id)
}

func (s *redisPendingStore) Save(ctx context.Context, attempt *pipeline.Attempt, ttl time.Duration) error {
	payload, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to marshal pending scan: %w", err)
	}

	if err := s.client.SetEx(ctx, pendingKey(attempt.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending scan: %w", err)
	}
	return nil
}

func (s *redisPendingStore) Get(ctx context.Context, id string) (*pipeline.Attempt, error) {
	payload, err := s.client.Get(ctx, pendingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: scan not found or expired", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pending scan: %w", err)
	}

	var attempt pipeline.Attempt
	if err := json.Unmarshal(payload, &attempt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending scan: %w", err)
	}
	return &attempt, nil
}

func (s *redisPendingStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, pendingKey(id)).Err()
}
