package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Drafts survive reconnects but not a day of inactivity
const draftTTL = 24 * time.Hour

// Store persists booking drafts keyed by session ID
type Store interface {
	Get(ctx context.Context, sessionID string) (*BookingDraft, error)
	Save(ctx context.Context, sessionID string, d *BookingDraft) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("booking_draft:%s", sessionID)
}

// Get returns the stored draft, or nil when none exists. A draft
// written under an older schema version is discarded on read.
func (s *redisStore) Get(ctx context.Context, sessionID string) (*BookingDraft, error) {
	val, err := s.client.Get(ctx, draftKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	d, ok := decodeDraft([]byte(val))
	if !ok {
		_ = s.Delete(ctx, sessionID)
		return nil, nil
	}

	return d, nil
}

// Save writes the draft and refreshes its TTL
func (s *redisStore) Save(ctx context.Context, sessionID string, d *BookingDraft) error {
	d.SchemaVersion = SchemaVersion

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	if err := s.client.Set(ctx, draftKey(sessionID), payload, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, draftKey(sessionID)).Err()
}
