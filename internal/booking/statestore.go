package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Abandoned checkouts drop back to IDLE when the session key expires
const sessionStateTTL = 24 * time.Hour

// SessionState is the payment coordinator position for one session,
// plus the order details needed to resume or verify it.
type SessionState struct {
	State         State   `json:"state"`
	OrderID       string  `json:"orderId,omitempty"`
	AdvanceAmount float64 `json:"advanceAmount,omitempty"`
}

// StateStore persists per-session payment state
type StateStore interface {
	Get(ctx context.Context, sessionID string) (SessionState, error)
	Save(ctx context.Context, sessionID string, st SessionState) error
}

type redisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) StateStore {
	return &redisStateStore{client: client}
}

func stateKey(sessionID string) string {
	return fmt.Sprintf("booking_state:%s", sessionID)
}

// Get returns the stored state; a missing or unreadable key is IDLE
func (s *redisStateStore) Get(ctx context.Context, sessionID string) (SessionState, error) {
	idle := SessionState{State: StateIdle}

	val, err := s.client.Get(ctx, stateKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return idle, nil
	}
	if err != nil {
		return idle, fmt.Errorf("failed to read payment state: %w", err)
	}

	var st SessionState
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return idle, nil
	}
	if st.State == "" {
		st.State = StateIdle
	}
	return st, nil
}

func (s *redisStateStore) Save(ctx context.Context, sessionID string, st SessionState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, stateKey(sessionID), payload, sessionStateTTL).Err(); err != nil {
		return fmt.Errorf("failed to save payment state: %w", err)
	}
	return nil
}
