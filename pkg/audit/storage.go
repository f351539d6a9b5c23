package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage persists audit events. Implementations must be append-only:
// events are never updated or deleted.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// PostgresStorage appends events to the shared audit_events table.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates audit storage backed by the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Store(ctx context.Context, event Event) error {
	var metadata []byte
	if event.Metadata != nil {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_events (id, tenant_id, user_id, action, resource, result, reason, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.TenantID, event.UserID, event.Action, event.Resource,
		event.Result, event.Reason, metadata, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store audit event: %w", err)
	}
	return nil
}

// MemoryStorage keeps events in memory. Intended for tests.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryStorage creates an in-memory audit storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Store(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the stored events.
func (s *MemoryStorage) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
