// Package activity provides the append-only audit trail of actions taken on
// leads. Entries are never updated or deleted.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is an immutable audit record. LeadID is a weak reference: it is kept
// even after the lead itself has been deleted.
type Entry struct {
	ID        uuid.UUID  `json:"id"`
	ActorID   uuid.UUID  `json:"actorId"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	Action    string     `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
}

// Store defines the persistence interface for audit entries.
type Store interface {
	Insert(ctx context.Context, actorID uuid.UUID, leadID *uuid.UUID, action string) (Entry, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Entry, error)
}

// Repository is the pgx-backed audit store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an audit repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) Insert(ctx context.Context, actorID uuid.UUID, leadID *uuid.UUID, action string) (Entry, error) {
	var e Entry
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activity_log (actor_id, lead_id, action)
		VALUES ($1, $2, $3)
		RETURNING id, actor_id, lead_id, action, created_at
	`, actorID, leadID, action).Scan(&e.ID, &e.ActorID, &e.LeadID, &e.Action, &e.Timestamp)
	return e, err
}

func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_id, lead_id, action, created_at
		FROM activity_log
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.LeadID, &e.Action, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
