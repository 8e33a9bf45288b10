// Package inapp provides per-user in-app notifications.
package inapp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a notification does not exist for the given
// recipient. Ownership is part of the lookup, so a notification belonging to
// another user is indistinguishable from a missing one.
var ErrNotFound = errors.New("notification not found")

// Notification is one inbox entry. Read flips false to true exactly once and
// never reverses.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	RecipientID uuid.UUID  `json:"recipientId"`
	LeadID      *uuid.UUID `json:"leadId,omitempty"`
	Message     string     `json:"message"`
	Read        bool       `json:"read"`
	Timestamp   time.Time  `json:"timestamp"`
}

// CreateParams holds the fields for a new notification.
type CreateParams struct {
	RecipientID uuid.UUID
	LeadID      *uuid.UUID
	Message     string
}

// Store defines the persistence interface for notifications.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]Notification, int, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) (Notification, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Exists(ctx context.Context, leadID, recipientID uuid.UUID, message string) (bool, error)
}

// Repository is the pgx-backed notification store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notification repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, lead_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, recipient_id, lead_id, message, read, created_at
	`, p.RecipientID, p.LeadID, p.Message).Scan(
		&n.ID, &n.RecipientID, &n.LeadID, &n.Message, &n.Read, &n.Timestamp,
	)
	return n, err
}

func (r *Repository) List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`, recipientID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, lead_id, message, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, recipientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.LeadID, &n.Message, &n.Read, &n.Timestamp); err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (r *Repository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND read = FALSE
	`, recipientID).Scan(&count)
	return count, err
}

func (r *Repository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) (Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND recipient_id = $2
		RETURNING id, recipient_id, lead_id, message, read, created_at
	`, notificationID, recipientID).Scan(
		&n.ID, &n.RecipientID, &n.LeadID, &n.Message, &n.Read, &n.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}

func (r *Repository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE recipient_id = $1 AND read = FALSE
	`, recipientID)
	return err
}

func (r *Repository) Exists(ctx context.Context, leadID, recipientID uuid.UUID, message string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE lead_id = $1 AND recipient_id = $2 AND message = $3
		)
	`, leadID, recipientID, message).Scan(&exists)
	return exists, err
}
