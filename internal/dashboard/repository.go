// Package dashboard aggregates lead statistics for the overview screen.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatCount is a labeled count bucket.
type StatCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// EmployeeCount is a per-assignee lead count.
type EmployeeCount struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Count  int64     `json:"count"`
}

// Store reads aggregate lead figures.
type Store interface {
	CountLeads(ctx context.Context, assignedTo *uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, assignedTo *uuid.UUID) ([]StatCount, error)
	CountBySource(ctx context.Context, assignedTo *uuid.UUID) ([]StatCount, error)
	CountByEmployee(ctx context.Context) ([]EmployeeCount, error)
	CountFollowUpsDue(ctx context.Context, assignedTo *uuid.UUID, from, to time.Time) (int64, error)
}

// Repository is the pgx-backed dashboard store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a dashboard repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scopeClause(assignedTo *uuid.UUID, args []any) (string, []any) {
	if assignedTo == nil {
		return "", args
	}
	args = append(args, *assignedTo)
	return fmt.Sprintf(" WHERE assigned_to = $%d", len(args)), args
}

func (r *Repository) CountLeads(ctx context.Context, assignedTo *uuid.UUID) (int64, error) {
	query := "SELECT COUNT(*) FROM leads"
	var args []any
	clause, args := scopeClause(assignedTo, args)
	query += clause

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}
	return count, nil
}

func (r *Repository) CountByStatus(ctx context.Context, assignedTo *uuid.UUID) ([]StatCount, error) {
	query := "SELECT status, COUNT(*) FROM leads"
	var args []any
	clause, args := scopeClause(assignedTo, args)
	query += clause + " GROUP BY status ORDER BY status"

	return r.queryStatCounts(ctx, query, args)
}

func (r *Repository) CountBySource(ctx context.Context, assignedTo *uuid.UUID) ([]StatCount, error) {
	query := "SELECT COALESCE(NULLIF(source, ''), 'unknown'), COUNT(*) FROM leads"
	var args []any
	clause, args := scopeClause(assignedTo, args)
	query += clause + " GROUP BY 1 ORDER BY 2 DESC"

	return r.queryStatCounts(ctx, query, args)
}

func (r *Repository) queryStatCounts(ctx context.Context, query string, args []any) ([]StatCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying lead counts: %w", err)
	}
	defer rows.Close()

	counts := make([]StatCount, 0, 8)
	for rows.Next() {
		var sc StatCount
		if err := rows.Scan(&sc.Label, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning lead count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *Repository) CountByEmployee(ctx context.Context) ([]EmployeeCount, error) {
	query := `
		SELECT u.id, u.name, COUNT(l.id)
		FROM users u
		LEFT JOIN leads l ON l.assigned_to = u.id
		WHERE u.is_active = TRUE
		GROUP BY u.id, u.name
		ORDER BY 3 DESC, u.name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying employee counts: %w", err)
	}
	defer rows.Close()

	counts := make([]EmployeeCount, 0, 8)
	for rows.Next() {
		var ec EmployeeCount
		if err := rows.Scan(&ec.UserID, &ec.Name, &ec.Count); err != nil {
			return nil, fmt.Errorf("scanning employee count: %w", err)
		}
		counts = append(counts, ec)
	}
	return counts, rows.Err()
}

func (r *Repository) CountFollowUpsDue(ctx context.Context, assignedTo *uuid.UUID, from, to time.Time) (int64, error) {
	query := "SELECT COUNT(*) FROM leads WHERE follow_up_date >= $1 AND follow_up_date < $2"
	args := []any{from, to}
	if assignedTo != nil {
		args = append(args, *assignedTo)
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting due follow-ups: %w", err)
	}
	return count, nil
}
