// Package repository provides persistence for leads.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, name, email, phone, company, source, status, stage, notes,
	follow_up_date, assigned_to, created_by, created_at, updated_at`

// Lead is the persisted lead record.
type Lead struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Company      string     `json:"company"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	Stage        string     `json:"stage"`
	Notes        string     `json:"notes"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
	AssignedTo   *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy    uuid.UUID  `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateLeadParams holds the fields for inserting a new lead.
type CreateLeadParams struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Source       string
	Status       string
	Stage        string
	Notes        string
	FollowUpDate *time.Time
	AssignedTo   *uuid.UUID
	CreatedBy    uuid.UUID
}

// UpdateLeadParams holds a partial update. Nil pointers leave the column
// untouched. FollowUpDate and AssignedTo are nullable, so they carry an
// explicit Set flag to distinguish "absent" from "set to null".
type UpdateLeadParams struct {
	Name            *string
	Email           *string
	Phone           *string
	Company         *string
	Source          *string
	Status          *string
	Notes           *string
	FollowUpDate    *time.Time
	FollowUpDateSet bool
	AssignedTo      *uuid.UUID
	AssignedToSet   bool
}

// SearchFilters narrows a lead search. Empty strings and nil values are
// ignored. Name and Company are case-insensitive substring matches; Status,
// Stage and Source are equality matches; FollowUpFrom/FollowUpTo bound
// follow_up_date as a half-open interval.
type SearchFilters struct {
	Name         string
	Company      string
	Status       string
	Stage        string
	Source       string
	AssignedTo   *uuid.UUID
	FollowUpFrom *time.Time
	FollowUpTo   *time.Time
}

// Repository is the pgx-backed lead store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a lead repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, company, source, status, stage, notes,
			follow_up_date, assigned_to, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns,
		params.Name, params.Email, params.Phone, params.Company, params.Source,
		params.Status, params.Stage, params.Notes, params.FollowUpDate,
		params.AssignedTo, params.CreatedBy,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 11)

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.Phone != nil {
		addSet("phone", *params.Phone)
	}
	if params.Company != nil {
		addSet("company", *params.Company)
	}
	if params.Source != nil {
		addSet("source", *params.Source)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.Notes != nil {
		addSet("notes", *params.Notes)
	}
	if params.FollowUpDateSet {
		addSet("follow_up_date", params.FollowUpDate)
	}
	if params.AssignedToSet {
		addSet("assigned_to", params.AssignedTo)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET stage = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+leadColumns, stage, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Search(ctx context.Context, filters SearchFilters) ([]Lead, error) {
	where := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	addWhere := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filters.Name != "" {
		addWhere("name ILIKE '%%' || $%d || '%%'", filters.Name)
	}
	if filters.Company != "" {
		addWhere("company ILIKE '%%' || $%d || '%%'", filters.Company)
	}
	if filters.Status != "" {
		addWhere("status = $%d", filters.Status)
	}
	if filters.Stage != "" {
		addWhere("stage = $%d", filters.Stage)
	}
	if filters.Source != "" {
		addWhere("source = $%d", filters.Source)
	}
	if filters.AssignedTo != nil {
		addWhere("assigned_to = $%d", *filters.AssignedTo)
	}
	if filters.FollowUpFrom != nil {
		addWhere("follow_up_date >= $%d", *filters.FollowUpFrom)
	}
	if filters.FollowUpTo != nil {
		addWhere("follow_up_date < $%d", *filters.FollowUpTo)
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY follow_up_date ASC NULLS LAST, created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *Repository) FindDueFollowUps(ctx context.Context, from, to time.Time) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE follow_up_date >= $1 AND follow_up_date < $2
		  AND assigned_to IS NOT NULL
		ORDER BY follow_up_date ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source,
		&l.Status, &l.Stage, &l.Notes, &l.FollowUpDate, &l.AssignedTo,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	leads := make([]Lead, 0)
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source,
			&l.Status, &l.Stage, &l.Notes, &l.FollowUpDate, &l.AssignedTo,
			&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
