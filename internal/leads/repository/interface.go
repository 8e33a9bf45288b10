package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadRepository defines the interface for lead data operations.
// Services depend on this abstraction rather than the concrete pgx
// implementation, improving testability.
type LeadRepository interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filters SearchFilters) ([]Lead, error)
	FindDueFollowUps(ctx context.Context, from, to time.Time) ([]Lead, error)
}

// Ensure Repository implements LeadRepository
var _ LeadRepository = (*Repository)(nil)
