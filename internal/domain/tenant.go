package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated customer partition. All warehouse data is scoped to
// exactly one tenant; no query in this service crosses tenants.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
}
