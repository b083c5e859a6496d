package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityLogEntry is an immutable audit record of a user-visible action.
// Entries are written once and never updated or deleted.
type ActivityLogEntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Username  string
	UserRole  string
	Action    string // free-text category, e.g. "login", "create_account"
	Details   string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// ActivityLogFilter narrows an activity-log query. Zero-value fields
// contribute no predicate; all supplied predicates are AND-combined.
type ActivityLogFilter struct {
	User     string     // case-insensitive substring match on username
	Action   string     // case-insensitive substring match on action
	DateFrom *time.Time // inclusive, compared against the date-truncated timestamp
	DateTo   *time.Time // inclusive
}

// Empty reports whether the filter carries no predicates at all.
func (f ActivityLogFilter) Empty() bool {
	return f.User == "" && f.Action == "" && f.DateFrom == nil && f.DateTo == nil
}

type ActivityLogRepository interface {
	Record(ctx context.Context, entry *ActivityLogEntry) error
	Count(ctx context.Context, tenantID uuid.UUID, filter ActivityLogFilter) (int64, error)
	// List returns entries matching the filter ordered by CreatedAt descending.
	List(ctx context.Context, tenantID uuid.UUID, filter ActivityLogFilter, limit, offset int) ([]*ActivityLogEntry, error)
}
