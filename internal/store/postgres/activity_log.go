package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warelog/warelog/internal/domain"
)

type ActivityLogRepo struct {
	pool *pgxpool.Pool
}

func NewActivityLogRepo(pool *pgxpool.Pool) *ActivityLogRepo {
	return &ActivityLogRepo{pool: pool}
}

func (r *ActivityLogRepo) Record(ctx context.Context, entry *domain.ActivityLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_logs (id, tenant_id, username, user_role, action, details, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.TenantID, entry.Username, entry.UserRole,
		entry.Action, entry.Details, entry.IPAddress, entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("activityLogRepo.Record: %w", err)
	}

	return nil
}

func (r *ActivityLogRepo) Count(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter) (int64, error) {
	where, args := activityLogPredicate(tenantID, filter)

	var count int64

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_logs WHERE `+where,
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("activityLogRepo.Count: %w", err)
	}

	return count, nil
}

func (r *ActivityLogRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, limit, offset int) ([]*domain.ActivityLogEntry, error) {
	where, args := activityLogPredicate(tenantID, filter)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(
			`SELECT id, tenant_id, username, user_role, action, details, ip_address, user_agent, created_at
			 FROM activity_logs WHERE %s
			 ORDER BY created_at DESC
			 LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args),
		),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("activityLogRepo.List: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ActivityLogEntry
	for rows.Next() {
		var e domain.ActivityLogEntry

		err = rows.Scan(
			&e.ID, &e.TenantID, &e.Username, &e.UserRole, &e.Action,
			&e.Details, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("activityLogRepo.List: scan: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("activityLogRepo.List: rows: %w", err)
	}

	return entries, nil
}

// activityLogPredicate builds the conjunctive WHERE clause for a filter.
// Absent filter fields contribute no clause; the tenant predicate is always
// present. Returns the clause (without the WHERE keyword) and its arguments.
func activityLogPredicate(tenantID uuid.UUID, f domain.ActivityLogFilter) (string, []any) {
	where := "tenant_id = $1"
	args := []any{tenantID}

	if f.User != "" {
		args = append(args, "%"+f.User+"%")
		where += fmt.Sprintf(" AND username ILIKE $%d", len(args))
	}
	if f.Action != "" {
		args = append(args, "%"+f.Action+"%")
		where += fmt.Sprintf(" AND action ILIKE $%d", len(args))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		where += fmt.Sprintf(" AND created_at::date >= $%d::date", len(args))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		where += fmt.Sprintf(" AND created_at::date <= $%d::date", len(args))
	}

	return where, args
}
