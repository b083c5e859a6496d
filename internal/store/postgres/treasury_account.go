package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warelog/warelog/internal/domain"
)

type TreasuryAccountRepo struct {
	pool *pgxpool.Pool
}

func NewTreasuryAccountRepo(pool *pgxpool.Pool) *TreasuryAccountRepo {
	return &TreasuryAccountRepo{pool: pool}
}

func (r *TreasuryAccountRepo) Create(ctx context.Context, a *domain.TreasuryAccount) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO treasury_accounts
		   (id, tenant_id, account_name, account_number, account_type, bank_name, balance, description, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.TenantID, a.AccountName, a.AccountNumber, a.AccountType,
		a.BankName, a.Balance, a.Description, a.Status, a.CreatedBy,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("treasuryAccountRepo.Create: %w", err)
	}

	return nil
}

func (r *TreasuryAccountRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TreasuryAccount, error) {
	var a domain.TreasuryAccount

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, account_name, account_number, account_type, bank_name, balance, description, status, created_by, created_at, updated_at
		 FROM treasury_accounts WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(
		&a.ID, &a.TenantID, &a.AccountName, &a.AccountNumber, &a.AccountType,
		&a.BankName, &a.Balance, &a.Description, &a.Status, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("treasuryAccountRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("treasuryAccountRepo.GetByID: %w", err)
	}

	return &a, nil
}

// Update writes every mutable field. Balance is deliberately absent from the
// SET list: balance changes flow through treasury transactions, not edits.
func (r *TreasuryAccountRepo) Update(ctx context.Context, a *domain.TreasuryAccount) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE treasury_accounts
		 SET account_name = $1, account_number = $2, account_type = $3,
		     bank_name = $4, description = $5, status = $6, updated_at = now()
		 WHERE tenant_id = $7 AND id = $8`,
		a.AccountName, a.AccountNumber, a.AccountType,
		a.BankName, a.Description, a.Status,
		a.TenantID, a.ID,
	)
	if err != nil {
		return fmt.Errorf("treasuryAccountRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("treasuryAccountRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TreasuryAccountRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.TreasuryAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, account_name, account_number, account_type, bank_name, balance, description, status, created_by, created_at, updated_at
		 FROM treasury_accounts WHERE tenant_id = $1
		 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("treasuryAccountRepo.List: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.TreasuryAccount
	for rows.Next() {
		var a domain.TreasuryAccount

		err = rows.Scan(
			&a.ID, &a.TenantID, &a.AccountName, &a.AccountNumber, &a.AccountType,
			&a.BankName, &a.Balance, &a.Description, &a.Status, &a.CreatedBy,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("treasuryAccountRepo.List: scan: %w", err)
		}
		accounts = append(accounts, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("treasuryAccountRepo.List: rows: %w", err)
	}

	return accounts, nil
}
