package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCash       AccountType = "cash"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
)

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeCredit, AccountTypeInvestment:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Valid reports whether s is one of the supported account statuses.
func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// TreasuryAccount is a tenant-scoped treasury account. Balance is set once
// at creation; later edits go through the transactions pipeline, never
// through account updates.
type TreasuryAccount struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	AccountName   string
	AccountNumber string
	AccountType   AccountType
	BankName      string // optional, usually empty for cash accounts
	Balance       decimal.Decimal
	Description   string
	Status        AccountStatus
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type TreasuryAccountRepository interface {
	Create(ctx context.Context, a *TreasuryAccount) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TreasuryAccount, error)
	// Update persists every mutable field of a. Balance, CreatedBy and
	// CreatedAt are never written. Returns ErrNotFound when no row matches.
	Update(ctx context.Context, a *TreasuryAccount) error
	// List returns all accounts of the tenant ordered by CreatedAt descending.
	List(ctx context.Context, tenantID uuid.UUID) ([]*TreasuryAccount, error)
}
