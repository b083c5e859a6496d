package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	return ctx
}

func adminCtx(tenantID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, uuid.New())
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, domain.RoleAdmin)
	ctx = context.WithValue(ctx, middleware.ContextKeyUsername, "Alice")
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	activityLogs domain.ActivityLogRepository
	accounts     domain.TreasuryAccountRepository
	users        domain.UserRepository
}

func (m *mockDataStore) ActivityLogs() domain.ActivityLogRepository { return m.activityLogs }
func (m *mockDataStore) TreasuryAccounts() domain.TreasuryAccountRepository {
	return m.accounts
}
func (m *mockDataStore) Users() domain.UserRepository { return m.users }

// ---------------------------------------------------------------------------
// Mock ActivityLogRepository
// ---------------------------------------------------------------------------

type mockActivityLogRepo struct {
	recordFunc func(ctx context.Context, entry *domain.ActivityLogEntry) error
	countFunc  func(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter) (int64, error)
	listFunc   func(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, limit, offset int) ([]*domain.ActivityLogEntry, error)
}

func (m *mockActivityLogRepo) Record(ctx context.Context, entry *domain.ActivityLogEntry) error {
	if m.recordFunc == nil {
		return nil
	}
	return m.recordFunc(ctx, entry)
}

func (m *mockActivityLogRepo) Count(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter) (int64, error) {
	return m.countFunc(ctx, tenantID, filter)
}

func (m *mockActivityLogRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, limit, offset int) ([]*domain.ActivityLogEntry, error) {
	return m.listFunc(ctx, tenantID, filter, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock TreasuryAccountRepository
// ---------------------------------------------------------------------------

type mockTreasuryAccountRepo struct {
	createFunc  func(ctx context.Context, a *domain.TreasuryAccount) error
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.TreasuryAccount, error)
	updateFunc  func(ctx context.Context, a *domain.TreasuryAccount) error
	listFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.TreasuryAccount, error)
}

func (m *mockTreasuryAccountRepo) Create(ctx context.Context, a *domain.TreasuryAccount) error {
	return m.createFunc(ctx, a)
}

func (m *mockTreasuryAccountRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TreasuryAccount, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockTreasuryAccountRepo) Update(ctx context.Context, a *domain.TreasuryAccount) error {
	return m.updateFunc(ctx, a)
}

func (m *mockTreasuryAccountRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.TreasuryAccount, error) {
	return m.listFunc(ctx, tenantID)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	listFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, tenantID, email)
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	return m.listFunc(ctx, tenantID)
}
