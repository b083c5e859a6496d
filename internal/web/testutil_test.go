package web_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
	"github.com/warelog/warelog/internal/web"
)

type mockActivityLogRepo struct {
	RecordFunc func(ctx context.Context, entry *domain.ActivityLogEntry) error
	CountFunc  func(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter) (int64, error)
	ListFunc   func(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, limit, offset int) ([]*domain.ActivityLogEntry, error)
}

func (m *mockActivityLogRepo) Record(ctx context.Context, entry *domain.ActivityLogEntry) error {
	if m.RecordFunc == nil {
		return nil
	}
	return m.RecordFunc(ctx, entry)
}

func (m *mockActivityLogRepo) Count(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter) (int64, error) {
	return m.CountFunc(ctx, tenantID, filter)
}

func (m *mockActivityLogRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, limit, offset int) ([]*domain.ActivityLogEntry, error) {
	return m.ListFunc(ctx, tenantID, filter, limit, offset)
}

type mockTreasuryAccountRepo struct {
	CreateFunc  func(ctx context.Context, a *domain.TreasuryAccount) error
	GetByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.TreasuryAccount, error)
	UpdateFunc  func(ctx context.Context, a *domain.TreasuryAccount) error
	ListFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.TreasuryAccount, error)
}

func (m *mockTreasuryAccountRepo) Create(ctx context.Context, a *domain.TreasuryAccount) error {
	return m.CreateFunc(ctx, a)
}

func (m *mockTreasuryAccountRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TreasuryAccount, error) {
	return m.GetByIDFunc(ctx, tenantID, id)
}

func (m *mockTreasuryAccountRepo) Update(ctx context.Context, a *domain.TreasuryAccount) error {
	return m.UpdateFunc(ctx, a)
}

func (m *mockTreasuryAccountRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.TreasuryAccount, error) {
	return m.ListFunc(ctx, tenantID)
}

type mockStore struct {
	activityLogs *mockActivityLogRepo
	accounts     *mockTreasuryAccountRepo
}

func (m *mockStore) ActivityLogs() domain.ActivityLogRepository { return m.activityLogs }
func (m *mockStore) TreasuryAccounts() domain.TreasuryAccountRepository {
	return m.accounts
}

type mockAuthService struct {
	LoginFunc  func(ctx context.Context, tenantSlug, email, password string) (string, *domain.User, error)
	LogoutFunc func(ctx context.Context, token string) error
}

func (m *mockAuthService) Login(ctx context.Context, tenantSlug, email, password string) (string, *domain.User, error) {
	return m.LoginFunc(ctx, tenantSlug, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return m.LogoutFunc(ctx, token)
}

type mockExporter struct {
	ExportFunc func(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, w io.Writer) error
}

func (m *mockExporter) Export(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, w io.Writer) error {
	return m.ExportFunc(ctx, tenantID, filter, w)
}

func newTestHandlers(t *testing.T, store *mockStore, auth *mockAuthService, exporter *mockExporter) *web.Handlers {
	t.Helper()

	if auth == nil {
		auth = &mockAuthService{}
	}
	if exporter == nil {
		exporter = &mockExporter{}
	}

	h, err := web.NewHandlers(store, auth, exporter, time.Hour, false)
	require.NoError(t, err)
	return h
}

// withIdentity attaches the context values the auth middleware would set.
func withIdentity(r *http.Request, tenantID uuid.UUID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, uuid.New())
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	ctx = context.WithValue(ctx, middleware.ContextKeyUsername, "alice")
	return r.WithContext(ctx)
}
