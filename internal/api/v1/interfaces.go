package v1

import (
	"github.com/warelog/warelog/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	ActivityLogs() domain.ActivityLogRepository
	TreasuryAccounts() domain.TreasuryAccountRepository
	Users() domain.UserRepository
}
