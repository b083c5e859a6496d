package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

type ListAccountsOutput struct {
	Body []*domain.TreasuryAccount
}

type GetAccountInput struct {
	ID uuid.UUID `path:"id" doc:"Account ID"`
}

type GetAccountOutput struct {
	Body *domain.TreasuryAccount
}

type CreateAccountInput struct {
	Body struct {
		AccountName   string `json:"account_name" minLength:"1" maxLength:"255" doc:"Display name"`
		AccountNumber string `json:"account_number" minLength:"1" maxLength:"64" doc:"Account number"`
		AccountType   string `json:"account_type" enum:"bank,cash,credit,investment" doc:"Account type"`
		BankName      string `json:"bank_name,omitempty" maxLength:"255" doc:"Bank name"`
		Balance       string `json:"balance" doc:"Opening balance, decimal string"`
		Description   string `json:"description,omitempty" doc:"Free-text description"`
		Status        string `json:"status" enum:"active,inactive" doc:"Account status"`
	}
}

type CreateAccountOutput struct {
	Body *domain.TreasuryAccount
}

type UpdateAccountInput struct {
	ID   uuid.UUID `path:"id" doc:"Account ID"`
	Body struct {
		AccountName   string `json:"account_name" minLength:"1" maxLength:"255" doc:"Display name"`
		AccountNumber string `json:"account_number" minLength:"1" maxLength:"64" doc:"Account number"`
		AccountType   string `json:"account_type" enum:"bank,cash,credit,investment" doc:"Account type"`
		BankName      string `json:"bank_name,omitempty" maxLength:"255" doc:"Bank name"`
		Description   string `json:"description,omitempty" doc:"Free-text description"`
		Status        string `json:"status" enum:"active,inactive" doc:"Account status"`
	}
}

type UpdateAccountOutput struct {
	Body *domain.TreasuryAccount
}

func RegisterAccountRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/accounts",
		Summary:     "List treasury accounts",
		Tags:        []string{"Accounts"},
	}, func(ctx context.Context, _ *struct{}) (*ListAccountsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		accounts, err := store.TreasuryAccounts().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list accounts", err)
		}

		return &ListAccountsOutput{Body: accounts}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/accounts/{id}",
		Summary:     "Get a treasury account by ID",
		Tags:        []string{"Accounts"},
	}, func(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		account, err := store.TreasuryAccounts().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("account not found")
			}
			return nil, huma.Error500InternalServerError("failed to get account", err)
		}

		return &GetAccountOutput{Body: account}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/accounts",
		Summary:     "Create a treasury account",
		Tags:        []string{"Accounts"},
	}, func(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		userID, _ := middleware.UserIDFromContext(ctx)

		balance, err := decimal.NewFromString(input.Body.Balance)
		if err != nil {
			return nil, huma.Error400BadRequest("balance must be a decimal string")
		}

		now := time.Now()
		account := &domain.TreasuryAccount{
			ID:            uuid.New(),
			TenantID:      tenantID,
			AccountName:   input.Body.AccountName,
			AccountNumber: input.Body.AccountNumber,
			AccountType:   domain.AccountType(input.Body.AccountType),
			BankName:      input.Body.BankName,
			Balance:       balance,
			Description:   input.Body.Description,
			Status:        domain.AccountStatus(input.Body.Status),
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := store.TreasuryAccounts().Create(ctx, account); err != nil {
			return nil, huma.Error500InternalServerError("failed to create account", err)
		}

		recordAccountActivity(ctx, store, "create_account", "Created treasury account "+account.AccountName)

		return &CreateAccountOutput{Body: account}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPut,
		Path:        "/accounts/{id}",
		Summary:     "Update a treasury account",
		Description: "Updates the mutable fields of an account. The balance is never changed by this operation.",
		Tags:        []string{"Accounts"},
	}, func(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		account := &domain.TreasuryAccount{
			ID:            input.ID,
			TenantID:      tenantID,
			AccountName:   input.Body.AccountName,
			AccountNumber: input.Body.AccountNumber,
			AccountType:   domain.AccountType(input.Body.AccountType),
			BankName:      input.Body.BankName,
			Description:   input.Body.Description,
			Status:        domain.AccountStatus(input.Body.Status),
		}

		if err := store.TreasuryAccounts().Update(ctx, account); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("account not found")
			}
			return nil, huma.Error500InternalServerError("failed to update account", err)
		}

		updated, err := store.TreasuryAccounts().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to reload account", err)
		}

		recordAccountActivity(ctx, store, "update_account", "Updated treasury account "+updated.AccountName)

		return &UpdateAccountOutput{Body: updated}, nil
	})
}

// recordAccountActivity appends an audit entry for an API mutation. Failures
// are logged and swallowed.
func recordAccountActivity(ctx context.Context, store DataStore, action, details string) {
	tenantID, _ := middleware.TenantIDFromContext(ctx)
	username, _ := middleware.UsernameFromContext(ctx)
	role, _ := middleware.RoleFromContext(ctx)

	entry := &domain.ActivityLogEntry{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Username:  username,
		UserRole:  role,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}

	if err := store.ActivityLogs().Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("api: activity record failed")
	}
}
