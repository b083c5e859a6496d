package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

// accountForm is the typed boundary for the create/edit submissions. Values
// are validated here before anything reaches the data layer.
type accountForm struct {
	AccountID     string
	AccountName   string
	AccountNumber string
	AccountType   string
	BankName      string
	Balance       string
	Description   string
	Status        string
}

func parseAccountForm(r *http.Request) accountForm {
	return accountForm{
		AccountID:     strings.TrimSpace(r.PostFormValue("account_id")),
		AccountName:   strings.TrimSpace(r.PostFormValue("account_name")),
		AccountNumber: strings.TrimSpace(r.PostFormValue("account_number")),
		AccountType:   strings.TrimSpace(r.PostFormValue("account_type")),
		BankName:      strings.TrimSpace(r.PostFormValue("bank_name")),
		Balance:       strings.TrimSpace(r.PostFormValue("balance")),
		Description:   strings.TrimSpace(r.PostFormValue("description")),
		Status:        strings.TrimSpace(r.PostFormValue("status")),
	}
}

// validate checks the shared fields. The balance is only parsed for the
// create path; edits never carry a balance.
func (f accountForm) validate() string {
	if f.AccountName == "" {
		return "Account name is required."
	}
	if f.AccountNumber == "" {
		return "Account number is required."
	}
	if !domain.AccountType(f.AccountType).Valid() {
		return "Unknown account type."
	}
	if !domain.AccountStatus(f.Status).Valid() {
		return "Unknown account status."
	}
	return ""
}

type treasuryPageData struct {
	Username string
	Role     string
	Error    string
	Success  string
	Form     accountForm
	Accounts []*domain.TreasuryAccount
}

const accountLoadError = "Could not load treasury accounts. Please try again."

// HandleTreasury renders the account listing plus the create form.
func (h *Handlers) HandleTreasury(w http.ResponseWriter, r *http.Request) {
	data := h.treasuryData(r, treasuryPageData{})
	h.render(w, "treasury.html", data)
}

// HandleTreasuryPost dispatches the create/edit submission, then re-renders
// the full listing. The listing query runs regardless of how the mutation
// went; the two failures stay independent.
func (h *Handlers) HandleTreasuryPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "treasury.html", h.treasuryData(r, treasuryPageData{Error: "Invalid form submission."}))
		return
	}

	var data treasuryPageData

	switch r.PostFormValue("action") {
	case "add":
		data = h.createAccount(r)
	case "edit":
		data = h.updateAccount(r)
	default:
		data.Error = "Unknown action."
	}

	h.render(w, "treasury.html", h.treasuryData(r, data))
}

// treasuryData fills the listing and identity fields shared by every
// render of the treasury page.
func (h *Handlers) treasuryData(r *http.Request, data treasuryPageData) treasuryPageData {
	ctx := r.Context()
	tenantID, _ := middleware.TenantIDFromContext(ctx)
	data.Username, _ = middleware.UsernameFromContext(ctx)
	data.Role, _ = middleware.RoleFromContext(ctx)

	accounts, err := h.store.TreasuryAccounts().List(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("treasury: list failed")
		if data.Error == "" {
			data.Error = accountLoadError
		}
		return data
	}

	data.Accounts = accounts
	return data
}

func (h *Handlers) createAccount(r *http.Request) treasuryPageData {
	ctx := r.Context()
	tenantID, _ := middleware.TenantIDFromContext(ctx)
	userID, _ := middleware.UserIDFromContext(ctx)

	form := parseAccountForm(r)
	if msg := form.validate(); msg != "" {
		return treasuryPageData{Error: msg, Form: form}
	}

	balance, err := decimal.NewFromString(form.Balance)
	if err != nil {
		return treasuryPageData{Error: "Balance must be a number.", Form: form}
	}

	now := time.Now()
	account := &domain.TreasuryAccount{
		ID:            uuid.New(),
		TenantID:      tenantID,
		AccountName:   form.AccountName,
		AccountNumber: form.AccountNumber,
		AccountType:   domain.AccountType(form.AccountType),
		BankName:      form.BankName,
		Balance:       balance,
		Description:   form.Description,
		Status:        domain.AccountStatus(form.Status),
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.store.TreasuryAccounts().Create(ctx, account); err != nil {
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("treasury: create failed")
		return treasuryPageData{Error: "Could not create the account. Please try again.", Form: form}
	}

	h.recordActivity(r, "create_account", "Created treasury account "+form.AccountName)

	return treasuryPageData{Success: "Account created successfully."}
}

func (h *Handlers) updateAccount(r *http.Request) treasuryPageData {
	ctx := r.Context()
	tenantID, _ := middleware.TenantIDFromContext(ctx)

	form := parseAccountForm(r)

	accountID, err := uuid.Parse(form.AccountID)
	if err != nil {
		return treasuryPageData{Error: "Unknown account.", Form: form}
	}
	if msg := form.validate(); msg != "" {
		return treasuryPageData{Error: msg, Form: form}
	}

	// Balance is deliberately left zero: the repository never writes it on
	// update, so edits cannot change an account's balance.
	account := &domain.TreasuryAccount{
		ID:            accountID,
		TenantID:      tenantID,
		AccountName:   form.AccountName,
		AccountNumber: form.AccountNumber,
		AccountType:   domain.AccountType(form.AccountType),
		BankName:      form.BankName,
		Description:   form.Description,
		Status:        domain.AccountStatus(form.Status),
	}

	if err := h.store.TreasuryAccounts().Update(ctx, account); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return treasuryPageData{Error: "Account not found.", Form: form}
		}
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("treasury: update failed")
		return treasuryPageData{Error: "Could not update the account. Please try again.", Form: form}
	}

	h.recordActivity(r, "update_account", "Updated treasury account "+form.AccountName)

	return treasuryPageData{Success: "Account updated successfully."}
}

// recordActivity appends an audit entry for a completed mutation. Failures
// are logged and swallowed; auditing must not break the page.
func (h *Handlers) recordActivity(r *http.Request, action, details string) {
	ctx := r.Context()
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
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now(),
	}

	if err := h.store.ActivityLogs().Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("treasury: activity record failed")
	}
}
