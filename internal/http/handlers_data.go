package http

import (
	"errors"
	"net/http"
	"strings"

	"clarity/internal/core"
	applog "clarity/internal/log"
	"clarity/internal/storage"
)

// writeStoreError maps storage and validation errors onto HTTP codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, op+": not found")
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Storage operation failed", "operation", op, "error", err)
		respondError(w, http.StatusInternalServerError, op+" failed")
	}
}

// --- Institutions ---

type institutionRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListInstitutions(w http.ResponseWriter, r *http.Request) {
	institutions, err := s.ledger.ListInstitutions(r.Context())
	if err != nil {
		writeStoreError(w, r, "list institutions", err)
		return
	}
	respondJSON(w, http.StatusOK, institutions)
}

func (s *Server) handleUpsertInstitution(w http.ResponseWriter, r *http.Request) {
	var req institutionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	inst := core.Institution{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name)}
	if err := s.ledger.UpsertInstitution(r.Context(), inst); err != nil {
		if errors.Is(err, core.ErrEmptyID) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeStoreError(w, r, "upsert institution", err)
		return
	}

	s.invalidateViewCaches()
	respondJSON(w, http.StatusOK, inst)
}

// --- Accounts ---

type accountRequest struct {
	ID            string `json:"id"`
	InstitutionID string `json:"institutionId"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Balance       string `json:"balance"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListAccounts(r.Context())
	if err != nil {
		writeStoreError(w, r, "list accounts", err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleUpsertAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	balance, err := core.ParseDecimalToCents(req.Balance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid balance: "+req.Balance)
		return
	}

	account := core.Account{
		ID:            strings.TrimSpace(req.ID),
		InstitutionID: strings.TrimSpace(req.InstitutionID),
		Name:          strings.TrimSpace(req.Name),
		Type:          core.AccountType(req.Type),
		Balance:       core.Money{Cents: balance},
	}
	if err := account.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.UpsertAccount(r.Context(), account); err != nil {
		writeStoreError(w, r, "upsert account", err)
		return
	}

	s.invalidateViewCaches()
	respondJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, "delete account", err)
		return
	}
	s.invalidateViewCaches()
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Transactions ---

type transactionRequest struct {
	ID          string `json:"id"`
	AccountID   string `json:"accountId"`
	Date        string `json:"date"`
	Merchant    string `json:"merchant"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	IsRecurring bool   `json:"isRecurring"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, r, "list transactions", err)
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date: "+req.Date)
		return
	}
	amount, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	txn := core.Transaction{
		ID:          strings.TrimSpace(req.ID),
		AccountID:   strings.TrimSpace(req.AccountID),
		Date:        date,
		Merchant:    strings.TrimSpace(req.Merchant),
		Category:    strings.TrimSpace(req.Category),
		Amount:      core.Money{Cents: amount},
		Type:        core.TransactionType(req.Type),
		IsRecurring: req.IsRecurring,
	}
	if err := txn.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.CreateTransaction(r.Context(), txn); err != nil {
		writeStoreError(w, r, "create transaction", err)
		return
	}

	s.invalidateViewCaches()
	respondJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, "delete transaction", err)
		return
	}
	s.invalidateViewCaches()
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Subscriptions ---

type subscriptionRequest struct {
	ID             string `json:"id"`
	AccountID      string `json:"accountId"`
	Merchant       string `json:"merchant"`
	MonthlyCost    string `json:"monthlyCost"`
	LastChargeDate string `json:"lastChargeDate"`
	Status         string `json:"status"`
	Category       string `json:"category"`
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.ledger.ListSubscriptions(r.Context())
	if err != nil {
		writeStoreError(w, r, "list subscriptions", err)
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

func (s *Server) handleUpsertSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cost, err := core.ParseDecimalToCents(req.MonthlyCost)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid monthly cost: "+req.MonthlyCost)
		return
	}
	var lastCharge core.Date
	if req.LastChargeDate != "" {
		lastCharge, err = core.ParseDate(req.LastChargeDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid last charge date: "+req.LastChargeDate)
			return
		}
	}

	sub := core.Subscription{
		ID:             strings.TrimSpace(req.ID),
		AccountID:      strings.TrimSpace(req.AccountID),
		Merchant:       strings.TrimSpace(req.Merchant),
		MonthlyCost:    core.Money{Cents: cost},
		LastChargeDate: lastCharge,
		Status:         core.SubscriptionStatus(req.Status),
		Category:       strings.TrimSpace(req.Category),
	}
	if err := sub.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.UpsertSubscription(r.Context(), sub); err != nil {
		writeStoreError(w, r, "upsert subscription", err)
		return
	}

	s.invalidateViewCaches()
	respondJSON(w, http.StatusOK, sub)
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteSubscription(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, "delete subscription", err)
		return
	}
	s.invalidateViewCaches()
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Debts ---

type debtRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Balance        string   `json:"balance"`
	APR            *float64 `json:"apr"`
	MinimumPayment *string  `json:"minimumPayment"`
	DueDay         *int     `json:"dueDay"`
	Status         string   `json:"status"`
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.ledger.ListDebts(r.Context())
	if err != nil {
		writeStoreError(w, r, "list debts", err)
		return
	}
	respondJSON(w, http.StatusOK, debts)
}

func (s *Server) handleUpsertDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	balance, err := core.ParseDecimalToCents(req.Balance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid balance: "+req.Balance)
		return
	}
	var minPayment *core.Money
	if req.MinimumPayment != nil {
		cents, err := core.ParseDecimalToCents(*req.MinimumPayment)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid minimum payment: "+*req.MinimumPayment)
			return
		}
		minPayment = &core.Money{Cents: cents}
	}

	debt := core.Debt{
		ID:             strings.TrimSpace(req.ID),
		Name:           strings.TrimSpace(req.Name),
		Type:           strings.TrimSpace(req.Type),
		Balance:        core.Money{Cents: balance},
		APR:            req.APR,
		MinimumPayment: minPayment,
		DueDay:         req.DueDay,
		Status:         core.DebtStatus(req.Status),
	}
	if err := debt.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.UpsertDebt(r.Context(), debt); err != nil {
		writeStoreError(w, r, "upsert debt", err)
		return
	}

	respondJSON(w, http.StatusOK, debt)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteDebt(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, "delete debt", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
