package core

import (
	"errors"
	"strings"
)

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
	AccountCredit   AccountType = "credit"
	AccountCD       AccountType = "cd"
)

const (
	TxnIncome  TransactionType = "income"
	TxnExpense TransactionType = "expense"
)

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

const (
	DebtActive  DebtStatus = "active"
	DebtPaused  DebtStatus = "paused"
	DebtPaidOff DebtStatus = "paid_off"
)

type (
	AccountType        string
	TransactionType    string
	SubscriptionStatus string
	DebtStatus         string

	// Institution groups accounts for scope filtering.
	Institution struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Account balances are signed: credit accounts carry the owed amount
	// as a negative balance.
	Account struct {
		ID            string      `json:"id"`
		InstitutionID string      `json:"institutionId"`
		Name          string      `json:"name"`
		Type          AccountType `json:"type"`
		Balance       Money       `json:"balanceCents"`
	}

	// Transaction amounts are always non-negative; the direction is
	// carried by Type.
	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Merchant    string          `json:"merchant"`
		Category    string          `json:"category"`
		Amount      Money           `json:"amountCents"`
		Type        TransactionType `json:"type"`
		AccountID   string          `json:"accountId"`
		IsRecurring bool            `json:"isRecurring"`
	}

	Subscription struct {
		ID             string             `json:"id"`
		Merchant       string             `json:"merchant"`
		MonthlyCost    Money              `json:"monthlyCostCents"`
		LastChargeDate Date               `json:"lastChargeDate"`
		Status         SubscriptionStatus `json:"status"`
		Category       string             `json:"category"`
		AccountID      string             `json:"accountId"`
	}

	// Debt is consumed by coaching rules, not by the score engine itself.
	Debt struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Type           string     `json:"type"`
		Balance        Money      `json:"balanceCents"`
		APR            *float64   `json:"apr"`
		MinimumPayment *Money     `json:"minimumPaymentCents"`
		DueDay         *int       `json:"dueDay"` // 1-31
		Status         DebtStatus `json:"status"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyID            = errors.New("empty id")
	ErrEmptyMerchant      = errors.New("empty merchant")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyAccountID     = errors.New("empty account id")
	ErrEmptyInstitutionID = errors.New("empty institution id")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidDueDay      = errors.New("invalid due day")
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountCD:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	return t == TxnIncome || t == TxnExpense
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrial, SubscriptionCancelled:
		return true
	}
	return false
}

// Billing reports whether the subscription still charges the user.
func (s SubscriptionStatus) Billing() bool {
	return s == SubscriptionActive || s == SubscriptionTrial
}

func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtActive, DebtPaused, DebtPaidOff:
		return true
	}
	return false
}

func (i Institution) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(a.InstitutionID) == "" {
		return ErrEmptyInstitutionID
	}
	if !a.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Merchant)) == 0 {
		return ErrEmptyMerchant
	}
	if len(t.Merchant) > 200 {
		return errors.New("merchant too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(s.Merchant)) == 0 {
		return ErrEmptyMerchant
	}
	if s.MonthlyCost.Cents < 0 {
		return ErrInvalidAmount
	}
	if !s.Status.IsValid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(s.AccountID) == "" {
		return ErrEmptyAccountID
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(d.Name)) == 0 {
		return errors.New("empty debt name")
	}
	if !d.Status.IsValid() {
		return ErrInvalidStatus
	}
	if d.DueDay != nil && (*d.DueDay < 1 || *d.DueDay > 31) {
		return ErrInvalidDueDay
	}
	return nil
}
