package core

import (
	"testing"
)

func TestAccountValidate(t *testing.T) {
	good := Account{ID: "a1", InstitutionID: "i1", Name: "Everyday", Type: AccountChecking, Balance: Money{Cents: 100000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Credit accounts may carry a negative (owed) balance.
	credit := Account{ID: "a2", InstitutionID: "i1", Type: AccountCredit, Balance: Money{Cents: -45000}}
	if err := credit.Validate(); err != nil {
		t.Fatalf("expected ok for negative credit balance, got %v", err)
	}

	bads := []Account{
		{ID: "", InstitutionID: "i1", Type: AccountChecking},
		{ID: "a1", InstitutionID: "", Type: AccountChecking},
		{ID: "a1", InstitutionID: "i1", Type: AccountType("brokerage")},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:        "t1",
		Date:      NewDate(2025, 8, 15),
		Merchant:  "Corner Market",
		Category:  "Groceries",
		Amount:    Money{Cents: 4250},
		Type:      TxnExpense,
		AccountID: "a1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{ID: "", Date: NewDate(2025, 8, 15), Merchant: "m", Category: "c", Amount: Money{Cents: 1}, Type: TxnExpense, AccountID: "a"},
		{ID: "t", Date: Date{}, Merchant: "m", Category: "c", Amount: Money{Cents: 1}, Type: TxnExpense, AccountID: "a"},
		{ID: "t", Date: NewDate(2025, 8, 15), Merchant: "", Category: "c", Amount: Money{Cents: 1}, Type: TxnExpense, AccountID: "a"},
		{ID: "t", Date: NewDate(2025, 8, 15), Merchant: "m", Category: "", Amount: Money{Cents: 1}, Type: TxnExpense, AccountID: "a"},
		{ID: "t", Date: NewDate(2025, 8, 15), Merchant: "m", Category: "c", Amount: Money{Cents: -1}, Type: TxnExpense, AccountID: "a"},
		{ID: "t", Date: NewDate(2025, 8, 15), Merchant: "m", Category: "c", Amount: Money{Cents: 1}, Type: TransactionType("transfer"), AccountID: "a"},
		{ID: "t", Date: NewDate(2025, 8, 15), Merchant: "m", Category: "c", Amount: Money{Cents: 1}, Type: TxnExpense, AccountID: ""},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSubscriptionStatusBilling(t *testing.T) {
	cases := []struct {
		status  SubscriptionStatus
		billing bool
	}{
		{SubscriptionActive, true},
		{SubscriptionTrial, true},
		{SubscriptionCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.status.Billing(); got != tc.billing {
			t.Fatalf("%s: expected billing=%v, got %v", tc.status, tc.billing, got)
		}
	}
}

func TestDebtValidate(t *testing.T) {
	day := 15
	good := Debt{ID: "d1", Name: "Car loan", Type: "auto", Balance: Money{Cents: 1200000}, DueDay: &day, Status: DebtActive}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	badDay := 32
	bads := []Debt{
		{ID: "", Name: "x", Status: DebtActive},
		{ID: "d", Name: "", Status: DebtActive},
		{ID: "d", Name: "x", Status: DebtStatus("defaulted")},
		{ID: "d", Name: "x", Status: DebtActive, DueDay: &badDay},
	}
	for i, d := range bads {
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
