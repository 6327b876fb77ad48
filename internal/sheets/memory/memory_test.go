package memory

import (
	"context"
	"errors"
	"testing"

	"clarity/internal/core"
)

func TestStoreReadTransactions(t *testing.T) {
	s := New(core.Transaction{
		ID:        "txn-1",
		Date:      core.NewDate(2025, 8, 1),
		Merchant:  "Coffee Shop",
		Category:  "Dining",
		Amount:    core.Money{Cents: 450},
		Type:      core.TxnExpense,
		AccountID: "acc-1",
	})
	s.Add(core.Transaction{
		ID:        "txn-2",
		Date:      core.NewDate(2025, 8, 2),
		Merchant:  "Employer Inc",
		Category:  "Salary",
		Amount:    core.Money{Cents: 250000},
		Type:      core.TxnIncome,
		AccountID: "acc-1",
	})

	txns, err := s.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	// Mutating the returned slice must not affect the store.
	txns[0].ID = "mutated"
	again, err := s.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if again[0].ID != "txn-1" {
		t.Fatalf("store was mutated through returned slice: %s", again[0].ID)
	}
}

func TestStoreFailWith(t *testing.T) {
	s := New()
	wantErr := errors.New("sheet unavailable")
	s.FailWith(wantErr)

	if _, err := s.ReadTransactions(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}
