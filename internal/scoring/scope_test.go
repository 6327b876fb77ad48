package scoring

import (
	"testing"

	"clarity/internal/core"
)

func testAccounts() []core.Account {
	return []core.Account{
		{ID: "a", InstitutionID: "i1", Type: core.AccountChecking, Balance: core.Money{Cents: 100000}},
		{ID: "b", InstitutionID: "i2", Type: core.AccountSavings, Balance: core.Money{Cents: 50000}},
		{ID: "c", InstitutionID: "i1", Type: core.AccountCredit, Balance: core.Money{Cents: -25000}},
	}
}

func TestResolveVisibleAccountIDs(t *testing.T) {
	accounts := testAccounts()

	t.Run("no filter shows everything", func(t *testing.T) {
		visible := ResolveVisibleAccountIDs(accounts, "")
		if len(visible) != 3 {
			t.Fatalf("expected 3 visible, got %d", len(visible))
		}
	})

	t.Run("institution filter", func(t *testing.T) {
		visible := ResolveVisibleAccountIDs(accounts, "i1")
		if len(visible) != 2 {
			t.Fatalf("expected 2 visible, got %d", len(visible))
		}
		if _, ok := visible["b"]; ok {
			t.Fatal("account b belongs to i2, must not be visible")
		}
	})

	t.Run("unknown institution yields empty set", func(t *testing.T) {
		visible := ResolveVisibleAccountIDs(accounts, "nope")
		if len(visible) != 0 {
			t.Fatalf("expected empty set, got %d", len(visible))
		}
	})
}

func TestFilterTransactionsDropsOrphans(t *testing.T) {
	visible := ResolveVisibleAccountIDs(testAccounts(), "")
	txns := []core.Transaction{
		{ID: "t1", AccountID: "a"},
		{ID: "t2", AccountID: "deleted-account"},
		{ID: "t3", AccountID: "b"},
	}
	kept := FilterTransactions(txns, visible)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	for _, tx := range kept {
		if tx.ID == "t2" {
			t.Fatal("orphan transaction must be excluded")
		}
	}
}

func TestFilterSubscriptions(t *testing.T) {
	visible := ResolveVisibleAccountIDs(testAccounts(), "i2")
	subs := []core.Subscription{
		{ID: "s1", AccountID: "a", Status: core.SubscriptionActive},
		{ID: "s2", AccountID: "b", Status: core.SubscriptionActive},
	}
	kept := FilterSubscriptions(subs, visible)
	if len(kept) != 1 || kept[0].ID != "s2" {
		t.Fatalf("expected only s2, got %+v", kept)
	}
}
