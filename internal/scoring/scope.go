package scoring

import "clarity/internal/core"

// ResolveVisibleAccountIDs computes the set of account ids visible under
// an institution filter. An empty selection means everything is visible;
// an unknown institution id yields an empty set.
func ResolveVisibleAccountIDs(accounts []core.Account, selectedInstitutionID string) map[string]struct{} {
	visible := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		if selectedInstitutionID == "" || a.InstitutionID == selectedInstitutionID {
			visible[a.ID] = struct{}{}
		}
	}
	return visible
}

// FilterTransactions keeps transactions whose account is visible.
// Transactions pointing at unknown accounts are silently excluded.
func FilterTransactions(txns []core.Transaction, visible map[string]struct{}) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if _, ok := visible[t.AccountID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// FilterSubscriptions keeps subscriptions whose account is visible.
func FilterSubscriptions(subs []core.Subscription, visible map[string]struct{}) []core.Subscription {
	out := make([]core.Subscription, 0, len(subs))
	for _, s := range subs {
		if _, ok := visible[s.AccountID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// FilterAccounts keeps accounts in the visible set.
func FilterAccounts(accounts []core.Account, visible map[string]struct{}) []core.Account {
	out := make([]core.Account, 0, len(accounts))
	for _, a := range accounts {
		if _, ok := visible[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}
