package memory

import (
	"context"
	"sync"

	"clarity/internal/core"
	ports "clarity/internal/sheets"
)

// Store is an in-memory transaction source used by tests and local runs.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	err   error
}

var _ ports.TransactionSource = (*Store)(nil)

func New(txns ...core.Transaction) *Store {
	s := &Store{}
	s.items = append(s.items, txns...)
	return s
}

// ReadTransactions returns a copy of the stored rows.
func (s *Store) ReadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := append([]core.Transaction(nil), s.items...)
	return out, nil
}

// Add appends rows to the store.
func (s *Store) Add(txns ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, txns...)
}

// FailWith makes every subsequent read return err.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
