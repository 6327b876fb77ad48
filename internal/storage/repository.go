package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clarity/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- Institutions ---

func (r *SQLiteRepository) UpsertInstitution(ctx context.Context, inst core.Institution) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO institutions (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		inst.ID, inst.Name)
	if err != nil {
		return fmt.Errorf("upsert institution: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListInstitutions(ctx context.Context) ([]core.Institution, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM institutions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	var out []core.Institution
	for rows.Next() {
		var inst core.Institution
		if err := rows.Scan(&inst.ID, &inst.Name); err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate institutions: %w", err)
	}
	return out, nil
}

// --- Accounts ---

func (r *SQLiteRepository) UpsertAccount(ctx context.Context, a core.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, institution_id, name, type, balance_cents)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			institution_id = excluded.institution_id,
			name = excluded.name,
			type = excluded.type,
			balance_cents = excluded.balance_cents`,
		a.ID, a.InstitutionID, a.Name, string(a.Type), a.Balance.Cents)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var a core.Account
	var accType string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, institution_id, name, type, balance_cents
		FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.InstitutionID, &a.Name, &accType, &a.Balance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	a.Type = core.AccountType(accType)
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, institution_id, name, type, balance_cents
		FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var accType string
		if err := rows.Scan(&a.ID, &a.InstitutionID, &a.Name, &accType, &a.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(accType)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete account %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, date, merchant, category, amount_cents, type, is_recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Date.ISO(), t.Merchant, t.Category, t.Amount.Cents, string(t.Type), boolToInt(t.IsRecurring))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, date, merchant, category, amount_cents, type, is_recurring
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, date, merchant, category, amount_cents, type, is_recurring
		FROM transactions ORDER BY date, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, txnType string
	var recurring int
	if err := row.Scan(&t.ID, &t.AccountID, &date, &t.Merchant, &t.Category, &t.Amount.Cents, &txnType, &recurring); err != nil {
		return core.Transaction{}, err
	}
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Date = parsed
	t.Type = core.TransactionType(txnType)
	t.IsRecurring = recurring != 0
	return t, nil
}

// --- Subscriptions ---

func (r *SQLiteRepository) UpsertSubscription(ctx context.Context, s core.Subscription) error {
	lastCharge := ""
	if !s.LastChargeDate.IsZero() {
		lastCharge = s.LastChargeDate.ISO()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, account_id, merchant, monthly_cost_cents, last_charge_date, status, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			merchant = excluded.merchant,
			monthly_cost_cents = excluded.monthly_cost_cents,
			last_charge_date = excluded.last_charge_date,
			status = excluded.status,
			category = excluded.category`,
		s.ID, s.AccountID, s.Merchant, s.MonthlyCost.Cents, lastCharge, string(s.Status), s.Category)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, merchant, monthly_cost_cents, last_charge_date, status, category
		FROM subscriptions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		var s core.Subscription
		var lastCharge, status string
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Merchant, &s.MonthlyCost.Cents, &lastCharge, &status, &s.Category); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if lastCharge != "" {
			parsed, err := core.ParseDate(lastCharge)
			if err != nil {
				return nil, fmt.Errorf("parse last charge date %q: %w", lastCharge, err)
			}
			s.LastChargeDate = parsed
		}
		s.Status = core.SubscriptionStatus(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete subscription %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Debts ---

func (r *SQLiteRepository) UpsertDebt(ctx context.Context, d core.Debt) error {
	var apr sql.NullFloat64
	if d.APR != nil {
		apr = sql.NullFloat64{Float64: *d.APR, Valid: true}
	}
	var minPayment sql.NullInt64
	if d.MinimumPayment != nil {
		minPayment = sql.NullInt64{Int64: d.MinimumPayment.Cents, Valid: true}
	}
	var dueDay sql.NullInt64
	if d.DueDay != nil {
		dueDay = sql.NullInt64{Int64: int64(*d.DueDay), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (id, name, type, balance_cents, apr, minimum_payment_cents, due_day, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			balance_cents = excluded.balance_cents,
			apr = excluded.apr,
			minimum_payment_cents = excluded.minimum_payment_cents,
			due_day = excluded.due_day,
			status = excluded.status`,
		d.ID, d.Name, d.Type, d.Balance.Cents, apr, minPayment, dueDay, string(d.Status))
	if err != nil {
		return fmt.Errorf("upsert debt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, balance_cents, apr, minimum_payment_cents, due_day, status
		FROM debts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		var d core.Debt
		var apr sql.NullFloat64
		var minPayment, dueDay sql.NullInt64
		var status string
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.Balance.Cents, &apr, &minPayment, &dueDay, &status); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if apr.Valid {
			v := apr.Float64
			d.APR = &v
		}
		if minPayment.Valid {
			m := core.Money{Cents: minPayment.Int64}
			d.MinimumPayment = &m
		}
		if dueDay.Valid {
			day := int(dueDay.Int64)
			d.DueDay = &day
		}
		d.Status = core.DebtStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete debt %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Score snapshots ---

// Snapshot is a persisted scoring result for one scope. An empty
// InstitutionID means the all-accounts scope.
type Snapshot struct {
	ID            int64
	InstitutionID string
	ClarityScore  int
	CashScore     int
	Payload       string
	TakenAt       time.Time
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, s Snapshot) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO score_snapshots (institution_id, clarity_score, cash_score, payload)
		VALUES (?, ?, ?, ?)`,
		s.InstitutionID, s.ClarityScore, s.CashScore, s.Payload)
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, institutionID string) (Snapshot, error) {
	var s Snapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, institution_id, clarity_score, cash_score, payload, taken_at
		FROM score_snapshots WHERE institution_id = ?
		ORDER BY taken_at DESC, id DESC LIMIT 1`, institutionID).
		Scan(&s.ID, &s.InstitutionID, &s.ClarityScore, &s.CashScore, &s.Payload, &s.TakenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("latest snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
