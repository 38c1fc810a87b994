package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionFilters defines list filters. Split parents are always excluded.
type TransactionFilters struct {
	From          time.Time // inclusive; zero = open
	To            time.Time // inclusive; zero = open
	AccountID     string
	CategoryID    string
	CategoryIDs   []string // any of; nil = no filter
	Uncategorised bool
	Search        string // case-insensitive substring of description
	Limit         int
	Offset        int
}

func (f TransactionFilters) where() (string, []interface{}) {
	where := []string{"is_split = 0"}
	var args []interface{}
	if !f.From.IsZero() {
		where = append(where, "occurred_on >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where = append(where, "occurred_on <= ?")
		args = append(args, f.To)
	}
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.CategoryIDs != nil {
		if len(f.CategoryIDs) == 0 {
			where = append(where, "0")
		} else {
			where = append(where, "category_id IN (?"+strings.Repeat(", ?", len(f.CategoryIDs)-1)+")")
			for _, id := range f.CategoryIDs {
				args = append(args, id)
			}
		}
	}
	if f.Uncategorised {
		where = append(where, "category_id IS NULL")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, `description LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

const transactionColumns = "id, account_id, occurred_on, amount, description, category_id, is_split, split_from_id, source_hash, created_at"

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// Insert stores t. A repeated source hash returns ErrDuplicate.
func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, account_id, occurred_on, amount, description, category_id, is_split, split_from_id, source_hash, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, t.ID, t.AccountID, t.When, t.AmountCents, t.Description, t.CategoryID, t.IsSplit, t.SplitFromID, t.SourceHash)
	if isUnique(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TransactionRepo) UpdateCategory(ctx context.Context, id string, categoryID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET category_id = ? WHERE id = ?`, categoryID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns matching transactions, newest first.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	where, args := f.where()
	query := "SELECT " + transactionColumns + " FROM transactions" + where + " ORDER BY occurred_on DESC, created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Sum totals the amounts List would return without paging.
func (r *TransactionRepo) Sum(ctx context.Context, f TransactionFilters) (int64, error) {
	where, args := f.where()
	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(amount), 0) FROM transactions"+where, args...).Scan(&total)
	return total, err
}

// Count returns the number of rows List would return without paging.
func (r *TransactionRepo) Count(ctx context.Context, f TransactionFilters) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&n)
	return n, err
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (Transaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return t, err
}

// Split replaces the transaction with one child per category. The parts must
// sum exactly to the parent amount; the parent is kept but hidden.
func (r *TransactionRepo) Split(ctx context.Context, id string, parts map[string]int64) ([]Transaction, error) {
	parent, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if parent.IsSplit {
		return nil, fmt.Errorf("transaction %s already split", id)
	}
	var sum int64
	for _, cents := range parts {
		sum += cents
	}
	if len(parts) == 0 || sum != parent.AmountCents {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSplitMismatch, sum, parent.AmountCents)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	children := make([]Transaction, 0, len(parts))
	for categoryID, cents := range parts {
		cat := categoryID
		child := Transaction{
			ID:          uuid.NewString(),
			AccountID:   parent.AccountID,
			When:        parent.When,
			AmountCents: cents,
			Description: parent.Description,
			CategoryID:  &cat,
			SplitFromID: &parent.ID,
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions(id, account_id, occurred_on, amount, description, category_id, is_split, split_from_id, created_at)
		VALUES(?, ?, ?, ?, ?, ?, 0, ?, CURRENT_TIMESTAMP)`,
			child.ID, child.AccountID, child.When, child.AmountCents, child.Description, child.CategoryID, child.SplitFromID); err != nil {
			return nil, fmt.Errorf("insert split: %w", err)
		}
		children = append(children, child)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE transactions SET is_split = 1 WHERE id = ?`, parent.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return children, nil
}

// SumByCategory totals non-split transactions in [from, to] per category,
// most negative first.
func (r *TransactionRepo) SumByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT COALESCE(t.category_id, ''), COALESCE(c.name, ''), SUM(t.amount) AS total
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	WHERE t.is_split = 0 AND t.occurred_on >= ? AND t.occurred_on <= ?
	GROUP BY t.category_id
	ORDER BY total ASC;
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// SpendByDay sums outgoing non-split amounts per day in [from, to]. Days
// without spend are omitted.
func (r *TransactionRepo) SpendByDay(ctx context.Context, from, to time.Time) ([]DayTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT occurred_on, amount FROM transactions
	WHERE is_split = 0 AND amount < 0 AND occurred_on >= ? AND occurred_on <= ?
	ORDER BY occurred_on`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DayTotal
	for rows.Next() {
		var day time.Time
		var cents int64
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, err
		}
		day = day.UTC()
		if n := len(out); n > 0 && out[n-1].Day.Equal(day) {
			out[n-1].SpendCents -= cents
			continue
		}
		out = append(out, DayTotal{Day: day, SpendCents: -cents})
	}
	return out, rows.Err()
}

// SumSince totals an account's non-split transactions dated after since.
func (r *TransactionRepo) SumSince(ctx context.Context, accountID string, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(amount), 0) FROM transactions
	WHERE account_id = ? AND is_split = 0 AND occurred_on > ?`, accountID, since).Scan(&total)
	return total, err
}

// Labelled returns descriptions of categorised transactions.
func (r *TransactionRepo) Labelled(ctx context.Context) ([]Labelled, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT description, category_id FROM transactions WHERE category_id IS NOT NULL AND is_split = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Labelled
	for rows.Next() {
		var l Labelled
		if err := rows.Scan(&l.Description, &l.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var category, splitFrom, source sql.NullString
	if err := row.Scan(&t.ID, &t.AccountID, &t.When, &t.AmountCents, &t.Description,
		&category, &t.IsSplit, &splitFrom, &source, &t.CreatedAt); err != nil {
		return Transaction{}, err
	}
	if category.Valid {
		t.CategoryID = &category.String
	}
	if splitFrom.Valid {
		t.SplitFromID = &splitFrom.String
	}
	if source.Valid {
		t.SourceHash = &source.String
	}
	return t, nil
}
