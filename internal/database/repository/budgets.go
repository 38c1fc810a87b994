package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BudgetRepo handles budget entries and their categories.
type BudgetRepo struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

// Upsert stores b and replaces its categories.
func (r *BudgetRepo) Upsert(ctx context.Context, b BudgetEntry) error {
	if b.ValidTo.Before(b.ValidFrom) {
		return fmt.Errorf("budget %s: valid to %s is before valid from %s", b.ID, b.ValidTo.Format(time.DateOnly), b.ValidFrom.Format(time.DateOnly))
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO budget_entries(id, amount, valid_from, valid_to)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 amount=excluded.amount,
	 valid_from=excluded.valid_from,
	 valid_to=excluded.valid_to;
	`, b.ID, b.AmountCents, b.ValidFrom, b.ValidTo); err != nil {
		return err
	}
	if err := budgetMembers.replace(ctx, tx, b.ID, b.CategoryIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BudgetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BudgetRepo) Get(ctx context.Context, id string) (BudgetEntry, error) {
	entries, err := r.query(ctx, ` WHERE id = ?`, "valid_to DESC", id)
	if err != nil {
		return BudgetEntry{}, err
	}
	if len(entries) == 0 {
		return BudgetEntry{}, ErrNotFound
	}
	return entries[0], nil
}

// List returns every entry, latest ending first.
func (r *BudgetRepo) List(ctx context.Context) ([]BudgetEntry, error) {
	return r.query(ctx, "", "valid_to DESC, amount DESC")
}

// ForDate returns the entries valid on day, largest first.
func (r *BudgetRepo) ForDate(ctx context.Context, day time.Time) ([]BudgetEntry, error) {
	return r.query(ctx, ` WHERE valid_from <= ? AND valid_to >= ?`, "amount DESC", day, day)
}

func (r *BudgetRepo) query(ctx context.Context, where, order string, args ...interface{}) ([]BudgetEntry, error) {
	out, err := r.scanEntries(ctx, `SELECT id, amount, valid_from, valid_to FROM budget_entries`+where+` ORDER BY `+order+`, created_at`, args...)
	if err != nil {
		return nil, err
	}
	// one connection: rows must be closed before the next query
	members, err := budgetMembers.load(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("budget categories: %w", err)
	}
	for i := range out {
		out[i].CategoryIDs = members[out[i].ID]
	}
	return out, nil
}

func (r *BudgetRepo) scanEntries(ctx context.Context, query string, args ...interface{}) ([]BudgetEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BudgetEntry
	for rows.Next() {
		var b BudgetEntry
		if err := rows.Scan(&b.ID, &b.AmountCents, &b.ValidFrom, &b.ValidTo); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
