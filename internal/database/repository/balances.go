package repository

import (
	"context"
	"database/sql"
	"errors"
)

// BalanceRepo handles balance points.
type BalanceRepo struct {
	db *sql.DB
}

func NewBalanceRepo(db *sql.DB) *BalanceRepo { return &BalanceRepo{db: db} }

// Upsert records a balance; one point per account and date.
func (r *BalanceRepo) Upsert(ctx context.Context, b BalancePoint) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO balance_points(id, account_id, ref_date, balance)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(account_id, ref_date) DO UPDATE SET balance=excluded.balance;
	`, b.ID, b.AccountID, b.RefDate, b.BalanceCents)
	return err
}

// Latest returns the most recent balance point for an account, or ErrNotFound.
func (r *BalanceRepo) Latest(ctx context.Context, accountID string) (BalancePoint, error) {
	var b BalancePoint
	err := r.db.QueryRowContext(ctx, `
	SELECT id, account_id, ref_date, balance FROM balance_points
	WHERE account_id = ? ORDER BY ref_date DESC LIMIT 1`, accountID).
		Scan(&b.ID, &b.AccountID, &b.RefDate, &b.BalanceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return BalancePoint{}, ErrNotFound
	}
	return b, err
}
