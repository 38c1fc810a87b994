package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
)

// AccountBalance is an account with its derived balance.
type AccountBalance struct {
	Account      repository.Account
	BalanceCents int64
}

// DayBalance is an account balance at the end of one day.
type DayBalance struct {
	Day          time.Time
	BalanceCents int64
}

// BalanceService derives balances from the latest known balance point plus
// every non-split transaction after it.
type BalanceService struct {
	Accounts     *repository.AccountRepo
	Balances     *repository.BalanceRepo
	Transactions *repository.TransactionRepo
}

// Balance returns the current balance of one account. Without a balance
// point the account starts from zero.
func (s *BalanceService) Balance(ctx context.Context, accountID string) (int64, error) {
	var start int64
	var since time.Time
	bp, err := s.Balances.Latest(ctx, accountID)
	switch {
	case err == nil:
		start, since = bp.BalanceCents, bp.RefDate
	case errors.Is(err, repository.ErrNotFound):
	default:
		return 0, err
	}
	sum, err := s.Transactions.SumSince(ctx, accountID, since)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return start + sum, nil
}

// Daily returns end-of-day balances of one account from its latest balance
// point, or its first transaction when it has none, through the given day.
// Days without transactions carry the previous balance.
func (s *BalanceService) Daily(ctx context.Context, accountID string, through time.Time) ([]DayBalance, error) {
	through = database.Today(through)
	var (
		start   time.Time
		balance int64
		hasBase bool
	)
	bp, err := s.Balances.Latest(ctx, accountID)
	switch {
	case err == nil:
		start, balance, hasBase = bp.RefDate, bp.BalanceCents, true
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, err
	}
	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{AccountID: accountID, From: start, To: through})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if !hasBase {
		if len(txs) == 0 {
			return nil, nil
		}
		start = txs[len(txs)-1].When
	}
	if through.Before(start) {
		return nil, nil
	}

	byDay := make(map[string]int64)
	for _, tx := range txs {
		// the point already includes its own day
		if hasBase && !tx.When.After(start) {
			continue
		}
		byDay[tx.When.Format(time.DateOnly)] += tx.AmountCents
	}
	var out []DayBalance
	for d := start; !d.After(through); d = d.AddDate(0, 0, 1) {
		balance += byDay[d.Format(time.DateOnly)]
		out = append(out, DayBalance{Day: d, BalanceCents: balance})
	}
	return out, nil
}

// All returns balances for every account, ordered by name.
func (s *BalanceService) All(ctx context.Context) ([]AccountBalance, error) {
	accts, err := s.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountBalance, 0, len(accts))
	for _, a := range accts {
		cents, err := s.Balance(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("balance %s: %w", a.Name, err)
		}
		out = append(out, AccountBalance{Account: a, BalanceCents: cents})
	}
	return out, nil
}

// Record stores a known balance for an account at the end of day.
func (s *BalanceService) Record(ctx context.Context, accountID string, day time.Time, cents int64) error {
	if _, err := s.Accounts.Get(ctx, accountID); err != nil {
		return fmt.Errorf("account %s: %w", accountID, err)
	}
	return s.Balances.Upsert(ctx, repository.BalancePoint{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		RefDate:      database.Today(day),
		BalanceCents: cents,
	})
}
