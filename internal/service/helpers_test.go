package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
)

type testStore struct {
	db           *sql.DB
	transactions *repository.TransactionRepo
	accounts     *repository.AccountRepo
	categories   *repository.CategoryRepo
	balances     *repository.BalanceRepo
	periods      *repository.PeriodRepo
	budgets      *repository.BudgetRepo
	groups       *repository.GroupRepo
}

func setupStore(t *testing.T) (testStore, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Setup(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return testStore{
		db:           db,
		transactions: repository.NewTransactionRepo(db),
		accounts:     repository.NewAccountRepo(db),
		categories:   repository.NewCategoryRepo(db),
		balances:     repository.NewBalanceRepo(db),
		periods:      repository.NewPeriodRepo(db),
		budgets:      repository.NewBudgetRepo(db),
		groups:       repository.NewGroupRepo(db),
	}, ctx
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func categoryID(t *testing.T, ctx context.Context, st testStore, name string) string {
	t.Helper()
	c, err := st.categories.ByName(ctx, name)
	require.NoError(t, err)
	return c.ID
}

func insertTx(t *testing.T, ctx context.Context, st testStore, account, when string, cents int64, desc string, categoryID string) repository.Transaction {
	t.Helper()
	acct := repository.Account{ID: AccountID(account), Name: account}
	require.NoError(t, st.accounts.Upsert(ctx, acct))
	tx := repository.Transaction{
		ID:          desc + "|" + when + "|" + account,
		AccountID:   acct.ID,
		When:        day(when),
		AmountCents: cents,
		Description: desc,
	}
	if categoryID != "" {
		tx.CategoryID = &categoryID
	}
	require.NoError(t, st.transactions.Insert(ctx, tx))
	return tx
}
