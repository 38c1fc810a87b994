package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/database/repository"
)

func TestResetKeepsCategories(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	insertTx(t, ctx, st, "Everyday", "2026-02-01", -3000, "WOOLWORTHS", "")

	svc := &MaintenanceService{DB: st.db}
	require.NoError(t, svc.Reset(ctx, false))

	n, err := st.transactions.Count(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Zero(t, n)
	cats, err := st.categories.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	budgets := &BudgetService{Budgets: st.budgets, Categories: st.categories, Transactions: st.transactions}
	_, err = budgets.Add(ctx, 10000, YearOf(day("2026-02-01")), []string{"Groceries"})
	require.NoError(t, err)
	groups := &GroupService{Groups: st.groups, Categories: st.categories, Transactions: st.transactions}
	_, err = groups.Save(ctx, "Food", []string{"Groceries"})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, false))
	kept, err := st.budgets.List(ctx)
	require.NoError(t, err)
	require.Len(t, kept, 1)

	require.NoError(t, svc.Reset(ctx, true))
	cats, err = st.categories.List(ctx)
	require.NoError(t, err)
	require.Empty(t, cats)
	gone, err := st.budgets.List(ctx)
	require.NoError(t, err)
	require.Empty(t, gone)
	left, err := st.groups.List(ctx)
	require.NoError(t, err)
	require.Empty(t, left)
}
