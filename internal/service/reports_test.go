package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	groceries := categoryID(t, ctx, st, "Groceries")
	income := categoryID(t, ctx, st, "Income")

	insertTx(t, ctx, st, "Everyday", "2026-02-01", -3000, "WOOLWORTHS", groceries)
	insertTx(t, ctx, st, "Everyday", "2026-02-05", -2000, "COLES", groceries)
	insertTx(t, ctx, st, "Everyday", "2026-02-10", 100000, "SALARY", income)
	insertTx(t, ctx, st, "Everyday", "2026-02-11", -700, "MYSTERY", "")
	insertTx(t, ctx, st, "Everyday", "2026-03-01", -9999, "NEXT MONTH", groceries)

	svc := &ReportService{Transactions: st.transactions}
	sum, err := svc.Summary(ctx, MonthOf(day("2026-02-15")))
	require.NoError(t, err)
	require.Equal(t, 4, sum.Count)
	require.Equal(t, 1, sum.Uncategorised)
	require.Equal(t, int64(100000-3000-2000-700), sum.NetCents)
	require.Len(t, sum.Totals, 3)

	require.Equal(t, "Groceries", sum.Totals[0].CategoryName)
	require.Equal(t, int64(-5000), sum.Totals[0].TotalCents)
	require.Equal(t, "", sum.Totals[1].CategoryID)
	require.Equal(t, "Income", sum.Totals[2].CategoryName)

	require.Len(t, sum.Daily, 28)
	require.Equal(t, int64(3000), sum.Daily[0].SpendCents)
	require.Equal(t, int64(0), sum.Daily[1].SpendCents)
	require.Equal(t, int64(2000), sum.Daily[4].SpendCents)
	require.Equal(t, int64(0), sum.Daily[9].SpendCents)
	require.Equal(t, int64(700), sum.Daily[10].SpendCents)
	require.Equal(t, "2026-02-28", sum.Daily[27].Day.Format("2006-01-02"))
}

func TestSummaryLongRangeSkipsDaily(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	insertTx(t, ctx, st, "Everyday", "2026-02-01", -3000, "WOOLWORTHS", "")

	svc := &ReportService{Transactions: st.transactions}
	sum, err := svc.Summary(ctx, DateRange{From: day("2020-01-01"), To: day("2026-12-31")})
	require.NoError(t, err)
	require.Equal(t, 1, sum.Count)
	require.Empty(t, sum.Daily)
}
