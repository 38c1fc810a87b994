package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
	"github.com/cattrack/cattrack/internal/shell"
)

func newTestDashboard(f *fakeStore) *dashboardRoute {
	return newDashboard(context.Background(), depsFor(f), newFormatter(testConfig().UI))
}

func TestDashboardFallsBackToCurrentMonth(t *testing.T) {
	f := newFakeStore()
	f.totals = []repository.CategoryTotal{
		{CategoryID: "cat-groceries", CategoryName: "Groceries", TotalCents: -4250},
		{TotalCents: -1280},
		{CategoryID: "cat-income", CategoryName: "Income", TotalCents: 250000},
	}
	d := newTestDashboard(f)
	require.Equal(t, "loading…", d.View(80, 20))

	drain(d.Update, d.Init())

	require.Len(t, f.summaryRanges, 1)
	require.Equal(t, day("2026-10-01"), f.summaryRanges[0].From)
	require.Equal(t, day("2026-10-31"), f.summaryRanges[0].To)

	view := d.View(80, 20)
	require.Contains(t, view, "This month")
	require.Contains(t, view, "2026-10-01 to 2026-10-31")
	require.Contains(t, view, "Net: $2444.70")
	require.Contains(t, view, "Txns: 3  Uncategorised: 2")
	require.Contains(t, view, "Groceries")
	require.Contains(t, view, "$42.50")
	require.Contains(t, view, "[uncategorised]")
	require.NotContains(t, view, "Income")
}

func TestDashboardCyclesPeriods(t *testing.T) {
	f := newFakeStore()
	cur := service.DateRange{From: day("2026-10-01"), To: day("2026-10-31")}
	prev := service.DateRange{From: day("2026-09-01"), To: day("2026-09-30")}
	f.options = []service.PeriodOption{
		{ID: "m", Label: "Current Month", Offset: 1, Range: cur},
		{ID: "m", Label: "Previous Month", Offset: 2, Range: prev},
	}
	d := newTestDashboard(f)
	drain(d.Update, d.Init())
	require.Contains(t, d.View(80, 20), "Current Month")
	require.Contains(t, d.View(80, 20), "period 1 of 2")

	drain(d.Update, d.Update(runes("]")))
	require.Contains(t, d.View(80, 20), "Previous Month")
	require.Equal(t, prev, f.summaryRanges[len(f.summaryRanges)-1])
	require.Contains(t, d.View(80, 20), "Txns: 0")

	drain(d.Update, d.Update(runes("]")))
	require.Contains(t, d.View(80, 20), "Current Month", "cycling wraps")

	drain(d.Update, d.Update(runes("[")))
	require.Contains(t, d.View(80, 20), "Previous Month")
}

func TestDashboardDropsStaleSummaries(t *testing.T) {
	f := newFakeStore()
	f.options = []service.PeriodOption{
		{Label: "Current Month", Range: service.DateRange{From: day("2026-10-01"), To: day("2026-10-31")}},
		{Label: "Previous Month", Range: service.DateRange{From: day("2026-09-01"), To: day("2026-09-30")}},
	}
	d := newTestDashboard(f)
	drain(d.Update, d.Init())

	first := d.Update(runes("]"))
	second := d.Update(runes("]"))
	d.Update(second())
	d.Update(first())

	require.Contains(t, d.View(80, 20), "Current Month")
	require.Contains(t, d.View(80, 20), "Txns: 3")
}

func TestDashboardShowsBalances(t *testing.T) {
	f := newFakeStore()
	f.balances = []service.AccountBalance{
		{Account: repository.Account{ID: "a1", Name: "Everyday"}, BalanceCents: 123456},
	}
	d := newTestDashboard(f)
	drain(d.Update, d.Init())
	view := d.View(80, 20)
	require.Contains(t, view, "Balances:")
	require.Contains(t, view, "Everyday")
	require.Contains(t, view, "$1234.56")
}

func TestDashboardRefreshesOnActivate(t *testing.T) {
	f := newFakeStore()
	d := newTestDashboard(f)
	require.Nil(t, d.Activate(shell.DashboardPath), "nothing to refresh before periods load")

	drain(d.Update, d.Init())
	before := len(f.summaryRanges)
	drain(d.Update, d.Activate(shell.DashboardPath))
	require.Equal(t, before+1, len(f.summaryRanges))
}

type failingPeriods struct{}

func (failingPeriods) Options(context.Context) ([]service.PeriodOption, error) {
	return nil, errBoom
}

func TestDashboardReportsLoadErrors(t *testing.T) {
	deps := depsFor(newFakeStore())
	deps.Periods = failingPeriods{}
	d := newDashboard(context.Background(), deps, newFormatter(testConfig().UI))

	msgs := drain(d.Update, d.Init())
	require.Len(t, msgs, 1)
	status, ok := msgs[0].(shell.StatusMsg)
	require.True(t, ok)
	require.ErrorIs(t, status.Err, errBoom)
	require.Equal(t, "loading…", d.View(80, 20))
}

func TestDashboardIgnoresKeysBeforeLoad(t *testing.T) {
	d := newTestDashboard(newFakeStore())
	require.Nil(t, d.Update(runes("]")))
	require.Nil(t, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
}

type fakeBudgets struct {
	ranges []service.DateRange
	lines  []service.BudgetLine
}

func (b *fakeBudgets) Report(ctx context.Context, r service.DateRange) ([]service.BudgetLine, error) {
	b.ranges = append(b.ranges, r)
	return b.lines, nil
}

func TestDashboardShowsBudgets(t *testing.T) {
	f := newFakeStore()
	f.options = []service.PeriodOption{
		{Label: "Current Month", Range: service.DateRange{From: day("2026-10-01"), To: day("2026-10-31")}},
		{Label: "Previous Month", Range: service.DateRange{From: day("2026-09-01"), To: day("2026-09-30")}},
	}
	budgets := &fakeBudgets{lines: []service.BudgetLine{
		{Budget: service.Budget{Name: "Groceries, Restaurants"}, SpentCents: 4250, BudgetCents: 60000},
	}}
	deps := depsFor(f)
	deps.Budgets = budgets
	d := newDashboard(context.Background(), deps, newFormatter(testConfig().UI))
	drain(d.Update, d.Init())

	view := d.View(80, 30)
	require.Contains(t, view, "Budgets:")
	require.Contains(t, view, "Groceries, Restaurants")
	require.Contains(t, view, "$42.50 of $600.00")
	require.Equal(t, f.options[0].Range, budgets.ranges[0])

	// a budget load for another period is not shown against this one
	budgets.lines = nil
	drain(d.Update, d.Update(runes("]")))
	require.Equal(t, f.options[1].Range, budgets.ranges[len(budgets.ranges)-1])
	require.NotContains(t, d.View(80, 30), "Budgets:")
}
