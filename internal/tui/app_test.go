package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
	"github.com/cattrack/cattrack/internal/shell"
)

func shellUpdater(s *shell.Shell) updater {
	return func(msg tea.Msg) tea.Cmd {
		_, cmd := s.Update(msg)
		return cmd
	}
}

func TestAppStartsOnDashboard(t *testing.T) {
	s := New(context.Background(), testConfig(), depsFor(newFakeStore()))
	drain(shellUpdater(s), s.Init())
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	require.Equal(t, "CatTrack", s.Title())
	require.Equal(t, shell.DashboardPath, s.Current())
	require.True(t, s.IsActive(shell.Links[0]))

	view := s.View()
	require.Contains(t, view, "CatTrack")
	require.Contains(t, view, "Dashboard")
	require.Contains(t, view, "Transactions")
	require.Contains(t, view, "Net: $2444.70")
}

func TestAppNavigatesBetweenRoutes(t *testing.T) {
	s := New(context.Background(), testConfig(), depsFor(newFakeStore()))
	up := shellUpdater(s)
	drain(up, s.Init())

	drain(up, up(runes("2")))
	require.Equal(t, shell.TransactionsPath, s.Current())
	require.True(t, s.IsActive(shell.Links[1]))
	require.Contains(t, s.View(), "COLES 0423 SYDNEY")
	require.NotContains(t, s.View(), "Net:")

	drain(up, up(runes("g")))
	require.Equal(t, shell.DashboardPath, s.Current())
	require.Contains(t, s.View(), "Net:")
}

func TestAppFilterInputSwallowsNavKeys(t *testing.T) {
	s := New(context.Background(), testConfig(), depsFor(newFakeStore()))
	up := shellUpdater(s)
	drain(up, s.Init())
	drain(up, up(runes("2")))

	up(runes("/"))
	up(runes("1"))
	up(runes("q"))
	require.Equal(t, shell.TransactionsPath, s.Current())
	require.Contains(t, s.View(), "1q")
}

func TestAppCategoryChangeRefreshesDashboard(t *testing.T) {
	f := newFakeStore()
	s := New(context.Background(), testConfig(), depsFor(f))
	up := shellUpdater(s)
	drain(up, s.Init())
	drain(up, up(runes("2")))
	before := len(f.summaryRanges)

	up(runes("j"))
	drain(up, up(runes("c")))
	drain(up, up(tea.KeyMsg{Type: tea.KeyEnter}))

	require.Greater(t, len(f.summaryRanges), before)
	require.Equal(t, "category updated", s.Status().Text)
}

func TestAppStartRoute(t *testing.T) {
	cfg := testConfig()
	cfg.UI.StartRoute = UncategorisedPath
	s := New(context.Background(), cfg, depsFor(newFakeStore()))
	drain(shellUpdater(s), s.Init())

	require.Equal(t, UncategorisedPath, s.Current())
	require.True(t, s.IsActive(shell.Links[1]))
	require.Contains(t, s.View(), "uncategorised only")
}

func TestAppUnknownStartRoute(t *testing.T) {
	cfg := testConfig()
	cfg.UI.StartRoute = "/budgets"
	s := New(context.Background(), cfg, depsFor(newFakeStore()))
	drain(shellUpdater(s), s.Init())

	require.Empty(t, s.Current())
	require.ErrorIs(t, s.Status().Err, shell.ErrNoRoute)
}

func TestAppOverSQLite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Setup(ctx, filepath.Join(t.TempDir(), "cattrack.db"))
	require.NoError(t, err)
	defer db.Close()

	txs := repository.NewTransactionRepo(db)
	accounts := repository.NewAccountRepo(db)
	categories := repository.NewCategoryRepo(db)
	categoriser := &service.Categoriser{Transactions: txs, Categories: categories}
	ingest := &service.IngestService{Transactions: txs, Accounts: accounts}

	data := "date,description,amount\n" +
		"2026-10-03,WOOLWORTHS 1234,-56.10\n" +
		"2026-10-05,SALARY ACME,2500.00\n" +
		"2026-09-28,NETFLIX,-16.99\n"
	res, err := ingest.Import(ctx, strings.NewReader(data), service.ImportOptions{Format: service.FormatCSV, Account: "Everyday", Location: time.UTC})
	require.NoError(t, err)
	require.Equal(t, 3, res.Imported)

	now := func() time.Time { return day("2026-10-19") }
	deps := Deps{
		Reports:      &service.ReportService{Transactions: txs},
		Balances:     &service.BalanceService{Accounts: accounts, Balances: repository.NewBalanceRepo(db), Transactions: txs},
		Periods:      &service.PeriodService{Periods: repository.NewPeriodRepo(db), Now: now},
		Transactions: txs,
		Categories:   categories,
		Suggester:    categoriser,
		Now:          now,
	}
	cfg := testConfig()
	cfg.UI.PageSize = 50
	s := New(ctx, cfg, deps)
	up := shellUpdater(s)
	drain(up, s.Init())
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := s.View()
	require.Contains(t, view, "Current Month")
	require.Contains(t, view, "2026-10-01 to 2026-10-31")
	require.Contains(t, view, "Net: $2443.90")
	require.Contains(t, view, "Txns: 2  Uncategorised: 2")
	require.Contains(t, view, "Everyday")
	require.Contains(t, view, "$2426.91")

	drain(up, up(runes("2")))
	view = s.View()
	require.Contains(t, view, "3 transactions")
	require.Contains(t, view, "WOOLWORTHS 1234")
	require.Contains(t, view, "NETFLIX")
}
