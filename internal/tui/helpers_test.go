package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/goleak"

	"github.com/cattrack/cattrack/internal/config"
	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	goleak.VerifyTestMain(m)
}

var errBoom = errors.New("boom")

// fakeStore implements every Deps interface in memory.
type fakeStore struct {
	txs         []repository.Transaction
	cats        []repository.Category
	options     []service.PeriodOption
	balances    []service.AccountBalance
	suggestions []service.Suggestion
	totals      []repository.CategoryTotal
	daily       []repository.DayTotal

	summaryRanges []service.DateRange
	filters       []repository.TransactionFilters
	listErr       error
	updateErr     error
}

func (f *fakeStore) Summary(ctx context.Context, r service.DateRange) (service.Summary, error) {
	f.summaryRanges = append(f.summaryRanges, r)
	s := service.Summary{Range: r, Totals: f.totals, Daily: f.daily}
	for _, t := range f.txs {
		if t.IsSplit || !r.Contains(t.When) {
			continue
		}
		s.Count++
		s.NetCents += t.AmountCents
		if t.CategoryID == nil {
			s.Uncategorised++
		}
	}
	return s, nil
}

func (f *fakeStore) All(ctx context.Context) ([]service.AccountBalance, error) {
	return f.balances, nil
}

func (f *fakeStore) Options(ctx context.Context) ([]service.PeriodOption, error) {
	return f.options, nil
}

func (f *fakeStore) match(filter repository.TransactionFilters) []repository.Transaction {
	var out []repository.Transaction
	for _, t := range f.txs {
		if filter.Uncategorised && t.CategoryID != nil {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (f *fakeStore) List(ctx context.Context, filter repository.TransactionFilters) ([]repository.Transaction, error) {
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.match(filter)
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context, filter repository.TransactionFilters) (int, error) {
	return len(f.match(filter)), nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id string, categoryID *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.txs {
		if f.txs[i].ID == id {
			f.txs[i].CategoryID = categoryID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) Suggest(ctx context.Context, description string, limit int) ([]service.Suggestion, error) {
	return f.suggestions, nil
}

type fakeCategories []repository.Category

func (c fakeCategories) List(ctx context.Context) ([]repository.Category, error) {
	return c, nil
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func newFakeStore() *fakeStore {
	return &fakeStore{
		cats: []repository.Category{
			{ID: "cat-groceries", Name: "Groceries"},
			{ID: "cat-transport", Name: "Transport"},
		},
		txs: []repository.Transaction{
			{ID: "t1", AccountID: "a1", When: day("2026-10-12"), AmountCents: -4250, Description: "COLES 0423 SYDNEY", CategoryID: strPtr("cat-groceries")},
			{ID: "t2", AccountID: "a1", When: day("2026-10-10"), AmountCents: -1280, Description: "OPAL TRAVEL"},
			{ID: "t3", AccountID: "a1", When: day("2026-10-02"), AmountCents: 250000, Description: "SALARY ACME"},
		},
	}
}

func depsFor(f *fakeStore) Deps {
	return Deps{
		Reports:      f,
		Balances:     f,
		Periods:      f,
		Transactions: f,
		Categories:   fakeCategories(f.cats),
		Suggester:    f,
		Now:          func() time.Time { return day("2026-10-19") },
	}
}

func testConfig() config.Config {
	return config.Config{UI: config.UIConfig{
		DateFormat:     time.DateOnly,
		CurrencySymbol: "$",
		StartRoute:     "/dashboard",
		PageSize:       2,
	}}
}

// updater is a shell or a route.
type updater func(tea.Msg) tea.Cmd

// drain runs cmd and every command it produces, feeding each message to
// update. Commands run synchronously.
func drain(update updater, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			seen = append(seen, msg)
			queue = append(queue, update(msg))
		}
	}
	return seen
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
