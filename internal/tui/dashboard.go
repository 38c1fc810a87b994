package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cattrack/cattrack/internal/service"
)

type dashboardKeys struct {
	Prev    key.Binding
	Next    key.Binding
	Refresh key.Binding
}

var dashKeys = dashboardKeys{
	Prev:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev period")),
	Next:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next period")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
}

// topCategories bounds the spend list.
const topCategories = 8

type dashboardRoute struct {
	ctx  context.Context
	deps Deps
	fmt  formatter

	options  []service.PeriodOption
	selected int
	seq      int
	summary  *service.Summary
	budgets  budgetsMsg
	balances []service.AccountBalance
	loaded   bool
}

func newDashboard(ctx context.Context, deps Deps, f formatter) *dashboardRoute {
	return &dashboardRoute{ctx: ctx, deps: deps, fmt: f}
}

func (d *dashboardRoute) Init() tea.Cmd {
	return d.loadPeriods()
}

// Activate refreshes the selected period and balances on every visit.
func (d *dashboardRoute) Activate(string) tea.Cmd {
	if !d.loaded {
		return nil
	}
	return tea.Batch(d.loadPeriod(), d.loadBalances())
}

func (d *dashboardRoute) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case periodsMsg:
		d.options = []service.PeriodOption(m)
		if len(d.options) == 0 {
			d.options = []service.PeriodOption{{Label: "This month", Offset: 1, Range: service.MonthOf(d.deps.now())}}
		}
		d.selected = 0
		d.loaded = true
		return tea.Batch(d.loadPeriod(), d.loadBalances())
	case summaryMsg:
		if m.seq != d.seq {
			return nil
		}
		s := m.summary
		d.summary = &s
	case budgetsMsg:
		d.budgets = m
	case balancesMsg:
		d.balances = []service.AccountBalance(m)
	case categoryAppliedMsg:
		if d.loaded {
			return d.loadPeriod()
		}
	case tea.KeyMsg:
		return d.handleKey(m)
	}
	return nil
}

func (d *dashboardRoute) handleKey(m tea.KeyMsg) tea.Cmd {
	if len(d.options) == 0 {
		return nil
	}
	switch {
	case key.Matches(m, dashKeys.Prev):
		d.selected = (d.selected + len(d.options) - 1) % len(d.options)
		return d.loadPeriod()
	case key.Matches(m, dashKeys.Next):
		d.selected = (d.selected + 1) % len(d.options)
		return d.loadPeriod()
	case key.Matches(m, dashKeys.Refresh):
		return tea.Batch(d.loadPeriod(), d.loadBalances())
	}
	return nil
}

func (d *dashboardRoute) current() (service.PeriodOption, bool) {
	if d.selected < 0 || d.selected >= len(d.options) {
		return service.PeriodOption{}, false
	}
	return d.options[d.selected], true
}

func (d *dashboardRoute) loadPeriods() tea.Cmd {
	if d.deps.Periods == nil {
		return func() tea.Msg { return periodsMsg(nil) }
	}
	return func() tea.Msg {
		opts, err := d.deps.Periods.Options(d.ctx)
		if err != nil {
			d.deps.logger().Error("load periods", zap.Error(err))
			return failed(fmt.Errorf("load periods: %w", err))
		}
		return periodsMsg(opts)
	}
}

// loadPeriod loads everything shown for the selected period.
func (d *dashboardRoute) loadPeriod() tea.Cmd {
	return tea.Batch(d.loadSummary(), d.loadBudgets())
}

func (d *dashboardRoute) loadSummary() tea.Cmd {
	opt, ok := d.current()
	if !ok || d.deps.Reports == nil {
		return nil
	}
	d.seq++
	seq := d.seq
	return func() tea.Msg {
		s, err := d.deps.Reports.Summary(d.ctx, opt.Range)
		if err != nil {
			d.deps.logger().Error("load summary", zap.Stringer("range", opt.Range), zap.Error(err))
			return failed(fmt.Errorf("load summary: %w", err))
		}
		return summaryMsg{seq: seq, summary: s}
	}
}

func (d *dashboardRoute) loadBudgets() tea.Cmd {
	opt, ok := d.current()
	if !ok || d.deps.Budgets == nil {
		return nil
	}
	return func() tea.Msg {
		lines, err := d.deps.Budgets.Report(d.ctx, opt.Range)
		if err != nil {
			d.deps.logger().Error("load budgets", zap.Stringer("range", opt.Range), zap.Error(err))
			return failed(fmt.Errorf("load budgets: %w", err))
		}
		return budgetsMsg{rng: opt.Range, lines: lines}
	}
}

func (d *dashboardRoute) loadBalances() tea.Cmd {
	if d.deps.Balances == nil {
		return nil
	}
	return func() tea.Msg {
		b, err := d.deps.Balances.All(d.ctx)
		if err != nil {
			return failed(fmt.Errorf("load balances: %w", err))
		}
		return balancesMsg(b)
	}
}

func (d *dashboardRoute) View(width, height int) string {
	opt, ok := d.current()
	if !ok {
		return dimStyle.Render("loading…")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(opt.Label), dimStyle.Render(opt.Range.String()))
	if len(d.options) > 1 {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("period %d of %d  [ ] to change", d.selected+1, len(d.options))))
	}
	b.WriteString("\n")

	s := d.summary
	if s == nil || s.Range != opt.Range {
		b.WriteString(dimStyle.Render("loading summary…"))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "Net: %s\n", amountStyle(s.NetCents).Render(d.fmt.money(s.NetCents)))
		fmt.Fprintf(&b, "Txns: %d  Uncategorised: %d\n", s.Count, s.Uncategorised)

		b.WriteString("\nSpend by category:\n")
		n := 0
		for _, t := range s.Totals {
			if t.TotalCents >= 0 {
				continue
			}
			if n == topCategories {
				break
			}
			name := t.CategoryName
			if name == "" {
				name = uncategorisedLabel
			}
			fmt.Fprintf(&b, "  %-24s %12s\n", truncate(name, 24), d.fmt.money(-t.TotalCents))
			n++
		}
		if n == 0 {
			b.WriteString(dimStyle.Render("  no spending"))
			b.WriteString("\n")
		}
	}

	if d.budgets.rng == opt.Range && len(d.budgets.lines) > 0 {
		b.WriteString("\nBudgets:\n")
		for _, l := range d.budgets.lines {
			spent := amountStyle(l.Remaining()).Render(fmt.Sprintf("%12s", d.fmt.money(l.SpentCents)))
			fmt.Fprintf(&b, "  %-24s %s of %s\n", truncate(l.Name, 24), spent, d.fmt.money(l.BudgetCents))
		}
	}

	if len(d.balances) > 0 {
		b.WriteString("\nBalances:\n")
		for _, ab := range d.balances {
			fmt.Fprintf(&b, "  %-24s %12s\n", truncate(ab.Account.Name, 24), d.fmt.money(ab.BalanceCents))
		}
	}

	if s != nil && s.Range == opt.Range {
		if chart := spendChart(s.Daily, chartWidth(width)); chart != "" {
			b.WriteString("\nDaily spend:\n")
			b.WriteString(chart)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
