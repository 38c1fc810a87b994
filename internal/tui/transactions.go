package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/shell"
)

const (
	uncategorisedLabel = "[uncategorised]"
	// UncategorisedPath opens the transactions list filtered to
	// uncategorised rows.
	UncategorisedPath = shell.TransactionsPath + "/uncategorised"
	// suggestionLimit is how many suggestions lead the category picker.
	suggestionLimit = 3
)

type transactionKeys struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Filter   key.Binding
	Uncat    key.Binding
	Pick     key.Binding
	Apply    key.Binding
	Cancel   key.Binding
}

var txKeys = transactionKeys{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
	PrevPage: key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Uncat:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "uncategorised")),
	Pick:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
	Apply:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

type pickerOption struct {
	label      string
	categoryID *string
}

// picker is the category chooser for one transaction.
type picker struct {
	tx      repository.Transaction
	options []pickerOption
	cursor  int
}

type transactionsRoute struct {
	ctx      context.Context
	deps     Deps
	fmt      formatter
	pageSize int

	items  []repository.Transaction
	total  int
	page   int
	cursor int
	seq    int

	search        string
	uncategorised bool
	filtering     bool
	input         textinput.Model

	categories []repository.Category
	names      map[string]string
	picker     *picker
}

func newTransactions(ctx context.Context, deps Deps, f formatter, pageSize int) *transactionsRoute {
	if pageSize <= 0 {
		pageSize = 100
	}
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "description"
	in.CharLimit = 64
	return &transactionsRoute{
		ctx:      ctx,
		deps:     deps,
		fmt:      f,
		pageSize: pageSize,
		input:    in,
		names:    map[string]string{},
	}
}

// Capturing is true while the filter input or the category picker is open.
func (t *transactionsRoute) Capturing() bool {
	return t.filtering || t.picker != nil
}

func (t *transactionsRoute) Init() tea.Cmd {
	return t.loadCategories()
}

// Activate reloads the current page. The uncategorised child path turns the
// uncategorised filter on.
func (t *transactionsRoute) Activate(path string) tea.Cmd {
	if path == UncategorisedPath && !t.uncategorised {
		t.uncategorised = true
		t.page = 0
	}
	return t.loadPage()
}

func (t *transactionsRoute) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case pageMsg:
		if m.seq != t.seq {
			return nil
		}
		t.items, t.total = m.items, m.total
		if t.cursor >= len(t.items) {
			t.cursor = max(len(t.items)-1, 0)
		}
	case categoriesMsg:
		t.categories = []repository.Category(m)
		t.names = make(map[string]string, len(t.categories))
		for _, c := range t.categories {
			t.names[c.ID] = c.Name
		}
	case suggestionsMsg:
		if t.picker != nil && t.picker.tx.ID == m.txID {
			t.picker.options = t.pickerOptions(m)
			t.picker.cursor = 0
		}
	case categoryAppliedMsg:
		status := "category updated"
		if m.categoryID == nil {
			status = "category cleared"
		}
		return tea.Batch(t.loadPage(), func() tea.Msg { return shell.StatusMsg{Text: status} })
	case tea.KeyMsg:
		return t.handleKey(m)
	}
	return nil
}

func (t *transactionsRoute) handleKey(m tea.KeyMsg) tea.Cmd {
	if t.picker != nil {
		return t.handlePickerKey(m)
	}
	if t.filtering {
		return t.handleFilterKey(m)
	}
	switch {
	case key.Matches(m, txKeys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(m, txKeys.Down):
		if t.cursor < len(t.items)-1 {
			t.cursor++
		}
	case key.Matches(m, txKeys.NextPage):
		if (t.page+1)*t.pageSize < t.total {
			t.page++
			t.cursor = 0
			return t.loadPage()
		}
	case key.Matches(m, txKeys.PrevPage):
		if t.page > 0 {
			t.page--
			t.cursor = 0
			return t.loadPage()
		}
	case key.Matches(m, txKeys.Filter):
		t.filtering = true
		t.input.SetValue(t.search)
		t.input.CursorEnd()
		return t.input.Focus()
	case key.Matches(m, txKeys.Uncat):
		t.uncategorised = !t.uncategorised
		t.page, t.cursor = 0, 0
		return t.loadPage()
	case key.Matches(m, txKeys.Pick):
		if tx, ok := t.selected(); ok {
			t.picker = &picker{tx: tx}
			t.picker.options = t.pickerOptions(suggestionsMsg{txID: tx.ID})
			return t.loadSuggestions(tx)
		}
	case key.Matches(m, txKeys.Cancel):
		if t.search != "" {
			t.search = ""
			t.page, t.cursor = 0, 0
			return t.loadPage()
		}
	}
	return nil
}

func (t *transactionsRoute) handleFilterKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, txKeys.Apply):
		t.filtering = false
		t.input.Blur()
		t.search = strings.TrimSpace(t.input.Value())
		t.page, t.cursor = 0, 0
		return t.loadPage()
	case key.Matches(m, txKeys.Cancel):
		t.filtering = false
		t.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(m)
	return cmd
}

func (t *transactionsRoute) handlePickerKey(m tea.KeyMsg) tea.Cmd {
	p := t.picker
	switch {
	case key.Matches(m, txKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(m, txKeys.Down):
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case key.Matches(m, txKeys.Apply):
		if len(p.options) == 0 {
			return nil
		}
		opt := p.options[p.cursor]
		t.picker = nil
		return t.setCategory(p.tx.ID, opt.categoryID)
	case key.Matches(m, txKeys.Cancel):
		t.picker = nil
	}
	return nil
}

// pickerOptions lists suggestions first, then every category, then the
// option to clear the category.
func (t *transactionsRoute) pickerOptions(m suggestionsMsg) []pickerOption {
	var out []pickerOption
	for _, s := range m.suggestions {
		id := s.CategoryID
		out = append(out, pickerOption{label: fmt.Sprintf("%s (%d%%)", s.Name, s.Score), categoryID: &id})
	}
	for _, c := range t.categories {
		id := c.ID
		out = append(out, pickerOption{label: c.Name, categoryID: &id})
	}
	return append(out, pickerOption{label: "[none] clear category"})
}

func (t *transactionsRoute) selected() (repository.Transaction, bool) {
	if t.cursor < 0 || t.cursor >= len(t.items) {
		return repository.Transaction{}, false
	}
	return t.items[t.cursor], true
}

func (t *transactionsRoute) filters() repository.TransactionFilters {
	return repository.TransactionFilters{
		Search:        t.search,
		Uncategorised: t.uncategorised,
		Limit:         t.pageSize,
		Offset:        t.page * t.pageSize,
	}
}

func (t *transactionsRoute) loadPage() tea.Cmd {
	if t.deps.Transactions == nil {
		return nil
	}
	t.seq++
	seq, f := t.seq, t.filters()
	return func() tea.Msg {
		items, err := t.deps.Transactions.List(t.ctx, f)
		if err != nil {
			t.deps.logger().Error("list transactions", zap.Error(err))
			return failed(fmt.Errorf("list transactions: %w", err))
		}
		total, err := t.deps.Transactions.Count(t.ctx, f)
		if err != nil {
			return failed(fmt.Errorf("count transactions: %w", err))
		}
		return pageMsg{seq: seq, items: items, total: total}
	}
}

func (t *transactionsRoute) loadCategories() tea.Cmd {
	if t.deps.Categories == nil {
		return nil
	}
	return func() tea.Msg {
		cats, err := t.deps.Categories.List(t.ctx)
		if err != nil {
			return failed(fmt.Errorf("load categories: %w", err))
		}
		return categoriesMsg(cats)
	}
}

func (t *transactionsRoute) loadSuggestions(tx repository.Transaction) tea.Cmd {
	if t.deps.Suggester == nil {
		return nil
	}
	return func() tea.Msg {
		s, err := t.deps.Suggester.Suggest(t.ctx, tx.Description, suggestionLimit)
		if err != nil {
			t.deps.logger().Warn("suggest categories", zap.String("tx", tx.ID), zap.Error(err))
			return suggestionsMsg{txID: tx.ID}
		}
		return suggestionsMsg{txID: tx.ID, suggestions: s}
	}
}

func (t *transactionsRoute) setCategory(txID string, categoryID *string) tea.Cmd {
	return func() tea.Msg {
		if err := t.deps.Transactions.UpdateCategory(t.ctx, txID, categoryID); err != nil {
			return failed(fmt.Errorf("update category: %w", err))
		}
		return categoryAppliedMsg{txID: txID, categoryID: categoryID}
	}
}

func (t *transactionsRoute) categoryLabel(id *string) string {
	if id == nil {
		return uncategorisedLabel
	}
	if name, ok := t.names[*id]; ok && name != "" {
		return name
	}
	return *id
}

func (t *transactionsRoute) View(width, height int) string {
	var b strings.Builder

	header := fmt.Sprintf("%d transactions", t.total)
	if t.total > t.pageSize {
		pages := (t.total + t.pageSize - 1) / t.pageSize
		header += fmt.Sprintf("  page %d of %d", t.page+1, pages)
	}
	if t.uncategorised {
		header += "  uncategorised only"
	}
	if t.search != "" {
		header += fmt.Sprintf("  matching %q", t.search)
	}
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	if t.filtering {
		b.WriteString(t.input.View())
		b.WriteString("\n")
	}

	if len(t.items) == 0 {
		b.WriteString(dimStyle.Render("no transactions"))
		return b.String()
	}

	descWidth := 40
	if width > 0 {
		// marker, date, amount and category columns
		descWidth = min(max(width-len(t.fmt.dateFormat)-40, 12), 60)
	}
	rows := len(t.items)
	start := 0
	if height > 3 {
		visible := height - 3
		if t.cursor >= visible {
			start = t.cursor - visible + 1
		}
		rows = min(start+visible, len(t.items))
	}
	for i := start; i < rows; i++ {
		tx := t.items[i]
		marker := " "
		if i == t.cursor {
			marker = "▶"
		}
		line := fmt.Sprintf("%s %s  %-*s  %12s  %s",
			marker,
			t.fmt.date(tx.When),
			descWidth, truncate(tx.Description, descWidth),
			t.fmt.money(tx.AmountCents),
			t.categoryLabel(tx.CategoryID))
		if i == t.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if t.picker != nil {
		b.WriteString("\n")
		b.WriteString(t.renderPicker())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *transactionsRoute) renderPicker() string {
	p := t.picker
	var b strings.Builder
	b.WriteString(titleStyle.Render("Category for " + truncate(p.tx.Description, 40)))
	b.WriteString("\n")
	for i, opt := range p.options {
		marker := " "
		if i == p.cursor {
			marker = "▶"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, opt.label)
	}
	b.WriteString(dimStyle.Render("[enter] select  [esc] cancel"))
	return pickerStyle.Render(b.String())
}
