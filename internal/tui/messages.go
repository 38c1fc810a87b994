package tui

import (
	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
	"github.com/cattrack/cattrack/internal/shell"
)

type periodsMsg []service.PeriodOption

// summaryMsg carries the sequence number of the load that produced it so
// stale results can be dropped.
type summaryMsg struct {
	seq     int
	summary service.Summary
}

// budgetsMsg is kept only while its range is the one on screen.
type budgetsMsg struct {
	rng   service.DateRange
	lines []service.BudgetLine
}

type balancesMsg []service.AccountBalance

type pageMsg struct {
	seq   int
	items []repository.Transaction
	total int
}

type categoriesMsg []repository.Category

type suggestionsMsg struct {
	txID        string
	suggestions []service.Suggestion
}

type categoryAppliedMsg struct {
	txID       string
	categoryID *string
}

func failed(err error) shell.StatusMsg {
	return shell.StatusMsg{Err: err}
}
