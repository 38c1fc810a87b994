package tui

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
)

type Reports interface {
	Summary(ctx context.Context, r service.DateRange) (service.Summary, error)
}

type Budgets interface {
	Report(ctx context.Context, r service.DateRange) ([]service.BudgetLine, error)
}

type Balances interface {
	All(ctx context.Context) ([]service.AccountBalance, error)
}

type Periods interface {
	Options(ctx context.Context) ([]service.PeriodOption, error)
}

type Transactions interface {
	List(ctx context.Context, f repository.TransactionFilters) ([]repository.Transaction, error)
	Count(ctx context.Context, f repository.TransactionFilters) (int, error)
	UpdateCategory(ctx context.Context, id string, categoryID *string) error
}

type Categories interface {
	List(ctx context.Context) ([]repository.Category, error)
}

type Suggester interface {
	Suggest(ctx context.Context, description string, limit int) ([]service.Suggestion, error)
}

// Deps are the stores and services the routes read from. Any of them may be
// swapped for a fake in tests.
type Deps struct {
	Reports      Reports
	Budgets      Budgets
	Balances     Balances
	Periods      Periods
	Transactions Transactions
	Categories   Categories
	Suggester    Suggester
	Logger       *zap.Logger
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
