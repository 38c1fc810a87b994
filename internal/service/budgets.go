package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cattrack/cattrack/internal/database/repository"
)

// Budget is a stored entry with a display name built from its categories.
type Budget struct {
	repository.BudgetEntry
	Name string
}

// BudgetLine compares spend in a range with the budget pro-rated to it.
type BudgetLine struct {
	Budget
	// SpentCents is net spend in the budget's categories, positive when
	// money went out.
	SpentCents  int64
	BudgetCents int64
}

// Remaining is what is left to spend; negative when over budget.
func (l BudgetLine) Remaining() int64 { return l.BudgetCents - l.SpentCents }

// BudgetService manages budget entries and reports spend against them.
type BudgetService struct {
	Budgets      *repository.BudgetRepo
	Categories   *repository.CategoryRepo
	Transactions *repository.TransactionRepo
}

// Add stores a budget of amountCents for the named categories over valid.
func (s *BudgetService) Add(ctx context.Context, amountCents int64, valid DateRange, categories []string) (Budget, error) {
	if amountCents <= 0 {
		return Budget{}, errors.New("budget amount must be positive")
	}
	if valid.To.Before(valid.From) {
		return Budget{}, fmt.Errorf("budget range %s is backwards", valid)
	}
	ids, err := categoryIDs(ctx, s.Categories, categories)
	if err != nil {
		return Budget{}, err
	}
	if len(ids) == 0 {
		return Budget{}, repository.ErrNoCategories
	}
	e := repository.BudgetEntry{
		ID:          uuid.NewString(),
		AmountCents: amountCents,
		ValidFrom:   valid.From,
		ValidTo:     valid.To,
		CategoryIDs: ids,
	}
	if err := s.Budgets.Upsert(ctx, e); err != nil {
		return Budget{}, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return Budget{}, err
	}
	return named(e, names), nil
}

func (s *BudgetService) Remove(ctx context.Context, id string) error {
	return s.Budgets.Delete(ctx, id)
}

// List returns every budget, latest ending first.
func (s *BudgetService) List(ctx context.Context) ([]Budget, error) {
	entries, err := s.Budgets.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, entries)
}

// Report compares spend in r against the budgets valid on r.To, largest
// budget first.
func (s *BudgetService) Report(ctx context.Context, r DateRange) ([]BudgetLine, error) {
	entries, err := s.Budgets.ForDate(ctx, r.To)
	if err != nil {
		return nil, err
	}
	budgets, err := s.withNames(ctx, entries)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		line := BudgetLine{Budget: b, BudgetCents: prorate(b.BudgetEntry, r)}
		if len(b.CategoryIDs) > 0 {
			sum, err := s.Transactions.Sum(ctx, repository.TransactionFilters{From: r.From, To: r.To, CategoryIDs: b.CategoryIDs})
			if err != nil {
				return nil, fmt.Errorf("budget %s spend: %w", b.Name, err)
			}
			line.SpentCents = -sum
		}
		out = append(out, line)
	}
	return out, nil
}

// prorate scales the entry's amount by the length of r against the length
// of the entry's own range, rounding to the nearest cent.
func prorate(e repository.BudgetEntry, r DateRange) int64 {
	total := int64(DateRange{From: e.ValidFrom, To: e.ValidTo}.Days())
	days := int64(r.Days())
	if total <= 0 || days <= 0 {
		return 0
	}
	return (2*e.AmountCents*days + total) / (2 * total)
}

func (s *BudgetService) withNames(ctx context.Context, entries []repository.BudgetEntry) ([]Budget, error) {
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Budget, 0, len(entries))
	for _, e := range entries {
		out = append(out, named(e, names))
	}
	return out, nil
}

func (s *BudgetService) names(ctx context.Context) (map[string]string, error) {
	return categoryNames(ctx, s.Categories)
}

func named(e repository.BudgetEntry, names map[string]string) Budget {
	parts := make([]string, 0, len(e.CategoryIDs))
	for _, id := range e.CategoryIDs {
		parts = append(parts, names[id])
	}
	name := strings.Join(parts, ", ")
	if name == "" {
		name = "(no categories)"
	}
	return Budget{BudgetEntry: e, Name: name}
}

func categoryNames(ctx context.Context, repo *repository.CategoryRepo) (map[string]string, error) {
	cats, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cats))
	for _, c := range cats {
		out[c.ID] = c.Name
	}
	return out, nil
}

// categoryIDs resolves names case-insensitively, dropping repeats.
func categoryIDs(ctx context.Context, repo *repository.CategoryRepo, names []string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, n := range names {
		c, err := repo.ByName(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", n, err)
		}
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}
