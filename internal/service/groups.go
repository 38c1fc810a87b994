package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cattrack/cattrack/internal/database/repository"
)

// ErrRangeRequired is returned when a report needs both ends of its range.
var ErrRangeRequired = errors.New("both from and to dates are required")

// Group is a category group with its category names resolved.
type Group struct {
	repository.CategoryGroup
	Categories []string
}

// WeekTotal is the net amount of one week starting on Wednesday.
type WeekTotal struct {
	Start      time.Time
	TotalCents int64
}

// GroupService manages category groups and their weekly totals.
type GroupService struct {
	Groups       *repository.GroupRepo
	Categories   *repository.CategoryRepo
	Transactions *repository.TransactionRepo
}

// Save creates the named group or replaces the categories of an existing one.
func (s *GroupService) Save(ctx context.Context, name string, categories []string) (Group, error) {
	ids, err := categoryIDs(ctx, s.Categories, categories)
	if err != nil {
		return Group{}, err
	}
	g := repository.CategoryGroup{ID: uuid.NewString(), Name: name, CategoryIDs: ids}
	existing, err := s.Groups.ByName(ctx, name)
	switch {
	case err == nil:
		g.ID, g.Name = existing.ID, existing.Name
	case !errors.Is(err, repository.ErrNotFound):
		return Group{}, err
	}
	if err := s.Groups.Upsert(ctx, g); err != nil {
		return Group{}, err
	}
	names, err := categoryNames(ctx, s.Categories)
	if err != nil {
		return Group{}, err
	}
	return withCategoryNames(g, names), nil
}

func (s *GroupService) Remove(ctx context.Context, name string) error {
	g, err := s.Groups.ByName(ctx, name)
	if err != nil {
		return fmt.Errorf("group %q: %w", name, err)
	}
	return s.Groups.Delete(ctx, g.ID)
}

// List returns every group ordered by name.
func (s *GroupService) List(ctx context.Context) ([]Group, error) {
	groups, err := s.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	names, err := categoryNames(ctx, s.Categories)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, withCategoryNames(g, names))
	}
	return out, nil
}

// WeeklySummary totals the group's transactions in r by week. Weeks start on
// Wednesday and run from the first week with a transaction to the last, with
// empty weeks in between reported as zero. A group without categories or
// transactions has no weeks.
func (s *GroupService) WeeklySummary(ctx context.Context, name string, r DateRange) ([]WeekTotal, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return nil, ErrRangeRequired
	}
	if r.To.Before(r.From) {
		return nil, fmt.Errorf("range %s is backwards", r)
	}
	g, err := s.Groups.ByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}
	if len(g.CategoryIDs) == 0 {
		return nil, nil
	}
	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{From: r.From, To: r.To, CategoryIDs: g.CategoryIDs})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}

	totals := make(map[string]int64)
	first, last := weekStart(txs[0].When), weekStart(txs[0].When)
	for _, tx := range txs {
		w := weekStart(tx.When)
		totals[w.Format(time.DateOnly)] += tx.AmountCents
		if w.Before(first) {
			first = w
		}
		if w.After(last) {
			last = w
		}
	}
	var out []WeekTotal
	for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
		out = append(out, WeekTotal{Start: w, TotalCents: totals[w.Format(time.DateOnly)]})
	}
	return out, nil
}

// weekStart is the Wednesday on or before day.
func weekStart(day time.Time) time.Time {
	back := (int(day.Weekday()) - int(time.Wednesday) + 7) % 7
	return day.AddDate(0, 0, -back)
}

func withCategoryNames(g repository.CategoryGroup, names map[string]string) Group {
	out := Group{CategoryGroup: g}
	for _, id := range g.CategoryIDs {
		out.Categories = append(out.Categories, names[id])
	}
	return out
}
