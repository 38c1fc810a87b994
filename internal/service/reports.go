package service

import (
	"context"
	"time"

	"github.com/cattrack/cattrack/internal/database/repository"
)

// Summary is the dashboard view of one date range.
type Summary struct {
	Range         DateRange
	NetCents      int64
	Count         int
	Uncategorised int
	Totals        []repository.CategoryTotal
	// Daily has one entry per day of Range, zero on days without spend.
	// It is empty for ranges longer than maxDailyDays.
	Daily []repository.DayTotal
}

const maxDailyDays = 400

// ReportService builds summaries over transactions.
type ReportService struct {
	Transactions *repository.TransactionRepo
}

// Summary totals non-split transactions in r per category.
func (s *ReportService) Summary(ctx context.Context, r DateRange) (Summary, error) {
	out := Summary{Range: r}
	totals, err := s.Transactions.SumByCategory(ctx, r.From, r.To)
	if err != nil {
		return out, err
	}
	out.Totals = totals
	for _, t := range totals {
		out.NetCents += t.TotalCents
	}
	f := repository.TransactionFilters{From: r.From, To: r.To}
	if out.Count, err = s.Transactions.Count(ctx, f); err != nil {
		return out, err
	}
	f.Uncategorised = true
	if out.Uncategorised, err = s.Transactions.Count(ctx, f); err != nil {
		return out, err
	}
	if out.Daily, err = s.daily(ctx, r); err != nil {
		return out, err
	}
	return out, nil
}

func (s *ReportService) daily(ctx context.Context, r DateRange) ([]repository.DayTotal, error) {
	days := r.Days()
	if days <= 0 || days > maxDailyDays {
		return nil, nil
	}
	spend, err := s.Transactions.SpendByDay(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]int64, len(spend))
	for _, d := range spend {
		byDay[d.Day.Format(time.DateOnly)] = d.SpendCents
	}
	out := make([]repository.DayTotal, 0, days)
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		out = append(out, repository.DayTotal{Day: d, SpendCents: byDay[d.Format(time.DateOnly)]})
	}
	return out, nil
}
