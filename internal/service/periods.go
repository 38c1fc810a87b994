package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
)

// ErrUnanchorable is returned when an anchor date is less than a year old.
var ErrUnanchorable = errors.New("unable to anchor periods")

// maxPeriods bounds range generation for very old anchors.
const maxPeriods = 10000

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	d := database.Today(t)
	return !d.Before(r.From) && !d.After(r.To)
}

// Days counts the days in r, both ends included.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.From.Format(time.DateOnly) + " to " + r.To.Format(time.DateOnly)
}

// Ranges returns the consecutive ranges of def covering the last year up to
// and including the range that contains today.
func Ranges(def repository.PeriodDefinition, today time.Time) ([]DateRange, error) {
	if !def.Frequency.Valid() {
		return nil, fmt.Errorf("period %q: unknown frequency %q", def.Label, def.Frequency)
	}
	today = database.Today(today)
	window := today.AddDate(-1, 0, 0)

	base := alignStart(def.Frequency, window)
	if def.AnchorDate != nil {
		base = database.Today(*def.AnchorDate)
		if base.After(window) {
			return nil, fmt.Errorf("%w: %s anchor %s is within a year of %s", ErrUnanchorable,
				def.Label, base.Format(time.DateOnly), today.Format(time.DateOnly))
		}
	}

	var out []DateRange
	for i := 0; i < maxPeriods; i++ {
		start := advance(def.Frequency, base, i)
		if start.After(today) {
			break
		}
		r := DateRange{From: start, To: advance(def.Frequency, base, i+1).AddDate(0, 0, -1)}
		if r.To.Before(window) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Current is the range containing today.
func Current(def repository.PeriodDefinition, today time.Time) (DateRange, error) {
	return nthFromEnd(def, today, 1)
}

// Previous is the range before Current.
func Previous(def repository.PeriodDefinition, today time.Time) (DateRange, error) {
	return nthFromEnd(def, today, 2)
}

func nthFromEnd(def repository.PeriodDefinition, today time.Time, n int) (DateRange, error) {
	ranges, err := Ranges(def, today)
	if err != nil {
		return DateRange{}, err
	}
	if len(ranges) < n {
		return DateRange{}, fmt.Errorf("period %q: only %d ranges", def.Label, len(ranges))
	}
	return ranges[len(ranges)-n], nil
}

func alignStart(f repository.Frequency, t time.Time) time.Time {
	y, m, d := t.Date()
	switch f {
	case repository.FrequencyWeekly, repository.FrequencyFortnightly:
		back := (int(t.Weekday()) + 6) % 7 // days since Monday
		return time.Date(y, m, d-back, 0, 0, 0, 0, time.UTC)
	case repository.FrequencyQuarterly:
		return time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, time.UTC)
	case repository.FrequencyAnnual:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

func advance(f repository.Frequency, base time.Time, n int) time.Time {
	switch f {
	case repository.FrequencyWeekly:
		return base.AddDate(0, 0, 7*n)
	case repository.FrequencyFortnightly:
		return base.AddDate(0, 0, 14*n)
	case repository.FrequencyQuarterly:
		return addMonths(base, 3*n)
	case repository.FrequencyAnnual:
		return addMonths(base, 12*n)
	default:
		return addMonths(base, n)
	}
}

// addMonths clamps the day so Jan 31 + 1 month is the last day of February.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// PeriodOption is a selectable reporting window: the current or previous
// range of a period definition.
type PeriodOption struct {
	ID     string
	Label  string
	Offset int // 1 = current, 2 = previous
	Range  DateRange
}

// PeriodService lists period options from stored definitions.
type PeriodService struct {
	Periods *repository.PeriodRepo
	Logger  *zap.Logger
	Now     func() time.Time
}

// Options returns current and previous windows for every definition.
// Definitions that cannot produce ranges are logged and skipped.
func (s *PeriodService) Options(ctx context.Context) ([]PeriodOption, error) {
	defs, err := s.Periods.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	opts, errs := OptionsFor(defs, now())
	for _, err := range errs {
		if s.Logger != nil {
			s.Logger.Warn("skipping period definition", zap.Error(err))
		}
	}
	return opts, nil
}

// OptionsFor computes period options for today.
func OptionsFor(defs []repository.PeriodDefinition, today time.Time) ([]PeriodOption, []error) {
	var out []PeriodOption
	var errs []error
	for _, def := range defs {
		cur, err := Current(def, today)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, PeriodOption{ID: def.ID, Label: "Current " + def.Label, Offset: 1, Range: cur})
		prev, err := Previous(def, today)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, PeriodOption{ID: def.ID, Label: "Previous " + def.Label, Offset: 2, Range: prev})
	}
	return out, errs
}

// MonthOf is the fallback window when no period definitions exist.
func MonthOf(today time.Time) DateRange {
	start := alignStart(repository.FrequencyMonthly, database.Today(today))
	return DateRange{From: start, To: addMonths(start, 1).AddDate(0, 0, -1)}
}

// YearOf is the calendar year containing today.
func YearOf(today time.Time) DateRange {
	start := alignStart(repository.FrequencyAnnual, database.Today(today))
	return DateRange{From: start, To: start.AddDate(1, 0, -1)}
}
