package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/database/repository"
)

func TestMonthlyRanges(t *testing.T) {
	def := repository.PeriodDefinition{Label: "Month", Frequency: repository.FrequencyMonthly}
	ranges, err := Ranges(def, day("2026-03-15"))
	require.NoError(t, err)
	require.Len(t, ranges, 13)

	for i := 1; i < len(ranges); i++ {
		require.Equal(t, ranges[i-1].To.AddDate(0, 0, 1), ranges[i].From, "ranges must be contiguous")
	}

	cur, err := Current(def, day("2026-03-15"))
	require.NoError(t, err)
	require.Equal(t, "2026-03-01 to 2026-03-31", cur.String())

	prev, err := Previous(def, day("2026-03-15"))
	require.NoError(t, err)
	require.Equal(t, "2026-02-01 to 2026-02-28", prev.String())
}

func TestWeeklyStartsMonday(t *testing.T) {
	def := repository.PeriodDefinition{Label: "Week", Frequency: repository.FrequencyWeekly}
	// 2026-03-15 is a Sunday
	cur, err := Current(def, day("2026-03-15"))
	require.NoError(t, err)
	require.Equal(t, "2026-03-09 to 2026-03-15", cur.String())
}

func TestQuarterlyAndAnnual(t *testing.T) {
	q := repository.PeriodDefinition{Label: "Quarter", Frequency: repository.FrequencyQuarterly}
	cur, err := Current(q, day("2026-05-20"))
	require.NoError(t, err)
	require.Equal(t, "2026-04-01 to 2026-06-30", cur.String())

	y := repository.PeriodDefinition{Label: "Year", Frequency: repository.FrequencyAnnual}
	prev, err := Previous(y, day("2026-05-20"))
	require.NoError(t, err)
	require.Equal(t, "2025-01-01 to 2025-12-31", prev.String())
}

func TestAnchoredFortnight(t *testing.T) {
	anchor := day("2024-01-04") // a pay day
	def := repository.PeriodDefinition{Label: "Pay", Frequency: repository.FrequencyFortnightly, AnchorDate: &anchor}

	cur, err := Current(def, day("2026-03-15"))
	require.NoError(t, err)
	require.True(t, cur.Contains(day("2026-03-15")))
	require.Equal(t, 0, int(cur.From.Sub(anchor).Hours()/24)%14)
	require.Equal(t, cur.From.AddDate(0, 0, 13), cur.To)
}

func TestAnchorTooRecent(t *testing.T) {
	anchor := day("2026-01-01")
	def := repository.PeriodDefinition{Label: "Pay", Frequency: repository.FrequencyFortnightly, AnchorDate: &anchor}
	_, err := Ranges(def, day("2026-03-15"))
	require.ErrorIs(t, err, ErrUnanchorable)
}

func TestAddMonthsClampsDay(t *testing.T) {
	require.Equal(t, day("2026-02-28"), addMonths(day("2026-01-31"), 1))
	require.Equal(t, day("2024-02-29"), addMonths(day("2023-11-30"), 3))
}

func TestOptionsFor(t *testing.T) {
	anchor := day("2026-01-01")
	defs := []repository.PeriodDefinition{
		{ID: "m", Label: "Month", Frequency: repository.FrequencyMonthly},
		{ID: "bad", Label: "Pay", Frequency: repository.FrequencyFortnightly, AnchorDate: &anchor},
	}
	opts, errs := OptionsFor(defs, day("2026-03-15"))
	require.Len(t, errs, 1)
	require.Len(t, opts, 2)
	require.Equal(t, "Current Month", opts[0].Label)
	require.Equal(t, 1, opts[0].Offset)
	require.Equal(t, "Previous Month", opts[1].Label)
	require.Equal(t, 2, opts[1].Offset)
}

func TestPeriodServiceUsesSeededDefinitions(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	svc := &PeriodService{Periods: st.periods, Now: func() time.Time { return day("2026-03-15") }}
	opts, err := svc.Options(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 6)
	require.Equal(t, "Current Month", opts[0].Label)
}

func TestMonthOf(t *testing.T) {
	require.Equal(t, "2026-02-01 to 2026-02-28", MonthOf(day("2026-02-10")).String())
}
