package repository

import "time"

// Account represents an account row.
type Account struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Category represents a category row.
type Category struct {
	ID        string
	Name      string
	SortOrder int
}

// Transaction represents a transaction row. AmountCents is signed: negative
// values are spend.
type Transaction struct {
	ID          string
	AccountID   string
	When        time.Time
	AmountCents int64
	Description string
	CategoryID  *string
	IsSplit     bool
	SplitFromID *string
	SourceHash  *string
	CreatedAt   time.Time
}

// BalancePoint is a known account balance on a date.
type BalancePoint struct {
	ID           string
	AccountID    string
	RefDate      time.Time
	BalanceCents int64
}

// Frequency names how a period definition repeats.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyQuarterly   Frequency = "quarterly"
	FrequencyAnnual      Frequency = "annual"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// PeriodDefinition is a named repeating date range used for summaries.
type PeriodDefinition struct {
	ID         string
	Label      string
	Frequency  Frequency
	AnchorDate *time.Time
}

// CategoryTotal is the summed amount for one category over a range.
// CategoryID is empty for uncategorised transactions.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	TotalCents   int64
}

// DayTotal is the spend (as a positive amount) on one day.
type DayTotal struct {
	Day        time.Time
	SpendCents int64
}

// Labelled is a categorised description, used to train suggestions.
type Labelled struct {
	Description string
	CategoryID  string
}

// BudgetEntry is an amount to spend across a set of categories between
// ValidFrom and ValidTo inclusive.
type BudgetEntry struct {
	ID          string
	AmountCents int64
	ValidFrom   time.Time
	ValidTo     time.Time
	CategoryIDs []string
}

// CategoryGroup collects categories that are reported together.
type CategoryGroup struct {
	ID          string
	Name        string
	CategoryIDs []string
}
