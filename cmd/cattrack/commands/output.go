package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/service"
)

func printTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// parseDay parses a YYYY-MM-DD flag. Empty means zero.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return database.Today(t), nil
}

// parseRange reads a --from/--to pair. Both or neither must be set; ok is
// false when neither is.
func parseRange(from, to string) (r service.DateRange, ok bool, err error) {
	if from == "" && to == "" {
		return service.DateRange{}, false, nil
	}
	if r.From, err = parseDay(from); err != nil {
		return r, false, err
	}
	if r.To, err = parseDay(to); err != nil {
		return r, false, err
	}
	if r.From.IsZero() || r.To.IsZero() {
		return r, false, errors.New("need both --from and --to")
	}
	if r.To.Before(r.From) {
		return r, false, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return r, true, nil
}
