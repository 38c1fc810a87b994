package tui

import (
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/cattrack/cattrack/internal/config"
	"github.com/cattrack/cattrack/internal/service"
)

type formatter struct {
	currency   string
	dateFormat string
}

func newFormatter(ui config.UIConfig) formatter {
	f := formatter{currency: ui.CurrencySymbol, dateFormat: ui.DateFormat}
	if f.dateFormat == "" {
		f.dateFormat = time.DateOnly
	}
	return f
}

func (f formatter) money(cents int64) string {
	return service.FormatMoney(f.currency, cents)
}

// date formats a stored calendar date. Dates are kept as UTC midnight, so
// they are never converted to another zone.
func (f formatter) date(t time.Time) string {
	return t.UTC().Format(f.dateFormat)
}

// truncate fits s into n cells. n <= 0 means no limit.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	return ansi.Truncate(s, n, "…")
}
