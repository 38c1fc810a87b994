package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/config"
)

func TestMoney(t *testing.T) {
	f := newFormatter(config.UIConfig{CurrencySymbol: "$"})
	require.Equal(t, "$0.00", f.money(0))
	require.Equal(t, "$12.05", f.money(1205))
	require.Equal(t, "-$0.99", f.money(-99))
	require.Equal(t, "-$2500.00", f.money(-250000))
}

func TestDateStaysOnCalendarDay(t *testing.T) {
	f := newFormatter(config.UIConfig{DateFormat: "02/01/2006"})
	require.Equal(t, "12/10/2026", f.date(day("2026-10-12")))

	f = newFormatter(config.UIConfig{})
	require.Equal(t, "2026-10-12", f.date(day("2026-10-12").In(time.FixedZone("west", -10*3600))))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcd…", truncate("abcdefgh", 5))
	require.Equal(t, "…", truncate("abc", 1))
	require.Equal(t, "abc", truncate("abc", 0))
}
