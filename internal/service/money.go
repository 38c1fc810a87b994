package service

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// ParseAmount parses a dollar amount such as "-1,234.50" or "$12" into cents.
func ParseAmount(s string) (int64, error) {
	return dollarsToCents(s)
}

// dollarsToCents rounds to the nearest cent, halves away from zero.
func dollarsToCents(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	clean = strings.Replace(clean, "$", "", 1)
	if !amountPattern.MatchString(clean) {
		return 0, fmt.Errorf("amount %q: not a decimal number", s)
	}
	r, ok := new(big.Rat).SetString(clean)
	if !ok {
		return 0, fmt.Errorf("amount %q: not a decimal number", s)
	}
	cents, err := ratToCents(r)
	if err != nil {
		return 0, fmt.Errorf("amount %q: out of range", s)
	}
	return cents, nil
}

func ratToCents(r *big.Rat) (int64, error) {
	scaled := new(big.Rat).Mul(r, big.NewRat(100, 1))
	return strconv.ParseInt(scaled.FloatString(0), 10, 64)
}

// FormatMoney renders cents with the symbol after the sign: -$12.34.
func FormatMoney(symbol string, cents int64) string {
	sign := ""
	u := uint64(cents)
	if cents < 0 {
		sign = "-"
		u = -u
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, u/100, u%100)
}
