package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoney renders an amount stored in minor units (cents) with two decimals.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseMoneyToCents parses "12.50", "12,50" or "12" into minor units.
func ParseMoneyToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("invalid money amount")
	}
	whole, frac, found := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money amount %q", s)
	}
	if !found {
		return w * 100, nil
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money amount %q", s)
	}
	if w < 0 {
		return -((-w)*100 + f), nil
	}
	return w*100 + f, nil
}
