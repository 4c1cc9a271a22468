package utils

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		150:   "1.50",
		30000: "300.00",
		-1250: "-12.50",
	}
	for cents, want := range cases {
		if got := FormatMoney(cents); got != want {
			t.Errorf("FormatMoney(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestParseMoneyToCents(t *testing.T) {
	cases := map[string]int64{
		"12.50":  1250,
		"12,50":  1250,
		"12":     1200,
		" 0.05 ": 5,
		"300":    30000,
	}
	for in, want := range cases {
		got, err := ParseMoneyToCents(in)
		if err != nil {
			t.Errorf("ParseMoneyToCents(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMoneyToCents(%q) = %d, want %d", in, got, want)
		}
	}

	for _, bad := range []string{"", "abc", "1.2.3"} {
		if _, err := ParseMoneyToCents(bad); err == nil {
			t.Errorf("ParseMoneyToCents(%q) expected error", bad)
		}
	}
}
