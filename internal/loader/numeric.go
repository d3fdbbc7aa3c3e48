package loader

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent rejects cells such as "1e20000000" whose arithmetic would
// expand to millions of digits.
const maxExponent = 64

// parseNumber parses a numeric cell. Blank cells parse as zero with
// blank=true. Thousands separators are ignored and a trailing percent sign
// divides by 100.
func parseNumber(raw string) (d decimal.Decimal, blank bool, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "nan" || s == "NaN" {
		return decimal.Zero, true, true
	}
	s = strings.ReplaceAll(s, ",", "")
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false, false
	}
	if percent {
		d = d.Shift(-2)
	}
	return d, false, true
}

// parseOptional parses an optional numeric cell. Blank cells are absent.
func parseOptional(raw string) (decimal.NullDecimal, bool) {
	d, blank, ok := parseNumber(raw)
	if !ok {
		return decimal.NullDecimal{}, false
	}
	if blank {
		return decimal.NullDecimal{}, true
	}
	return decimal.NewNullDecimal(d), true
}
