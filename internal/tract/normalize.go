// Package tract canonicalizes tract identifiers and orders them naturally.
//
// Tract ids arrive from spreadsheets either as text ("Oram 2") or as numbers
// that a spreadsheet may render as "1.0". Every grouping and every join against
// a schedule goes through Normalize so that "1" and "1.0" are the same tract.
package tract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the exponent of numeric ids. Ids like "1e999" stay
// textual so that no huge integer is ever materialized.
const maxExponent = 64

// Normalize returns the canonical form of a raw tract identifier.
// Whitespace is trimmed and integral numeric ids are rewritten as plain
// integers ("1.0" -> "1", "01" -> "1"); everything else passes through trimmed.
// Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	d, ok := parseNumber(s)
	if !ok || !d.IsInteger() {
		return s
	}
	return d.String()
}

// parseNumber parses a numeric-looking id. Leading signs are only accepted on
// digits so that ids like "+A" stay textual, and exponents beyond maxExponent
// in either direction are rejected.
func parseNumber(s string) (decimal.Decimal, bool) {
	if !looksNumeric(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

func looksNumeric(s string) bool {
	digits := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '+' || r == '-':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return false
			}
		case r == '.' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return digits
}
