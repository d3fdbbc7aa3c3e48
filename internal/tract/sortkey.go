package tract

import (
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// trailingNumber splits "Oram 10" into "Oram " and "10".
var trailingNumber = regexp.MustCompile(`^(.*?)(\d+)$`)

// SortKey is the composite ordering key of a tract id.
//
// Numeric ids sort before text ids and compare by value. Text ids compare by
// case-folded prefix, then by their trailing integer. The raw id breaks any
// remaining tie, so two keys compare equal only for identical ids.
type SortKey struct {
	raw     string
	numeric bool
	value   decimal.Decimal
	prefix  string
	// suffix holds the trailing digits without leading zeros
	suffix string
}

// Key builds the sort key of a tract id.
func Key(tract string) SortKey {
	k := SortKey{raw: tract}
	s := strings.TrimSpace(tract)
	if d, ok := parseNumber(s); ok {
		k.numeric = true
		k.value = d
		return k
	}
	prefix := s
	if m := trailingNumber.FindStringSubmatch(s); m != nil {
		prefix = m[1]
		k.suffix = strings.TrimLeft(m[2], "0")
	}
	k.prefix = cases.Fold().String(prefix)
	return k
}

// Compare orders two keys; it returns -1, 0 or +1.
func (k SortKey) Compare(o SortKey) int {
	if k.numeric != o.numeric {
		if k.numeric {
			return -1
		}
		return 1
	}
	if k.numeric {
		if c := k.value.Cmp(o.value); c != 0 {
			return c
		}
	} else {
		if c := strings.Compare(k.prefix, o.prefix); c != 0 {
			return c
		}
		if c := compareDigits(k.suffix, o.suffix); c != 0 {
			return c
		}
	}
	return strings.Compare(k.raw, o.raw)
}

// compareDigits compares two unsigned digit strings without leading zeros.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Compare orders two tract ids naturally.
func Compare(a, b string) int {
	return Key(a).Compare(Key(b))
}

// Less reports whether tract a sorts before tract b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort orders tract ids in place, naturally.
func Sort(tracts []string) {
	keys := make(map[string]SortKey, len(tracts))
	for _, t := range tracts {
		if _, ok := keys[t]; !ok {
			keys[t] = Key(t)
		}
	}
	slices.SortFunc(tracts, func(a, b string) int {
		return keys[a].Compare(keys[b])
	})
}

// Sorted returns a naturally ordered copy of tract ids.
func Sorted(tracts []string) []string {
	out := slices.Clone(tracts)
	Sort(out)
	return out
}
