package workbook

import "fmt"

// SheetMatcher picks a sheet from a workbook.
type SheetMatcher interface {
	// Describe names the rule for logs and errors
	Describe() string
	// Match returns the matching sheet name, if any
	Match(w Source) (string, bool)
}

// ExactName matches a sheet whose name equals Name exactly.
type ExactName struct{ Name string }

// Describe implements SheetMatcher.
func (m ExactName) Describe() string { return fmt.Sprintf("exact name %q", m.Name) }

// Match implements SheetMatcher.
func (m ExactName) Match(w Source) (string, bool) {
	for _, s := range w.SheetNames() {
		if s == m.Name {
			return s, true
		}
	}
	return "", false
}

// FoldedName matches a sheet whose name equals Name ignoring case and surrounding space.
type FoldedName struct{ Name string }

// Describe implements SheetMatcher.
func (m FoldedName) Describe() string { return fmt.Sprintf("case-insensitive name %q", m.Name) }

// Match implements SheetMatcher.
func (m FoldedName) Match(w Source) (string, bool) {
	want := Fold(m.Name)
	for _, s := range w.SheetNames() {
		if Fold(s) == want {
			return s, true
		}
	}
	return "", false
}

// WithColumns matches the first sheet whose header row carries every column.
// The header row is located with FindHeaderRow using Columns[0] as the marker.
type WithColumns struct {
	Columns  []string
	ScanRows int
}

// Describe implements SheetMatcher.
func (m WithColumns) Describe() string { return fmt.Sprintf("first sheet with columns %v", m.Columns) }

// Match implements SheetMatcher.
func (m WithColumns) Match(w Source) (string, bool) {
	if len(m.Columns) == 0 {
		return "", false
	}
	for _, s := range w.SheetNames() {
		rows, err := w.Head(s, m.ScanRows)
		if err != nil || len(rows) == 0 {
			continue
		}
		t := NewTable(s, rows, FindHeaderRow(rows, m.Columns[0], m.ScanRows))
		if t.HasColumns(m.Columns...) {
			return s, true
		}
	}
	return "", false
}

// OnlySheet matches the sole sheet of a single-sheet workbook.
type OnlySheet struct{}

// Describe implements SheetMatcher.
func (OnlySheet) Describe() string { return "only sheet" }

// Match implements SheetMatcher.
func (OnlySheet) Match(w Source) (string, bool) {
	if names := w.SheetNames(); len(names) == 1 {
		return names[0], true
	}
	return "", false
}

// FindSheet applies matchers in rank order and returns the first hit together
// with the matcher that produced it.
func FindSheet(w Source, matchers ...SheetMatcher) (string, SheetMatcher, bool) {
	for _, m := range matchers {
		if s, ok := m.Match(w); ok {
			return s, m, true
		}
	}
	return "", nil, false
}
