package workbook

// Table is a sheet split into a header row and the data rows below it.
type Table struct {
	Sheet string
	// HeaderRow is the 1-based row holding the headers
	HeaderRow int
	Header    []string
	Rows      [][]string
	columns   map[string]int
}

// NewTable builds a table from raw rows with the header at index headerIdx.
func NewTable(sheet string, rows [][]string, headerIdx int) *Table {
	t := &Table{Sheet: sheet, HeaderRow: headerIdx + 1, columns: make(map[string]int)}
	if headerIdx < len(rows) {
		t.Header = rows[headerIdx]
		t.Rows = rows[headerIdx+1:]
	}
	for i, h := range t.Header {
		key := Fold(h)
		if key == "" {
			continue
		}
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}
	return t
}

// Column returns the index of a header, matched case-insensitively.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.columns[Fold(name)]
	return i, ok
}

// HasColumns reports whether every named header is present.
func (t *Table) HasColumns(names ...string) bool {
	return len(t.Missing(names...)) == 0
}

// Missing returns every named header the table lacks, in the order given.
func (t *Table) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := t.Column(n); !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// SourceRow returns the 1-based spreadsheet row of data row i.
func (t *Table) SourceRow(i int) int {
	return t.HeaderRow + 1 + i
}

// FindHeaderRow returns the index of the first row, within the first scan
// rows, that contains a cell equal to marker (case-insensitive). It returns 0
// when no such row exists.
func FindHeaderRow(rows [][]string, marker string, scan int) int {
	want := Fold(marker)
	for i, row := range rows {
		if scan > 0 && i >= scan {
			break
		}
		for _, c := range row {
			if Fold(c) == want {
				return i
			}
		}
	}
	return 0
}
