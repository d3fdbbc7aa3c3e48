package core

import "github.com/shopspring/decimal"

// ReportKind selects how a report is organised.
type ReportKind string

// Report kinds.
const (
	ReportTractBased ReportKind = "tract"
	ReportUnitBased  ReportKind = "unit"
)

// Fixed sheet names shared by both report kinds.
const (
	SheetTractList = "Tract List"
	SheetUnitRecap = "Unit Recap"
)

// Title returns the human-readable report name.
func (k ReportKind) Title() string {
	if k == ReportUnitBased {
		return "Unit-Based DOI"
	}
	return "Tract-Based Ownership"
}

// DefaultFileName returns the file name used when no output path is given.
func (k ReportKind) DefaultFileName() string {
	if k == ReportUnitBased {
		return "Unit_Based_DOI.xlsx"
	}
	return "Tract_Based_Ownership.xlsx"
}

// ValueKind discriminates the contents of a Value.
type ValueKind int

// Value kinds.
const (
	ValueEmpty ValueKind = iota
	ValueText
	ValueNumber
)

// Value is a single report cell.
type Value struct {
	Kind   ValueKind
	Text   string
	Number decimal.Decimal
}

// Text returns a text cell.
func Text(s string) Value { return Value{Kind: ValueText, Text: s} }

// Number returns a numeric cell.
func Number(d decimal.Decimal) Value { return Value{Kind: ValueNumber, Number: d} }

// Empty returns a blank cell.
func Empty() Value { return Value{} }

// IsEmpty reports whether the cell is blank.
func (v Value) IsEmpty() bool { return v.Kind == ValueEmpty }

// String renders the value for plain-text output.
func (v Value) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return v.Number.String()
	default:
		return ""
	}
}

// NumberFormat selects how a numeric column is displayed.
type NumberFormat int

// Number formats.
const (
	FormatGeneral NumberFormat = iota
	// FormatNRI is used for NRI-class values (8 decimals by default)
	FormatNRI
	// FormatAcres is used for net acreage (6 decimals by default)
	FormatAcres
	// FormatGrossAcres is used for gross tract acreage (2 decimals by default)
	FormatGrossAcres
)

// Column describes one column of a sheet.
type Column struct {
	Header string
	Width  float64
	Format NumberFormat
	Center bool
}

// Row is an ordered list of cells aligned with the sheet columns.
type Row struct {
	Cells []Value
	// Label marks total rows ("TOTALS", "TOTAL", "UNIT NRI TOTAL")
	Label string
}

// Cell returns the value at column index i, or an empty value when out of range.
func (r Row) Cell(i int) Value {
	if i < 0 || i >= len(r.Cells) {
		return Empty()
	}
	return r.Cells[i]
}

// BlockKind identifies how a block is grouped.
type BlockKind string

// Block kinds.
const (
	BlockTract BlockKind = "tract"
	BlockOwner BlockKind = "owner"
	BlockTable BlockKind = "table"
)

// Field is a labelled value in a block header ("Tract No.:", "Owner Name:").
type Field struct {
	Label  string
	Value  Value
	Format NumberFormat
}

// Block is a group of rows introduced by a header and closed by a total row.
type Block struct {
	Kind   BlockKind
	Key    string
	Header []Field
	Rows   []Row
	Total  *Row
}

// Sum adds the numeric cells of column i across the block's rows.
func (b *Block) Sum(i int) decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Rows {
		if c := r.Cell(i); c.Kind == ValueNumber {
			total = total.Add(c.Number)
		}
	}
	return total
}

// Sheet is one worksheet of the report.
type Sheet struct {
	Name    string
	Title   string
	Columns []Column
	Blocks  []*Block
	// Grid holds raw cells for passthrough sheets copied from an input workbook
	Grid [][]Value
}

// Passthrough reports whether the sheet is a verbatim copy of an input sheet.
func (s *Sheet) Passthrough() bool { return s.Grid != nil }

// ColumnIndex returns the index of the first column with the given header, or -1.
func (s *Sheet) ColumnIndex(header string) int {
	for i, c := range s.Columns {
		if c.Header == header {
			return i
		}
	}
	return -1
}

// Block returns the block with the given key.
func (s *Sheet) Block(key string) (*Block, bool) {
	for _, b := range s.Blocks {
		if b.Key == key {
			return b, true
		}
	}
	return nil, false
}

// RecapLine summarises the NRI contributed by each interest type to one tract.
type RecapLine struct {
	Tract  string
	ByType map[InterestType]decimal.Decimal
	Total  decimal.Decimal
}

// Recap is the typed content of the Unit Recap sheet.
type Recap struct {
	Lines      []RecapLine
	Totals     map[InterestType]decimal.Decimal
	GrandTotal decimal.Decimal
}

// Report is the in-memory result of a report generation run.
type Report struct {
	Kind     ReportKind
	RunID    string
	Sheets   []*Sheet
	Recap    *Recap
	Warnings []Warning
}

// Sheet returns the sheet with the given name.
func (r *Report) Sheet(name string) (*Sheet, bool) {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// SheetNames returns the sheet names in output order.
func (r *Report) SheetNames() []string {
	names := make([]string, 0, len(r.Sheets))
	for _, s := range r.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// TotalNRI returns the recap grand total: the unit NRI total of a unit-based
// report, the summed tract NRI of a tract-based one.
func (r *Report) TotalNRI() decimal.Decimal {
	if r.Recap == nil {
		return decimal.Zero
	}
	return r.Recap.GrandTotal
}
