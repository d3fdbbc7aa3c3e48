package report

import (
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// Column headers that carry computed values. HeaderNRI is the owner's NRI
// under the configured basis, not the TRACT NRI input column.
const (
	HeaderNRI         = "NRI"
	HeaderUnitNRI     = "UNIT NRI"
	HeaderBurdenedNRI = "BURDENED NRI"
)

var nriHeaders = map[string]bool{
	"MI": true, "NPRI": true, "ORI": true, "WI": true, "LORI": true,
	HeaderNRI: true, HeaderUnitNRI: true, HeaderBurdenedNRI: true,
	"INTEREST BURDENED": true, "SHARE OF NPRI": true, "SHARE OF ORI": true,
	"ORI BURDENS": true, "WI (TRACT)": true,
}

var acreHeaders = map[string]bool{"NET ACRES": true, "ACRES BURDENED": true}

var centerHeaders = map[string]bool{
	"TRACT": true, "LEASE NO.": true, "REQ": true,
	"": true, "x": true, "-": true, "=": true, "1": true,
}

// columns zips headers with widths and derives format and alignment from the header.
func columns(headers []string, widths []float64) []core.Column {
	cols := make([]core.Column, len(headers))
	for i, h := range headers {
		c := core.Column{Header: h, Center: centerHeaders[h]}
		if i < len(widths) {
			c.Width = widths[i]
		}
		switch {
		case nriHeaders[h]:
			c.Format = core.FormatNRI
		case acreHeaders[h]:
			c.Format = core.FormatAcres
		}
		cols[i] = c
	}
	return cols
}

// formulaHeaders is the shared middle section of every interest sheet, from
// LEASE NO. through the interest's own formula.
func formulaHeaders(t core.InterestType) []string {
	head := []string{"LEASE NO.", "REQ", ""}
	switch t {
	case core.InterestMI:
		return append(head, "MI", "x", "LORI", "-", "NPRI", "=", HeaderNRI, "", "NET ACRES")
	case core.InterestNPRI:
		return append(head, "NPRI", "x", "INTEREST BURDENED", "x", "SHARE OF NPRI", "=", HeaderNRI)
	case core.InterestORI:
		return append(head, "ORI", "x", "SHARE OF ORI", "x", "INTEREST BURDENED", "=", HeaderNRI, "", "ACRES BURDENED")
	default:
		return append(head, "WI", "", "NET ACRES", "", "1", "-", "LORI", "-", "ORI BURDENS", "x", "WI (TRACT)", "=", HeaderNRI)
	}
}

// tractSuffix holds the columns that follow the formula on tract-based sheets.
func tractSuffix(t core.InterestType) []string {
	switch t {
	case core.InterestMI:
		return []string{"", HeaderBurdenedNRI, "", "BURDENED WI OWNER(S)"}
	case core.InterestNPRI:
		return []string{"", "BURDENED MI OWNER"}
	case core.InterestORI:
		return []string{"", "BURDENED WI OWNER(S)"}
	default:
		return nil
	}
}

var tractWidths = map[core.InterestType][]float64{
	core.InterestMI:   {45, 12, 12, 12, 3, 12, 3, 12, 3, 12, 3, 12, 3, 12, 3, 14, 3, 50},
	core.InterestNPRI: {45, 12, 12, 12, 3, 12, 3, 15, 3, 14, 3, 12, 3, 50},
	core.InterestORI:  {45, 12, 12, 12, 3, 12, 3, 14, 3, 15, 3, 12, 3, 14, 3, 50},
	core.InterestWI:   {45, 12, 12, 12, 3, 12, 3, 12, 2, 5, 2, 12, 4, 12, 3, 12, 4, 12},
}

var unitWidths = map[core.InterestType][]float64{
	core.InterestMI:   {13, 12, 13, 3, 12, 3, 12, 3, 12, 3, 12, 3, 12, 3, 14},
	core.InterestNPRI: {13, 12, 10, 3, 12, 3, 15, 3, 14, 3, 12, 3, 13},
	core.InterestORI:  {14, 12, 10, 3, 12, 3, 11, 3, 12, 3, 11, 3, 11, 3, 13},
	core.InterestWI:   {14, 12, 13, 3, 12, 3, 12, 2, 5, 2, 12, 4, 12, 3, 12, 4, 12, 2, 12},
}

// TractColumns returns the columns of a tract-based interest sheet.
func TractColumns(t core.InterestType) []core.Column {
	headers := append([]string{"OWNER", "TRACT"}, formulaHeaders(t)...)
	headers = append(headers, tractSuffix(t)...)
	return columns(headers, tractWidths[t])
}

// UnitColumns returns the columns of a unit-based interest sheet.
func UnitColumns(t core.InterestType) []core.Column {
	headers := append([]string{"TRACT"}, formulaHeaders(t)...)
	headers = append(headers, "", HeaderUnitNRI)
	return columns(headers, unitWidths[t])
}

// line is one record prepared for display.
type line struct {
	rec *core.OwnershipRecord
	// nri is the owner NRI under the configured basis
	nri decimal.Decimal
	// lori is the lease royalty looked up for WI rows
	lori decimal.Decimal
}

func num(d decimal.Decimal) core.Value { return core.Number(d) }

func optNum(d decimal.NullDecimal) core.Value {
	if !d.Valid {
		return core.Empty()
	}
	return core.Number(d.Decimal)
}

func txt(s string) core.Value {
	if s == "" {
		return core.Empty()
	}
	return core.Text(s)
}

var blank = core.Empty()

// tractValue renders a normalized tract id, as a number when it is one.
func tractValue(key string) core.Value {
	if d, err := decimal.NewFromString(key); err == nil && d.String() == key {
		return core.Number(d)
	}
	return core.Text(key)
}

// formulaCells mirrors formulaHeaders.
func formulaCells(l line) []core.Value {
	r := l.rec
	head := []core.Value{txt(r.LeaseNo), txt(r.ReqNo), blank}
	switch r.Type {
	case core.InterestMI:
		return append(head,
			num(r.DecimalInterest), txt("x"),
			optNum(r.LeaseRoyalty), txt("-"),
			optNum(r.NPRIBurden), txt("="),
			num(l.nri), blank,
			num(r.NetAcres))
	case core.InterestNPRI:
		return append(head,
			num(r.Interest()), txt("x"),
			optNum(r.InterestBurdened), txt("x"),
			optNum(r.ShareOfNPRI), txt("="),
			num(l.nri))
	case core.InterestORI:
		return append(head,
			num(r.Interest()), txt("x"),
			optNum(r.ShareOfORI), txt("x"),
			optNum(r.InterestBurdened), txt("="),
			num(l.nri), blank,
			optNum(r.AcresBurdened))
	default:
		wiTract := r.DecimalInterest
		if r.WITract.Valid {
			wiTract = r.WITract.Decimal
		}
		oriBurdens := decimal.Zero
		if r.ORIBurdens.Valid {
			oriBurdens = r.ORIBurdens.Decimal
		}
		return append(head,
			num(r.DecimalInterest), blank,
			num(r.NetAcres), blank,
			num(decimal.NewFromInt(1)), txt("-"),
			num(l.lori), txt("-"),
			num(oriBurdens), txt("x"),
			num(wiTract), txt("="),
			num(l.nri))
	}
}

// tractCells builds one tract-based row.
func tractCells(l line, basis core.NRIBasis) []core.Value {
	r := l.rec
	cells := append([]core.Value{txt(r.Owner), tractValue(r.TractKey)}, formulaCells(l)...)
	switch r.Type {
	case core.InterestMI:
		burdened := blank
		if d, ok := r.BurdenedNRI(basis); ok {
			burdened = num(d)
		}
		cells = append(cells, blank, burdened, blank, txt(r.BurdenedOwners))
	case core.InterestNPRI, core.InterestORI:
		cells = append(cells, blank, txt(r.BurdenedOwners))
	}
	return cells
}

// unitCells builds one unit-based row.
func unitCells(l line, unitNRI decimal.Decimal) []core.Value {
	cells := append([]core.Value{tractValue(l.rec.TractKey)}, formulaCells(l)...)
	return append(cells, blank, num(unitNRI))
}

// interestColumn is the index of the owner's interest column on a sheet.
func interestColumn(cols []core.Column, t core.InterestType) int {
	for i, c := range cols {
		if c.Header == string(t) {
			return i
		}
	}
	return -1
}

// totalRow sums the given columns across a block.
func totalRow(b *core.Block, width int, label string, sumCols ...int) *core.Row {
	cells := make([]core.Value, width)
	for _, i := range sumCols {
		if i >= 0 && i < width {
			cells[i] = core.Number(b.Sum(i))
		}
	}
	return &core.Row{Cells: cells, Label: label}
}
