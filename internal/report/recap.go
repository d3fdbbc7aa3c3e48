package report

import (
	"fmt"

	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// Recap total labels.
const (
	LabelTractTotal = "TOTAL"
	LabelUnitTotal  = "UNIT NRI TOTAL"
)

// RecapColumns returns the columns of the Unit Recap sheet.
func RecapColumns() []core.Column {
	cols := []core.Column{{Header: "TRACT", Width: 15, Center: true}}
	for _, t := range core.InterestTypes {
		cols = append(cols, core.Column{Header: t.SheetName() + " NRI", Width: 14, Format: core.FormatNRI})
	}
	return append(cols, core.Column{Header: "TOTAL NRI", Width: 14, Format: core.FormatNRI})
}

// buildRecap sums value(record) per tract and interest type. Tracts are
// reported in the order given; records on other tracts are ignored.
func buildRecap(tracts []string, records []*core.OwnershipRecord, value func(*core.OwnershipRecord) decimal.Decimal) *core.Recap {
	byTract := make(map[string]map[core.InterestType]decimal.Decimal, len(tracts))
	for _, tr := range tracts {
		byTract[tr] = make(map[core.InterestType]decimal.Decimal, len(core.InterestTypes))
	}
	for _, r := range records {
		if core.IsPlaceholderOwner(r.Owner) {
			continue
		}
		sums, ok := byTract[r.TractKey]
		if !ok {
			continue
		}
		sums[r.Type] = sums[r.Type].Add(value(r))
	}

	rc := &core.Recap{Totals: make(map[core.InterestType]decimal.Decimal, len(core.InterestTypes))}
	for _, tr := range tracts {
		line := core.RecapLine{Tract: tr, ByType: byTract[tr]}
		for _, t := range core.InterestTypes {
			line.Total = line.Total.Add(line.ByType[t])
			rc.Totals[t] = rc.Totals[t].Add(line.ByType[t])
		}
		rc.GrandTotal = rc.GrandTotal.Add(line.Total)
		rc.Lines = append(rc.Lines, line)
	}
	return rc
}

// recapSheet lays out a recap as a single table block.
func recapSheet(rc *core.Recap, totalLabel string) *core.Sheet {
	cols := RecapColumns()
	block := &core.Block{Kind: core.BlockTable, Key: core.SheetUnitRecap}
	for _, line := range rc.Lines {
		cells := []core.Value{tractValue(line.Tract)}
		for _, t := range core.InterestTypes {
			cells = append(cells, core.Number(line.ByType[t]))
		}
		block.Rows = append(block.Rows, core.Row{Cells: append(cells, core.Number(line.Total))})
	}
	total := core.Row{Cells: []core.Value{core.Empty()}, Label: totalLabel}
	for _, t := range core.InterestTypes {
		total.Cells = append(total.Cells, core.Number(rc.Totals[t]))
	}
	total.Cells = append(total.Cells, core.Number(rc.GrandTotal))
	block.Total = &total

	return &core.Sheet{
		Name:    core.SheetUnitRecap,
		Title:   core.SheetUnitRecap,
		Columns: cols,
		Blocks:  []*core.Block{block},
	}
}

// checkRecap verifies the recap grand total against the rows actually laid
// out: the header column summed over every block of every sheet that has it.
func checkRecap(rc *core.Recap, sheets []*core.Sheet, header string, tol decimal.Decimal) *core.ReconciliationError {
	sum := decimal.Zero
	for _, s := range sheets {
		col := s.ColumnIndex(header)
		if col < 0 {
			continue
		}
		for _, b := range s.Blocks {
			sum = sum.Add(b.Sum(col))
		}
	}
	if core.WithinTolerance(sum, rc.GrandTotal, tol) {
		return nil
	}
	return core.NewReconciliationError("recap grand total", sum, rc.GrandTotal, tol)
}

// tractTotalWarnings flags recap lines whose total differs from expected(tract).
func tractTotalWarnings(rc *core.Recap, tol decimal.Decimal, expected func(string) decimal.Decimal, what string) []core.Warning {
	var out []core.Warning
	for _, line := range rc.Lines {
		want := expected(line.Tract)
		if core.WithinTolerance(line.Total, want, tol) {
			continue
		}
		out = append(out, core.Warning{
			Severity: core.SeverityWarning,
			Code:     core.WarnTractNRITotal,
			Message: fmt.Sprintf("tract %s %s totals %s, expected %s",
				line.Tract, what, line.Total.StringFixed(8), want.StringFixed(8)),
			Sheet: core.SheetUnitRecap,
			Tract: line.Tract,
		})
	}
	return out
}
