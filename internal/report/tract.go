package report

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapdoi/internal/tract"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// Labels used in tract blocks.
const (
	LabelTractNo     = "Tract No.:"
	LabelGrossAcres  = "Gross Acres:"
	LabelLegal       = "Legal Description:"
	LabelTractTotals = "TOTALS"
)

// TractListColumns returns the columns of the generated Tract List sheet.
func TractListColumns() []core.Column {
	return []core.Column{
		{Header: "TRACT", Width: 15, Center: true},
		{Header: "LEGAL DESCRIPTION", Width: 60},
		{Header: "GROSS ACRES", Width: 15, Format: core.FormatGrossAcres},
	}
}

// BuildTractBased builds the Tract-Based Ownership report: Tract List, one
// sheet per interest type grouped by tract, and the Unit Recap.
//
// When the recap fails to reconcile the complete report is returned together
// with a *core.ReconciliationError.
func BuildTractBased(ds *core.Dataset, opts Options) (*core.Report, error) {
	opts = opts.withDefaults()
	if ds == nil || len(ds.Records) == 0 {
		return nil, &core.ValidationError{Kind: core.NoRecords, Detail: "dataset is empty"}
	}

	rep := &core.Report{
		Kind:     core.ReportTractBased,
		RunID:    opts.RunID,
		Warnings: append([]core.Warning(nil), ds.Warnings...),
	}

	tracts := ds.TractKeys()
	tract.Sort(tracts)
	info := collectTractInfo(ds)
	rep.Sheets = append(rep.Sheets, tractListSheet(tracts, info))

	lori := newLoriLookup(ds.Records)
	for _, t := range core.InterestTypes {
		sheet := tractInterestSheet(ds, t, info, lori, opts.Basis)
		rep.Sheets = append(rep.Sheets, sheet)
	}

	if opts.Basis == core.BasisOwner {
		rep.Warnings = append(rep.Warnings, burdenedMismatches(ds, opts.Tolerance)...)
	}

	rc := buildRecap(tracts, ds.Records, func(r *core.OwnershipRecord) decimal.Decimal { return r.NRI(opts.Basis) })
	rep.Recap = rc
	rep.Sheets = append(rep.Sheets, recapSheet(rc, LabelTractTotal))
	rep.Warnings = append(rep.Warnings, tractTotalWarnings(rc, opts.Tolerance,
		func(string) decimal.Decimal { return decimal.NewFromInt(1) }, "NRI")...)

	opts.Logger.Info("built tract-based report",
		"tracts", len(tracts),
		"records", len(ds.Records),
		"total_nri", rc.GrandTotal.StringFixed(8),
		"warnings", len(rep.Warnings))

	if rerr := checkRecap(rc, rep.Sheets, HeaderNRI, opts.Tolerance); rerr != nil {
		rep.Warnings = append(rep.Warnings, reconciliationWarning(rerr))
		return rep, rerr
	}
	return rep, nil
}

func tractListSheet(tracts []string, info map[string]tractInfo) *core.Sheet {
	block := &core.Block{Kind: core.BlockTable, Key: core.SheetTractList}
	for _, tr := range tracts {
		ti := info[tr]
		gross := ti.gross
		if gross.IsEmpty() {
			gross = core.Number(decimal.Zero)
		}
		block.Rows = append(block.Rows, core.Row{Cells: []core.Value{tractValue(tr), txt(ti.legal), gross}})
	}
	return &core.Sheet{
		Name:    core.SheetTractList,
		Title:   core.SheetTractList,
		Columns: TractListColumns(),
		Blocks:  []*core.Block{block},
	}
}

func tractInterestSheet(ds *core.Dataset, t core.InterestType, info map[string]tractInfo, lori *loriLookup, basis core.NRIBasis) *core.Sheet {
	cols := TractColumns(t)
	sheet := &core.Sheet{
		Name:    t.SheetName(),
		Title:   "Tract-Based " + t.Title(),
		Columns: cols,
	}

	sumCols := []int{interestColumn(cols, t), sheet.ColumnIndex(HeaderNRI)}
	if t == core.InterestMI {
		sumCols = append(sumCols, sheet.ColumnIndex(HeaderBurdenedNRI))
	}

	keys, groups := groupByTract(reportable(ds, t))
	for _, key := range keys {
		ti := info[key]
		block := &core.Block{
			Kind: core.BlockTract,
			Key:  key,
			Header: []core.Field{
				{Label: LabelTractNo, Value: tractValue(key)},
				{Label: LabelGrossAcres, Value: ti.gross, Format: core.FormatGrossAcres},
				{Label: LabelLegal, Value: txt(ti.legal)},
			},
		}
		for _, r := range groups[key] {
			l := line{rec: r, nri: r.NRI(basis)}
			if t == core.InterestWI {
				l.lori = lori.Royalty(r.TractKey, r.LeaseNo)
			}
			block.Rows = append(block.Rows, core.Row{Cells: tractCells(l, basis)})
		}
		block.Total = totalRow(block, len(cols), LabelTractTotals, sumCols...)
		sheet.Blocks = append(sheet.Blocks, block)
	}
	return sheet
}

// burdenedMismatches compares derived burdened NRI with TRACT NRI on MI rows.
func burdenedMismatches(ds *core.Dataset, tol decimal.Decimal) []core.Warning {
	var out []core.Warning
	for _, r := range ds.Records {
		if r.Type != core.InterestMI || core.IsPlaceholderOwner(r.Owner) {
			continue
		}
		derived, ok := r.BurdenedNRI(core.BasisOwner)
		if !ok || core.WithinTolerance(derived, r.TractNRI, tol) {
			continue
		}
		out = append(out, core.Warning{
			Severity: core.SeverityWarning,
			Code:     core.WarnBurdenedMismatch,
			Message: fmt.Sprintf("%s: MI x LORI - NPRI = %s but TRACT NRI is %s",
				r.Owner, derived.StringFixed(8), r.TractNRI.StringFixed(8)),
			Sheet: ds.SheetName,
			Row:   r.Row,
			Tract: r.TractKey,
		})
	}
	return out
}

func reconciliationWarning(err *core.ReconciliationError) core.Warning {
	return core.Warning{
		Severity: core.SeverityError,
		Code:     core.WarnReconciliation,
		Message:  err.Error(),
		Sheet:    core.SheetUnitRecap,
	}
}

// IsReconciliation reports whether err carries a *core.ReconciliationError,
// meaning the accompanying report is complete but its totals are off.
func IsReconciliation(err error) bool {
	var rerr *core.ReconciliationError
	return errors.As(err, &rerr)
}
