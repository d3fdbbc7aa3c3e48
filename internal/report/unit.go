package report

import (
	"errors"

	"github.com/leapstack-labs/leapdoi/internal/tract"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// Labels used in owner blocks.
const (
	LabelOwnerName  = "Owner Name:"
	LabelAddress    = "Address:"
	LabelOwnerTotal = "TOTAL"
)

// BuildUnitBased builds the Unit-Based DOI report: the schedule's Tract List,
// one sheet per interest type grouped by owner with UNIT NRI, and the Unit
// Recap.
//
// Every record's tract must appear in the schedule; otherwise one
// UnknownTract error per tract is returned and no report is built. When the
// unit total is not 1 within tolerance the complete report is returned
// together with a *core.ReconciliationError.
func BuildUnitBased(ds *core.Dataset, sched *core.Schedule, opts Options) (*core.Report, error) {
	opts = opts.withDefaults()
	if ds == nil || len(ds.Records) == 0 {
		return nil, &core.ValidationError{Kind: core.NoRecords, Detail: "dataset is empty"}
	}
	if sched == nil || len(sched.Allocations) == 0 {
		return nil, &core.ValidationError{Kind: core.NoRecords, File: "schedule", Detail: "schedule has no allocations"}
	}
	if err := checkTracts(ds, sched); err != nil {
		return nil, err
	}

	rep := &core.Report{
		Kind:     core.ReportUnitBased,
		RunID:    opts.RunID,
		Warnings: append(append([]core.Warning(nil), ds.Warnings...), sched.Warnings...),
	}

	grid := sched.TractList
	if grid == nil {
		grid = [][]core.Value{}
	}
	rep.Sheets = append(rep.Sheets, &core.Sheet{
		Name:  core.SheetTractList,
		Title: core.SheetTractList,
		Grid:  grid,
	})

	unitNRI := func(r *core.OwnershipRecord) decimal.Decimal {
		a, _ := sched.Lookup(r.TractKey)
		return r.NRI(opts.Basis).Mul(a.AllocationFactor)
	}

	lori := newLoriLookup(ds.Records)
	for _, t := range core.InterestTypes {
		rep.Sheets = append(rep.Sheets, unitInterestSheet(ds, t, lori, opts.Basis, unitNRI))
	}

	if opts.Basis == core.BasisOwner {
		rep.Warnings = append(rep.Warnings, burdenedMismatches(ds, opts.Tolerance)...)
	}

	tracts := make([]string, 0, len(sched.Allocations))
	for k := range sched.Allocations {
		tracts = append(tracts, k)
	}
	tract.Sort(tracts)

	rc := buildRecap(tracts, ds.Records, unitNRI)
	rep.Recap = rc
	rep.Sheets = append(rep.Sheets, recapSheet(rc, LabelUnitTotal))

	opts.Logger.Info("built unit-based report",
		"tracts", len(tracts),
		"records", len(ds.Records),
		"unit_nri_total", rc.GrandTotal.StringFixed(8),
		"warnings", len(rep.Warnings))

	rerr := checkRecap(rc, rep.Sheets, HeaderUnitNRI, opts.Tolerance)
	if rerr == nil {
		rerr = checkUnitTotal(rc, sched, opts.Tolerance)
	}
	if rerr != nil {
		opts.Logger.Warn("unit NRI does not reconcile", "error", rerr.Error())
		rep.Warnings = append(rep.Warnings, reconciliationWarning(rerr))
		return rep, rerr
	}
	return rep, nil
}

// checkTracts returns one UnknownTract error per distinct tract missing from
// the schedule, joined, in natural tract order.
func checkTracts(ds *core.Dataset, sched *core.Schedule) error {
	firstRow := make(map[string]int)
	var unknown []string
	for _, r := range ds.Records {
		if _, ok := sched.Lookup(r.TractKey); ok {
			continue
		}
		if _, seen := firstRow[r.TractKey]; !seen {
			firstRow[r.TractKey] = r.Row
			unknown = append(unknown, r.TractKey)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	tract.Sort(unknown)
	errs := make([]error, 0, len(unknown))
	for _, tr := range unknown {
		errs = append(errs, &core.ValidationError{
			Kind:  core.UnknownTract,
			File:  "combined",
			Sheet: ds.SheetName,
			Tract: tr,
			Row:   firstRow[tr],
		})
	}
	return errors.Join(errs...)
}

func unitInterestSheet(ds *core.Dataset, t core.InterestType, lori *loriLookup, basis core.NRIBasis,
	unitNRI func(*core.OwnershipRecord) decimal.Decimal) *core.Sheet {
	cols := UnitColumns(t)
	sheet := &core.Sheet{
		Name:    t.SheetName(),
		Title:   "Unit-Based " + t.Title(),
		Columns: cols,
	}
	unitCol := sheet.ColumnIndex(HeaderUnitNRI)

	owners, groups := groupByOwner(reportable(ds, t))
	for _, owner := range owners {
		recs := groups[owner]
		block := &core.Block{
			Kind:   core.BlockOwner,
			Key:    owner,
			Header: []core.Field{{Label: LabelOwnerName, Value: core.Text(owner)}},
		}
		if addr := firstAddress(recs); addr != "" {
			block.Header = append(block.Header, core.Field{Label: LabelAddress, Value: core.Text(addr)})
		}
		for _, r := range recs {
			l := line{rec: r, nri: r.NRI(basis)}
			if t == core.InterestWI {
				l.lori = lori.Royalty(r.TractKey, r.LeaseNo)
			}
			block.Rows = append(block.Rows, core.Row{Cells: unitCells(l, unitNRI(r))})
		}
		block.Total = totalRow(block, len(cols), LabelOwnerTotal, unitCol)
		sheet.Blocks = append(sheet.Blocks, block)
	}
	return sheet
}

func firstAddress(recs []*core.OwnershipRecord) string {
	for _, r := range recs {
		if r.Address != "" {
			return r.Address
		}
	}
	return ""
}

// checkUnitTotal verifies that UNIT NRI sums to 1 and lists the tracts whose
// share differs from their allocation factor.
func checkUnitTotal(rc *core.Recap, sched *core.Schedule, tol decimal.Decimal) *core.ReconciliationError {
	one := decimal.NewFromInt(1)
	if core.WithinTolerance(rc.GrandTotal, one, tol) {
		return nil
	}
	rerr := core.NewReconciliationError("unit NRI total", one, rc.GrandTotal, tol)
	for _, line := range rc.Lines {
		a, _ := sched.Lookup(line.Tract)
		if core.WithinTolerance(line.Total, a.AllocationFactor, tol) {
			continue
		}
		rerr.Tracts = append(rerr.Tracts, core.TractDiscrepancy{
			Tract:    line.Tract,
			Expected: a.AllocationFactor,
			Actual:   line.Total,
		})
	}
	return rerr
}
