package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/internal/tract"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 1000

// combinedMatchers returns the ranked rules used to locate the data sheet.
func combinedMatchers(opts Options) []workbook.SheetMatcher {
	return []workbook.SheetMatcher{
		workbook.ExactName{Name: opts.DataSheet},
		workbook.FoldedName{Name: opts.DataSheet},
		workbook.WithColumns{Columns: RequiredColumns, ScanRows: opts.HeaderScanRows},
		workbook.OnlySheet{},
	}
}

// LoadCombined reads the Combined ownership sheet from src.
func LoadCombined(ctx context.Context, src workbook.Source, opts Options) (*core.Dataset, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, rule, ok := workbook.FindSheet(src, combinedMatchers(opts)...)
	if !ok {
		return nil, &core.ValidationError{
			Kind:   core.MissingSheet,
			File:   FileCombined,
			Sheet:  opts.DataSheet,
			Sheets: src.SheetNames(),
		}
	}
	logger.Debug("located data sheet", "sheet", sheet, "rule", rule.Describe())

	// the header sits within HeaderScanRows, so more non-blank rows than
	// this always means more than MaxRows data rows
	rows, err := src.Rows(sheet, opts.MaxRows+opts.HeaderScanRows)
	if errors.Is(err, workbook.ErrTooManyRows) {
		return nil, &core.ValidationError{
			Kind:   core.RowLimit,
			File:   FileCombined,
			Sheet:  sheet,
			Limit:  opts.MaxRows,
			Detail: fmt.Sprintf("more than %d rows in sheet", opts.MaxRows+opts.HeaderScanRows),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load combined data: %w", err)
	}

	tbl := workbook.NewTable(sheet, rows, workbook.FindHeaderRow(rows, ColOwner, opts.HeaderScanRows))
	if missing := tbl.Missing(RequiredColumns...); len(missing) > 0 {
		return nil, &core.ValidationError{
			Kind:    core.MissingColumns,
			File:    FileCombined,
			Sheet:   sheet,
			Columns: missing,
		}
	}

	if n := countDataRows(tbl.Rows); n > opts.MaxRows {
		return nil, &core.ValidationError{
			Kind:   core.RowLimit,
			File:   FileCombined,
			Sheet:  sheet,
			Limit:  opts.MaxRows,
			Detail: fmt.Sprintf("found %d", n),
		}
	}

	l := &combinedLoader{
		opts: opts,
		cols: resolveColumns(tbl),
		ds: &core.Dataset{
			SheetName: sheet,
			HeaderRow: tbl.HeaderRow,
		},
		otherCounts: make(map[string]int),
	}
	l.warnMissingNumericColumns()

	for i, row := range tbl.Rows {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		l.readRow(tbl.SourceRow(i), row)
	}

	if len(l.errs) > 0 {
		return nil, errors.Join(l.errs...)
	}
	l.finish()

	if len(l.ds.Records) == 0 {
		return nil, &core.ValidationError{
			Kind:   core.NoRecords,
			File:   FileCombined,
			Sheet:  sheet,
			Detail: "no rows with a tract and a MI, NPRI, ORI or WI type",
		}
	}

	logger.Info("loaded combined data",
		"sheet", sheet,
		"header_row", tbl.HeaderRow,
		"records", len(l.ds.Records),
		"other", len(l.ds.Other),
		"warnings", len(l.ds.Warnings))
	return l.ds, nil
}

type combinedLoader struct {
	opts Options
	cols combinedColumns
	ds   *core.Dataset
	errs []error

	blankTracts int
	firstBlank  int
	otherOrder  []string
	otherCounts map[string]int
}

func (l *combinedLoader) warn(code, msg string, row int) {
	l.ds.Warnings = append(l.ds.Warnings, core.Warning{
		Severity: core.SeverityWarning,
		Code:     code,
		Message:  msg,
		Sheet:    l.ds.SheetName,
		Row:      row,
	})
}

func (l *combinedLoader) warnMissingNumericColumns() {
	for _, c := range []struct {
		name string
		idx  int
	}{
		{ColTractNRI, l.cols.tractNRI},
		{ColDecimalInterest, l.cols.decimalInterest},
	} {
		if c.idx < 0 {
			l.warn(core.WarnMissingColumn, fmt.Sprintf("column %s not found; values load as zero", c.name), 0)
		}
	}
}

// required parses TRACT NRI or DECIMAL INTEREST, applying the numeric policy.
// It returns false when the row must be skipped.
func (l *combinedLoader) required(row []string, idx, srcRow int, column string) (decimal.Decimal, bool) {
	raw := workbook.Cell(row, idx)
	d, _, ok := parseNumber(raw)
	if ok {
		return d, true
	}
	if l.opts.NumericPolicy == config.NumericDrop {
		l.warn(core.WarnDroppedRow, fmt.Sprintf("dropped: %s value %q is not a number", column, raw), srcRow)
		return decimal.Zero, false
	}
	l.errs = append(l.errs, &core.ValidationError{
		Kind:   core.InvalidValue,
		File:   FileCombined,
		Sheet:  l.ds.SheetName,
		Row:    srcRow,
		Column: column,
		Value:  raw,
	})
	return decimal.Zero, false
}

func (l *combinedLoader) optional(row []string, idx, srcRow int, column string) decimal.NullDecimal {
	raw := workbook.Cell(row, idx)
	d, ok := parseOptional(raw)
	if !ok {
		l.warn(core.WarnInvalidOptional, fmt.Sprintf("%s value %q is not a number; treated as absent", column, raw), srcRow)
	}
	return d
}

func (l *combinedLoader) readRow(srcRow int, row []string) {
	if workbook.IsBlankRow(row) {
		return
	}
	c := l.cols

	rawTract := workbook.Cell(row, c.tract)
	key := tract.Normalize(rawTract)
	if key == "" || key == "nan" {
		if l.blankTracts == 0 {
			l.firstBlank = srcRow
		}
		l.blankTracts++
		return
	}

	tractNRI, okNRI := l.required(row, c.tractNRI, srcRow, ColTractNRI)
	di, okDI := l.required(row, c.decimalInterest, srcRow, ColDecimalInterest)
	if !okNRI || !okDI {
		return
	}

	rec := &core.OwnershipRecord{
		Row:              srcRow,
		Owner:            workbook.Cell(row, c.owner),
		Address:          text(row, c.address),
		RawType:          workbook.Cell(row, c.typ),
		Tract:            rawTract,
		TractKey:         key,
		TractNRI:         tractNRI,
		DecimalInterest:  di,
		LeaseNo:          text(row, c.leaseNo),
		ReqNo:            text(row, c.req),
		LeaseRoyalty:     l.optional(row, c.leaseRoyalty, srcRow, ColLeaseRoyalty),
		NPRIBurden:       l.optional(row, c.npriBurdens, srcRow, ColNPRIBurdens),
		LegalDescription: text(row, c.legal),
		GrossAcres:       l.optional(row, c.grossAcres, srcRow, ColGrossAcres),
		BurdenedOwners:   text(row, c.burdened),
		NPRI:             l.optional(row, c.npri, srcRow, ColNPRI),
		ORI:              l.optional(row, c.ori, srcRow, ColORI),
		InterestBurdened: l.optional(row, c.interestBurdened, srcRow, ColInterestBurdened),
		ShareOfNPRI:      l.optional(row, c.shareOfNPRI, srcRow, ColShareOfNPRI),
		ShareOfORI:       l.optional(row, c.shareOfORI, srcRow, ColShareOfORI),
		AcresBurdened:    l.optional(row, c.acresBurden, srcRow, ColAcresBurdened),
		ORIBurdens:       l.optional(row, c.oriBurdens, srcRow, ColORIBurdens),
		WITract:          l.optional(row, c.wiTract, srcRow, ColWITract),
	}
	if acres := l.optional(row, c.netAcres, srcRow, ColNetAcres); acres.Valid {
		rec.NetAcres = acres.Decimal
	}

	typ, ok := core.ParseInterestType(rec.RawType)
	if !ok {
		if _, seen := l.otherCounts[rec.RawType]; !seen {
			l.otherOrder = append(l.otherOrder, rec.RawType)
		}
		l.otherCounts[rec.RawType]++
		l.ds.Other = append(l.ds.Other, rec)
		return
	}
	rec.Type = typ
	l.ds.Records = append(l.ds.Records, rec)
}

func (l *combinedLoader) finish() {
	if l.blankTracts > 0 {
		l.warn(core.WarnBlankTract,
			fmt.Sprintf("skipped %d row(s) with a blank TRACT (first on row %d)", l.blankTracts, l.firstBlank), 0)
	}
	for _, raw := range l.otherOrder {
		label := raw
		if label == "" {
			label = "(blank)"
		}
		l.warn(core.WarnOtherType,
			fmt.Sprintf("%d row(s) with TYPE %q are not MI, NPRI, ORI or WI and were left out of the interest sheets",
				l.otherCounts[raw], label), 0)
	}
}

func countDataRows(rows [][]string) int {
	n := 0
	for _, r := range rows {
		if !workbook.IsBlankRow(r) {
			n++
		}
	}
	return n
}
