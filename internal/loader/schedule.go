package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdoi/internal/tract"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// scheduleEnd marks the row that closes the allocation table.
const scheduleEnd = "TOTAL UNIT ACRES"

// scheduleColumns locates the allocation table columns. The header row is
// scanned for recognizable names; positions 0-3 are the fallback.
type scheduleColumns struct {
	tract, legal, acres, allocation int
}

func resolveScheduleColumns(header []string) scheduleColumns {
	cols := scheduleColumns{tract: 0, legal: 1, acres: 2, allocation: 3}
	found := map[string]bool{}
	for i, h := range header {
		f := workbook.Fold(h)
		switch {
		case i == 0:
		case strings.Contains(f, "allocation") && !found["allocation"]:
			cols.allocation, found["allocation"] = i, true
		case strings.Contains(f, "legal") && !found["legal"]:
			cols.legal, found["legal"] = i, true
		case strings.Contains(f, "acre") && !found["acres"]:
			cols.acres, found["acres"] = i, true
		}
	}
	return cols
}

// LoadSchedule reads the Tract List allocation table from src.
func LoadSchedule(ctx context.Context, src workbook.Source, opts Options) (*core.Schedule, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, _, ok := workbook.FindSheet(src,
		workbook.ExactName{Name: opts.TractListSheet},
		workbook.FoldedName{Name: opts.TractListSheet},
	)
	if !ok {
		return nil, &core.ValidationError{
			Kind:   core.MissingSheet,
			File:   FileSchedule,
			Sheet:  opts.TractListSheet,
			Sheets: src.SheetNames(),
		}
	}

	rows, err := src.Rows(sheet, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	start := -1
	for i, row := range rows {
		if workbook.Fold(workbook.Cell(row, 0)) == "tract" {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &core.ValidationError{
			Kind:   core.NoRecords,
			File:   FileSchedule,
			Sheet:  sheet,
			Detail: `no row starts with a "Tract" header`,
		}
	}
	cols := resolveScheduleColumns(rows[start])

	sched := &core.Schedule{
		SheetName:   sheet,
		Allocations: make(map[string]*core.TractAllocation),
	}
	warn := func(code, msg string, row int, tr string) {
		sched.Warnings = append(sched.Warnings, core.Warning{
			Severity: core.SeverityWarning,
			Code:     code,
			Message:  msg,
			Sheet:    sheet,
			Row:      row,
			Tract:    tr,
		})
	}

	var errs []error
	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		srcRow := i + 1
		raw := workbook.Cell(row, cols.tract)
		if raw == "" || strings.EqualFold(raw, scheduleEnd) {
			break
		}
		key := tract.Normalize(raw)

		factor, blank, ok := parseNumber(workbook.Cell(row, cols.allocation))
		switch {
		case !ok:
			errs = append(errs, &core.ValidationError{
				Kind: core.InvalidValue, File: FileSchedule, Sheet: sheet,
				Row: srcRow, Column: "Tract Allocation", Value: workbook.Cell(row, cols.allocation), Tract: key,
			})
			continue
		case blank:
			warn(core.WarnInvalidOptional, fmt.Sprintf("tract %s has no allocation factor; using 0", key), srcRow, key)
		case factor.IsNegative() || factor.GreaterThan(decimal.NewFromInt(1)):
			errs = append(errs, &core.ValidationError{
				Kind: core.InvalidValue, File: FileSchedule, Sheet: sheet,
				Row: srcRow, Column: "Tract Allocation", Value: factor.String(), Tract: key,
				Detail: "allocation factor must be between 0 and 1",
			})
			continue
		}

		acres, _, ok := parseNumber(workbook.Cell(row, cols.acres))
		if !ok {
			warn(core.WarnInvalidOptional,
				fmt.Sprintf("tract %s acres %q is not a number; using 0", key, workbook.Cell(row, cols.acres)), srcRow, key)
		}

		entry := &core.TractAllocation{
			Tract:            key,
			LegalDescription: workbook.Cell(row, cols.legal),
			GrossAcres:       acres,
			AllocationFactor: factor,
			Row:              srcRow,
		}
		if prev, dup := sched.Allocations[key]; dup {
			if !prev.AllocationFactor.Equal(factor) {
				errs = append(errs, &core.ValidationError{
					Kind: core.DuplicateTract, File: FileSchedule, Sheet: sheet, Tract: key, Row: srcRow,
					Detail: fmt.Sprintf("row %d has %s, row %d has %s", prev.Row, prev.AllocationFactor, srcRow, factor),
				})
				continue
			}
			warn(core.WarnDuplicateTract,
				fmt.Sprintf("tract %s is listed again with the same allocation (first on row %d); ignored", key, prev.Row), srcRow, key)
			continue
		}
		sched.Allocations[key] = entry
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(sched.Allocations) == 0 {
		return nil, &core.ValidationError{
			Kind:   core.NoRecords,
			File:   FileSchedule,
			Sheet:  sheet,
			Detail: "the Tract List has no allocation rows",
		}
	}

	if total := sched.TotalFactor(); !core.WithinTolerance(total, decimal.NewFromInt(1), opts.Tolerance) {
		warn(core.WarnAllocationTotal,
			fmt.Sprintf("allocation factors sum to %s, expected 1", total.StringFixed(8)), 0, "")
	}

	grid, err := src.Grid(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to capture tract list: %w", err)
	}
	sched.TractList = grid

	logger.Info("loaded schedule",
		"sheet", sheet,
		"tracts", len(sched.Allocations),
		"total_factor", sched.TotalFactor().StringFixed(8),
		"warnings", len(sched.Warnings))
	return sched, nil
}
