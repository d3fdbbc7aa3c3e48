package render

import (
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/xuri/excelize/v2"
)

// passthrough copies a raw grid. With a source workbook the formatting of the
// source sheet is copied too; otherwise cells get the house font.
func (r *renderer) passthrough(s *core.Sheet) error {
	src := r.opts.Source
	srcSheet := r.opts.SourceSheet
	if src != nil && srcSheet == "" {
		srcSheet = s.Name
	}
	if src != nil {
		if idx, err := src.GetSheetIndex(srcSheet); err != nil || idx < 0 {
			src = nil
		}
	}

	copied := make(map[int]int)
	width := 0
	for ri, row := range s.Grid {
		width = max(width, len(row))
		for ci, v := range row {
			if err := r.setValue(s.Name, ci, ri+1, v); err != nil {
				return err
			}
			if src == nil {
				if v.IsEmpty() {
					continue
				}
				if err := r.setStyle(s.Name, ci, ri+1, cellStyle{}); err != nil {
					return err
				}
				continue
			}
			if err := r.copyCellStyle(src, srcSheet, s.Name, cell(ci, ri+1), copied); err != nil {
				return err
			}
		}
	}
	if src == nil {
		return nil
	}
	return r.copyLayout(src, srcSheet, s.Name, len(s.Grid), width)
}

func (r *renderer) copyCellStyle(src *excelize.File, srcSheet, sheet, ref string, copied map[int]int) error {
	srcID, err := src.GetCellStyle(srcSheet, ref)
	if err != nil || srcID == 0 {
		return nil
	}
	id, ok := copied[srcID]
	if !ok {
		st, err := src.GetStyle(srcID)
		if err != nil {
			return nil
		}
		if id, err = r.f.NewStyle(st); err != nil {
			return err
		}
		copied[srcID] = id
	}
	return r.f.SetCellStyle(sheet, ref, ref, id)
}

// copyLayout copies column widths, row heights and merged ranges.
func (r *renderer) copyLayout(src *excelize.File, srcSheet, sheet string, rows, cols int) error {
	for c := 1; c <= cols; c++ {
		name, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return err
		}
		w, err := src.GetColWidth(srcSheet, name)
		if err != nil {
			return err
		}
		if err := r.f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	for row := 1; row <= rows; row++ {
		h, err := src.GetRowHeight(srcSheet, row)
		if err != nil {
			return err
		}
		if err := r.f.SetRowHeight(sheet, row, h); err != nil {
			return err
		}
	}
	merged, err := src.GetMergeCells(srcSheet)
	if err != nil {
		return err
	}
	for _, m := range merged {
		if err := r.f.MergeCell(sheet, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return err
		}
	}
	return nil
}
