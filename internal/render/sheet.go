package render

import (
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/xuri/excelize/v2"
)

// sheet lays out a structured sheet: a header row, then each block.
func (r *renderer) sheet(s *core.Sheet) error {
	if err := r.columns(s); err != nil {
		return err
	}
	if err := r.headerRow(s); err != nil {
		return err
	}

	row := 2
	for _, b := range s.Blocks {
		var err error
		switch b.Kind {
		case core.BlockTract:
			row, err = r.tractBlock(s, b, row)
		case core.BlockOwner:
			row, err = r.ownerBlock(s, b, row)
		default:
			row, err = r.tableBlock(s, b, row)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// boxed reports whether the sheet is a plain bordered table (Tract List, Unit Recap).
func boxed(s *core.Sheet) bool {
	return len(s.Blocks) == 0 || s.Blocks[0].Kind == core.BlockTable
}

func (r *renderer) columns(s *core.Sheet) error {
	for i, c := range s.Columns {
		if c.Width <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := r.f.SetColWidth(s.Name, name, name, c.Width); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) headerRow(s *core.Sheet) error {
	cs := cellStyle{bold: true, center: true, fill: r.style.HeaderFill}
	if !isInterestSheet(s) {
		cs.border = thinAll
	} else {
		cs.wrap = true
		cs.border = thinBottom
	}
	for i, c := range s.Columns {
		if err := r.write(s.Name, i, 1, txtOrEmpty(c.Header), cs); err != nil {
			return err
		}
	}
	return nil
}

// isInterestSheet reports whether the sheet is one of the per-interest sheets,
// which keep their header style even when they have no blocks.
func isInterestSheet(s *core.Sheet) bool {
	return s.Name != core.SheetTractList && s.Name != core.SheetUnitRecap
}

func txtOrEmpty(s string) core.Value {
	if s == "" {
		return core.Empty()
	}
	return core.Text(s)
}

// bodyStyle is the style of a data cell in column i.
func (r *renderer) bodyStyle(s *core.Sheet, i int, bold bool, border edges) cellStyle {
	cs := cellStyle{bold: bold, border: border}
	if i < len(s.Columns) {
		cs.center = s.Columns[i].Center
		cs.numFmt = r.st.numFmt(s.Columns[i].Format)
	}
	return cs
}

func (r *renderer) dataRow(s *core.Sheet, row int, cells []core.Value, border edges) error {
	for i, v := range cells {
		cs := r.bodyStyle(s, i, false, border)
		if v.Kind != core.ValueNumber {
			cs.numFmt = ""
		}
		if err := r.write(s.Name, i, row, v, cs); err != nil {
			return err
		}
	}
	for i := len(cells); border != noEdges && i < len(s.Columns); i++ {
		if err := r.setStyle(s.Name, i, row, r.bodyStyle(s, i, false, border)); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) totalRow(s *core.Sheet, row int, total *core.Row, border edges, fullWidth bool) error {
	if err := r.write(s.Name, 0, row, core.Text(total.Label), cellStyle{bold: true, border: border, center: boxed(s)}); err != nil {
		return err
	}
	for i := 1; i < len(s.Columns); i++ {
		v := total.Cell(i)
		if v.IsEmpty() && !fullWidth {
			continue
		}
		if err := r.write(s.Name, i, row, v, r.bodyStyle(s, i, true, border)); err != nil {
			return err
		}
	}
	return nil
}

// tractBlock writes a blank row, the three-row info box, a blank row, the
// owner rows and the TOTALS row. Returns the next free row.
func (r *renderer) tractBlock(s *core.Sheet, b *core.Block, row int) (int, error) {
	row++
	info := cellStyle{fill: r.style.InfoFill}
	for _, field := range b.Header {
		if err := r.write(s.Name, 0, row, core.Text(field.Label), info); err != nil {
			return row, err
		}
		vs := info
		vs.numFmt = r.st.numFmt(field.Format)
		vs.wrap = field.Value.Kind == core.ValueText
		if err := r.write(s.Name, 1, row, field.Value, vs); err != nil {
			return row, err
		}
		for i := 2; i < len(s.Columns); i++ {
			if err := r.setStyle(s.Name, i, row, info); err != nil {
				return row, err
			}
		}
		row++
	}
	row++

	for _, data := range b.Rows {
		if err := r.dataRow(s, row, data.Cells, noEdges); err != nil {
			return row, err
		}
		row++
	}
	if b.Total != nil {
		if err := r.totalRow(s, row, b.Total, noEdges, false); err != nil {
			return row, err
		}
		row++
	}
	return row, nil
}

// ownerBlock writes a blank row, one merged boxed row per header field, a
// blank row, the tract rows and the TOTAL row. Returns the next free row.
func (r *renderer) ownerBlock(s *core.Sheet, b *core.Block, row int) (int, error) {
	row++
	last := len(s.Columns) - 1
	for fi, field := range b.Header {
		box := edges{}
		if fi == 0 {
			box.top = "medium"
		}
		if fi == len(b.Header)-1 {
			box.bottom = "medium"
		}
		for i := 0; i <= last; i++ {
			e := box
			if i == 0 {
				e.left = "medium"
			}
			if i == last {
				e.right = "medium"
			}
			cs := cellStyle{fill: r.style.InfoFill, border: e}
			if i == 0 {
				cs.bold = true
			} else {
				cs.wrap = true
			}
			if err := r.setStyle(s.Name, i, row, cs); err != nil {
				return row, err
			}
		}
		if err := r.setValue(s.Name, 0, row, core.Text(field.Label)); err != nil {
			return row, err
		}
		if err := r.setValue(s.Name, 1, row, field.Value); err != nil {
			return row, err
		}
		if last > 1 {
			if err := r.f.MergeCell(s.Name, cell(1, row), cell(last, row)); err != nil {
				return row, err
			}
		}
		row++
	}
	row++

	for i, data := range b.Rows {
		border := thinNoBottom
		if i == len(b.Rows)-1 {
			border = thinAll
		}
		if err := r.dataRow(s, row, data.Cells, border); err != nil {
			return row, err
		}
		row++
	}
	if b.Total != nil {
		if err := r.totalRow(s, row, b.Total, thinAll, true); err != nil {
			return row, err
		}
		row++
	}
	return row, nil
}

// tableBlock writes bordered rows directly under the header.
func (r *renderer) tableBlock(s *core.Sheet, b *core.Block, row int) (int, error) {
	for _, data := range b.Rows {
		if err := r.dataRow(s, row, data.Cells, thinAll); err != nil {
			return row, err
		}
		row++
	}
	if b.Total != nil {
		if err := r.totalRow(s, row, b.Total, thinAll, true); err != nil {
			return row, err
		}
		row++
	}
	return row, nil
}
