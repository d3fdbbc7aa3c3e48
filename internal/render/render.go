// Package render writes a core.Report to an xlsx workbook.
package render

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/xuri/excelize/v2"
)

// Options configures rendering.
type Options struct {
	Logger *slog.Logger
	// Source is the schedule workbook; when set, passthrough sheets copy its
	// cell styles, column widths, row heights and merged ranges
	Source *excelize.File
	// SourceSheet names the sheet in Source to copy formatting from
	SourceSheet string
}

// Workbook renders rep into a new workbook. Sheets appear in report order.
// The caller owns the returned file and must close it.
func Workbook(rep *core.Report, style config.Style, opts Options) (*excelize.File, error) {
	if rep == nil || len(rep.Sheets) == 0 {
		return nil, fmt.Errorf("nothing to render: report has no sheets")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	config.ApplyStyleDefaults(&style)

	f := excelize.NewFile()
	r := &renderer{f: f, st: newStyler(f, style), style: style, opts: opts}
	for i, sheet := range rep.Sheets {
		if err := r.addSheet(i, sheet.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		var err error
		if sheet.Passthrough() {
			err = r.passthrough(sheet)
		} else {
			err = r.sheet(sheet)
		}
		if err == nil {
			err = r.pageSetup(sheet)
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to render sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	opts.Logger.Debug("rendered workbook",
		"kind", rep.Kind,
		"sheets", len(rep.Sheets),
		"styles", len(r.st.ids))
	return f, nil
}

// Write renders rep and writes the workbook to w.
func Write(w io.Writer, rep *core.Report, style config.Style, opts Options) error {
	f, err := Workbook(rep, style, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveAs renders rep and saves it at path.
func SaveAs(path string, rep *core.Report, style config.Style, opts Options) error {
	f, err := Workbook(rep, style, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

type renderer struct {
	f     *excelize.File
	st    *styler
	style config.Style
	opts  Options
}

func (r *renderer) addSheet(i int, name string) error {
	if i == 0 {
		return r.f.SetSheetName(r.f.GetSheetName(0), name)
	}
	_, err := r.f.NewSheet(name)
	return err
}

// cell returns the A1 reference of a 0-based column and 1-based row.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func (r *renderer) setValue(sheet string, col, row int, v core.Value) error {
	ref := cell(col, row)
	switch v.Kind {
	case core.ValueText:
		return r.f.SetCellStr(sheet, ref, v.Text)
	case core.ValueNumber:
		return r.f.SetCellFloat(sheet, ref, v.Number.InexactFloat64(), -1, 64)
	default:
		return nil
	}
}

func (r *renderer) setStyle(sheet string, col, row int, cs cellStyle) error {
	id, err := r.st.id(cs)
	if err != nil {
		return err
	}
	ref := cell(col, row)
	return r.f.SetCellStyle(sheet, ref, ref, id)
}

// write sets a value and its style in one step.
func (r *renderer) write(sheet string, col, row int, v core.Value, cs cellStyle) error {
	if err := r.setValue(sheet, col, row, v); err != nil {
		return err
	}
	return r.setStyle(sheet, col, row, cs)
}
