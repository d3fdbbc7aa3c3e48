package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FormatHeader returns a markdown header.
func FormatHeader(level int, title string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + title
}

// FormatKeyValue returns a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// TitleCase title-cases a snake_case or lower-case label.
func TitleCase(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Table writes rows under headers: a box-drawn table in text mode and a
// markdown table otherwise. Columns listed in alignRight are right aligned.
func (r *Renderer) Table(headers []string, rows [][]string, alignRight ...int) {
	tw := table.NewWriter()
	hdr := make(table.Row, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	tw.AppendHeader(hdr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		tw.AppendRow(tr)
	}
	if len(alignRight) > 0 {
		cfgs := make([]table.ColumnConfig, 0, len(alignRight))
		for _, i := range alignRight {
			cfgs = append(cfgs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
		tw.SetColumnConfigs(cfgs)
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(tw.RenderMarkdown())
		r.Println("")
		return
	}
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	r.Println(tw.Render())
}
