package render

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/xuri/excelize/v2"
)

// edges selects which sides of a cell get a border, and how heavy.
type edges struct {
	left, right, top, bottom string
}

var (
	noEdges      = edges{}
	thinAll      = edges{"thin", "thin", "thin", "thin"}
	thinNoBottom = edges{"thin", "thin", "thin", ""}
	thinBottom   = edges{bottom: "thin"}
)

// cellStyle is the cache key for an excelize style.
type cellStyle struct {
	bold   bool
	center bool
	wrap   bool
	fill   string
	numFmt string
	border edges
}

// styler creates excelize styles on demand and reuses identical ones.
type styler struct {
	f     *excelize.File
	style config.Style
	ids   map[cellStyle]int
}

func newStyler(f *excelize.File, style config.Style) *styler {
	return &styler{f: f, style: style, ids: make(map[cellStyle]int)}
}

var borderTypes = map[string]int{"thin": 1, "medium": 2}

func (s *styler) id(cs cellStyle) (int, error) {
	if id, ok := s.ids[cs]; ok {
		return id, nil
	}

	st := &excelize.Style{
		Font:      &excelize.Font{Family: s.style.FontName, Size: s.style.FontSize, Bold: cs.bold},
		Alignment: &excelize.Alignment{Vertical: "bottom", WrapText: cs.wrap},
	}
	if cs.center {
		st.Alignment.Horizontal = "center"
	} else if cs.wrap {
		st.Alignment.Horizontal = "left"
	}
	if cs.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{cs.fill}}
	}
	if cs.numFmt != "" {
		f := cs.numFmt
		st.CustomNumFmt = &f
	}
	for _, e := range []struct{ side, kind string }{
		{"left", cs.border.left}, {"right", cs.border.right},
		{"top", cs.border.top}, {"bottom", cs.border.bottom},
	} {
		if e.kind != "" {
			st.Border = append(st.Border, excelize.Border{Type: e.side, Color: "000000", Style: borderTypes[e.kind]})
		}
	}

	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	s.ids[cs] = id
	return id, nil
}

// numFmt returns the display format for a column format.
func (s *styler) numFmt(nf core.NumberFormat) string {
	switch nf {
	case core.FormatNRI:
		return decimals(s.style.NRIDecimals)
	case core.FormatAcres:
		return decimals(s.style.AcreDecimals)
	case core.FormatGrossAcres:
		return decimals(s.style.GrossAcreDecimals)
	default:
		return ""
	}
}

// decimals returns a fixed-point format such as 0.00000000.
func decimals(n int) string {
	if n <= 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", n)
}
