package render

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/xuri/excelize/v2"
)

// pageSetup applies orientation, margins, fit-to-width, the repeated header
// row and the centered page header and footer.
func (r *renderer) pageSetup(s *core.Sheet) error {
	st := r.style
	orientation := "portrait"
	if st.Landscape {
		orientation = "landscape"
	}
	layout := &excelize.PageLayoutOptions{Orientation: &orientation}
	structured := !s.Passthrough()
	if st.FitToWidth && structured && isInterestSheet(s) {
		one, zero := 1, 0
		layout.FitToWidth = &one
		layout.FitToHeight = &zero
		fit := true
		if err := r.f.SetSheetProps(s.Name, &excelize.SheetPropsOptions{FitToPage: &fit}); err != nil {
			return err
		}
	}
	if err := r.f.SetPageLayout(s.Name, layout); err != nil {
		return err
	}

	m := st.Margins
	if err := r.f.SetPageMargins(s.Name, &excelize.PageLayoutMarginsOptions{
		Left: &m.Left, Right: &m.Right, Top: &m.Top, Bottom: &m.Bottom,
	}); err != nil {
		return err
	}

	if structured && isInterestSheet(s) {
		if err := r.f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Titles",
			RefersTo: fmt.Sprintf("'%s'!$1:$1", strings.ReplaceAll(s.Name, "'", "''")),
			Scope:    s.Name,
		}); err != nil {
			return err
		}
	}

	title := s.Title
	if title == "" {
		title = s.Name
	}
	return r.f.SetHeaderFooter(s.Name, &excelize.HeaderFooterOptions{
		OddHeader: "&C" + strings.ReplaceAll(title, "&", "&&"),
		OddFooter: "&C" + st.Footer,
	})
}
