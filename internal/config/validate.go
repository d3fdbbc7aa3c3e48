package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate checks the settings and reports every problem found.
func (s *Settings) Validate() error {
	var errs []error
	if s.HeaderScanRows < 1 {
		errs = append(errs, fmt.Errorf("header_scan_rows must be at least 1, got %d", s.HeaderScanRows))
	}
	if s.MaxRows < 1 {
		errs = append(errs, fmt.Errorf("max_rows must be at least 1, got %d", s.MaxRows))
	}
	switch s.NumericPolicy {
	case NumericFail, NumericDrop:
	default:
		errs = append(errs, fmt.Errorf("numeric_policy must be %q or %q, got %q\nHint: use %q to reject bad cells or %q to skip their rows",
			NumericFail, NumericDrop, s.NumericPolicy, NumericFail, NumericDrop))
	}
	if _, ok := core.ParseNRIBasis(s.NRIBasis); !ok {
		errs = append(errs, fmt.Errorf("nri_basis must be %q or %q, got %q", core.BasisFactor, core.BasisOwner, s.NRIBasis))
	}
	if s.Tolerance != "" {
		d, err := decimal.NewFromString(s.Tolerance)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("tolerance %q is not a number", s.Tolerance))
		case d.IsNegative():
			errs = append(errs, fmt.Errorf("tolerance must not be negative, got %s", s.Tolerance))
		}
	}
	if err := s.Style.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the style settings.
func (st *Style) Validate() error {
	var errs []error
	if st.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("style.font_size must be positive, got %v", st.FontSize))
	}
	for name, v := range map[string]string{"style.header_fill": st.HeaderFill, "style.info_fill": st.InfoFill} {
		if !hexColor.MatchString(v) {
			errs = append(errs, fmt.Errorf("%s must be a six digit hex color, got %q", name, v))
		}
	}
	for name, v := range map[string]int{
		"style.nri_decimals":        st.NRIDecimals,
		"style.acre_decimals":       st.AcreDecimals,
		"style.gross_acre_decimals": st.GrossAcreDecimals,
	} {
		if v < 0 || v > 15 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 15, got %d", name, v))
		}
	}
	return errors.Join(errs...)
}
