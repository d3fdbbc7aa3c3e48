package config

// Default configuration values.
const (
	DefaultDataSheet      = "Combined"
	DefaultTractListSheet = "Tract List"
	DefaultHeaderScanRows = 20
	DefaultMaxRows        = 100000
	DefaultNumericPolicy  = NumericFail
	DefaultNRIBasis       = "factor"
	DefaultTolerance      = "0.00000001"

	DefaultFontName          = "Times New Roman"
	DefaultFontSize          = 10
	DefaultHeaderFill        = "DDEBF7"
	DefaultInfoFill          = "F2F2F2"
	DefaultNRIDecimals       = 8
	DefaultAcreDecimals      = 6
	DefaultGrossAcreDecimals = 2
	DefaultFooter            = "Page &P of &N"
)

// DefaultStyle returns the house spreadsheet style.
func DefaultStyle() Style {
	return Style{
		FontName:          DefaultFontName,
		FontSize:          DefaultFontSize,
		HeaderFill:        DefaultHeaderFill,
		InfoFill:          DefaultInfoFill,
		NRIDecimals:       DefaultNRIDecimals,
		AcreDecimals:      DefaultAcreDecimals,
		GrossAcreDecimals: DefaultGrossAcreDecimals,
		Landscape:         true,
		FitToWidth:        true,
		Margins:           Margins{Left: 0.25, Right: 0.25, Top: 0.75, Bottom: 0.75},
		Footer:            DefaultFooter,
	}
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{Style: DefaultStyle()}
	ApplyDefaults(s)
	return s
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(s *Settings) {
	if s == nil {
		return
	}
	if s.DataSheet == "" {
		s.DataSheet = DefaultDataSheet
	}
	if s.TractListSheet == "" {
		s.TractListSheet = DefaultTractListSheet
	}
	if s.HeaderScanRows == 0 {
		s.HeaderScanRows = DefaultHeaderScanRows
	}
	if s.MaxRows == 0 {
		s.MaxRows = DefaultMaxRows
	}
	if s.NumericPolicy == "" {
		s.NumericPolicy = DefaultNumericPolicy
	}
	if s.NRIBasis == "" {
		s.NRIBasis = DefaultNRIBasis
	}
	if s.Tolerance == "" {
		s.Tolerance = DefaultTolerance
	}
	ApplyStyleDefaults(&s.Style)
}

// ApplyStyleDefaults fills zero-valued style fields. Booleans are left alone.
func ApplyStyleDefaults(st *Style) {
	if st == nil {
		return
	}
	if st.FontName == "" {
		st.FontName = DefaultFontName
	}
	if st.FontSize == 0 {
		st.FontSize = DefaultFontSize
	}
	if st.HeaderFill == "" {
		st.HeaderFill = DefaultHeaderFill
	}
	if st.InfoFill == "" {
		st.InfoFill = DefaultInfoFill
	}
	if st.NRIDecimals == 0 {
		st.NRIDecimals = DefaultNRIDecimals
	}
	if st.AcreDecimals == 0 {
		st.AcreDecimals = DefaultAcreDecimals
	}
	if st.GrossAcreDecimals == 0 {
		st.GrossAcreDecimals = DefaultGrossAcreDecimals
	}
	if st.Footer == "" {
		st.Footer = DefaultFooter
	}
}
