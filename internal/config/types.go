// Package config provides the report settings shared by the CLI and the HTTP
// server. It is decoupled from CLI concerns so the server and tests can load
// the same settings without cobra.
package config

import (
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// NumericPolicy controls what happens to rows whose TRACT NRI or DECIMAL
// INTEREST cell cannot be parsed.
type NumericPolicy string

const (
	// NumericFail rejects the input with one error per bad cell.
	NumericFail NumericPolicy = "fail"
	// NumericDrop skips the row and records a warning.
	NumericDrop NumericPolicy = "drop"
)

// Margins are page margins in inches.
type Margins struct {
	Left   float64 `koanf:"left" yaml:"left"`
	Right  float64 `koanf:"right" yaml:"right"`
	Top    float64 `koanf:"top" yaml:"top"`
	Bottom float64 `koanf:"bottom" yaml:"bottom"`
}

// Style holds the spreadsheet presentation settings.
type Style struct {
	FontName          string  `koanf:"font_name" yaml:"font_name"`
	FontSize          float64 `koanf:"font_size" yaml:"font_size"`
	HeaderFill        string  `koanf:"header_fill" yaml:"header_fill"`
	InfoFill          string  `koanf:"info_fill" yaml:"info_fill"`
	NRIDecimals       int     `koanf:"nri_decimals" yaml:"nri_decimals"`
	AcreDecimals      int     `koanf:"acre_decimals" yaml:"acre_decimals"`
	GrossAcreDecimals int     `koanf:"gross_acre_decimals" yaml:"gross_acre_decimals"`
	Landscape         bool    `koanf:"landscape" yaml:"landscape"`
	FitToWidth        bool    `koanf:"fit_to_width" yaml:"fit_to_width"`
	Margins           Margins `koanf:"margins" yaml:"margins"`
	// Footer uses spreadsheet header/footer codes (&P page, &N pages)
	Footer string `koanf:"footer" yaml:"footer"`
}

// Settings holds everything needed to load inputs and build a report.
type Settings struct {
	DataSheet      string        `koanf:"data_sheet" yaml:"data_sheet"`
	TractListSheet string        `koanf:"tract_list_sheet" yaml:"tract_list_sheet"`
	HeaderScanRows int           `koanf:"header_scan_rows" yaml:"header_scan_rows"`
	MaxRows        int           `koanf:"max_rows" yaml:"max_rows"`
	NumericPolicy  NumericPolicy `koanf:"numeric_policy" yaml:"numeric_policy"`
	NRIBasis       string        `koanf:"nri_basis" yaml:"nri_basis"`
	// Tolerance is a decimal string so it survives YAML and env round trips exactly
	Tolerance string `koanf:"tolerance" yaml:"tolerance"`
	Style     Style  `koanf:"style" yaml:"style"`
}

// Basis returns the parsed NRI basis. Validate rejects unknown values.
func (s *Settings) Basis() core.NRIBasis {
	b, _ := core.ParseNRIBasis(s.NRIBasis)
	return b
}

// ToleranceValue returns the reconciliation tolerance as a decimal,
// falling back to DefaultTolerance when unset or unparseable.
func (s *Settings) ToleranceValue() decimal.Decimal {
	if s.Tolerance == "" {
		return decimal.RequireFromString(DefaultTolerance)
	}
	d, err := decimal.NewFromString(s.Tolerance)
	if err != nil {
		return decimal.RequireFromString(DefaultTolerance)
	}
	return d
}
