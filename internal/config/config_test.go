package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "Combined", s.DataSheet)
	assert.Equal(t, "Tract List", s.TractListSheet)
	assert.Equal(t, 20, s.HeaderScanRows)
	assert.Equal(t, 100000, s.MaxRows)
	assert.Equal(t, NumericFail, s.NumericPolicy)
	assert.Equal(t, core.BasisFactor, s.Basis())
	assert.True(t, s.ToleranceValue().Equal(decimal.New(1, -8)))
	assert.Equal(t, "Times New Roman", s.Style.FontName)
	assert.True(t, s.Style.Landscape)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"bad policy", func(s *Settings) { s.NumericPolicy = "ignore" }, "numeric_policy"},
		{"bad basis", func(s *Settings) { s.NRIBasis = "gross" }, "nri_basis"},
		{"negative tolerance", func(s *Settings) { s.Tolerance = "-1" }, "tolerance must not be negative"},
		{"non numeric tolerance", func(s *Settings) { s.Tolerance = "tiny" }, "not a number"},
		{"zero max rows", func(s *Settings) { s.MaxRows = 0 }, "max_rows"},
		{"bad fill", func(s *Settings) { s.Style.HeaderFill = "blue" }, "style.header_fill"},
		{"too many decimals", func(s *Settings) { s.Style.NRIDecimals = 20 }, "style.nri_decimals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("{}\n"), 0o600))

	tests := []struct {
		name      string
		start     string
		maxLevels int
		want      string
	}{
		{"config in start dir", root, 1, root},
		{"found walking up", nested, 0, root},
		{"found at the last allowed level", nested, 3, root},
		{"search stops before the root", nested, 2, ""},
		{"no config anywhere", t.TempDir(), 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindProjectRoot(tt.start, tt.maxLevels)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Equal(t, filepath.Join(got, ConfigFileNameAlt), FindConfigFile(got))
			}
		})
	}
}
