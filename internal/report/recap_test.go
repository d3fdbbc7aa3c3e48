package report

import (
	"testing"

	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRecap(t *testing.T) {
	sheet := func(values ...string) *core.Sheet {
		s := &core.Sheet{Name: "LORI", Columns: UnitColumns(core.InterestMI)}
		col := s.ColumnIndex(HeaderUnitNRI)
		b := &core.Block{Kind: core.BlockOwner, Key: "Alpha Minerals"}
		for _, v := range values {
			cells := make([]core.Value, len(s.Columns))
			cells[col] = core.Number(d(v))
			b.Rows = append(b.Rows, core.Row{Cells: cells})
		}
		s.Blocks = []*core.Block{b}
		return s
	}
	rc := &core.Recap{GrandTotal: d("1")}

	tests := []struct {
		name    string
		sheets  []*core.Sheet
		wantErr bool
	}{
		{"rows match the recap", []*core.Sheet{sheet("0.6"), sheet("0.4")}, false},
		{"difference within tolerance", []*core.Sheet{sheet("0.6", "0.399999999")}, false},
		{"rows disagree with the recap", []*core.Sheet{sheet("0.6", "0.3")}, true},
		{"sheets without the column are skipped", []*core.Sheet{sheet("1"), recapSheet(rc, LabelUnitTotal)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rerr := checkRecap(rc, tt.sheets, HeaderUnitNRI, d("0.00000001"))
			if !tt.wantErr {
				assert.Nil(t, rerr)
				return
			}
			require.NotNil(t, rerr)
			assert.Equal(t, "0.9", rerr.Expected.String())
			assert.Equal(t, "1", rerr.Actual.String())
			assert.Contains(t, rerr.Error(), "recap grand total")
		})
	}
}
