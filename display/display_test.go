package display

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/address"
	"github.com/xlcalc/xlcalc/workbook"
)

func addr(col, row int) address.Address { return address.Address{Col: col, Row: row} }

func TestEffectiveFormatCodePrefersConditionalOverride(t *testing.T) {
	rules := []ConditionalFormat{
		{Sheet: "Sheet1", Range: address.Range{Start: addr(1, 1), End: addr(1, 10)}, Code: "0.00%"},
	}
	got := EffectiveFormatCode("Sheet1", addr(1, 5), "0", 0, rules)
	require.Equal(t, "0.00%", got)
}

func TestEffectiveFormatCodeFallsBackToCellCode(t *testing.T) {
	got := EffectiveFormatCode("Sheet1", addr(1, 5), "#,##0", 0, nil)
	require.Equal(t, "#,##0", got)
}

func TestEffectiveFormatCodeFallsBackToBuiltIn(t *testing.T) {
	got := EffectiveFormatCode("Sheet1", addr(1, 5), "", 9, nil)
	require.Equal(t, "0%", got)
}

func TestEffectiveFormatCodeDefaultsToGeneral(t *testing.T) {
	got := EffectiveFormatCode("Sheet1", addr(1, 5), "", 999, nil)
	require.Equal(t, "General", got)
}

func TestRenderDispatchesPerScalarKind(t *testing.T) {
	require.Equal(t, "", Render(workbook.Empty(), "0", false))
	require.Equal(t, "10%", Render(workbook.Number(0.1), "0%", false))
	require.Equal(t, "hello", Render(workbook.Text("hello"), "@", false))
	require.Equal(t, "TRUE", Render(workbook.Bool(true), "General", false))
	require.Equal(t, "#DIV/0!", Render(workbook.Error(workbook.ErrDiv0), "0", false))
}
