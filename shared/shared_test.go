package shared

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/workbook"
)

func TestExpandFillsDependentFromBase(t *testing.T) {
	rows := []workbook.CellInput{
		{Row: 1, Col: 0, Kind: workbook.CellFormula, Expression: "A$1+A2", SharedGroup: 3}, // A2
		{Row: 40, Col: 0, Kind: workbook.CellFormula, Expression: "", SharedGroup: 3},       // A41
	}
	out := Expand(rows)
	require.Equal(t, "A$1+A2", out[0].Expression)
	require.Equal(t, "A$1+A41", out[1].Expression)
}

func TestExpandLeavesNonSharedCellsUntouched(t *testing.T) {
	rows := []workbook.CellInput{
		{Row: 0, Col: 0, Kind: workbook.CellFormula, Expression: "B1+1"},
		{Row: 0, Col: 1, Kind: workbook.CellLiteral, Value: workbook.Number(5)},
	}
	out := Expand(rows)
	require.Equal(t, rows, out)
}

func TestExpandLeavesDependentEmptyWhenBaseMissing(t *testing.T) {
	rows := []workbook.CellInput{
		{Row: 5, Col: 2, Kind: workbook.CellFormula, Expression: "", SharedGroup: 9},
	}
	out := Expand(rows)
	require.Equal(t, "", out[0].Expression)
}

func TestExpandDoesNotMutateInput(t *testing.T) {
	rows := []workbook.CellInput{
		{Row: 1, Col: 0, Kind: workbook.CellFormula, Expression: "A$1+A2", SharedGroup: 1},
		{Row: 2, Col: 0, Kind: workbook.CellFormula, Expression: "", SharedGroup: 1},
	}
	_ = Expand(rows)
	require.Equal(t, "", rows[1].Expression)
}
