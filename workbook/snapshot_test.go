package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/address"
)

func TestNewSnapshotRejectsDuplicateSheetNames(t *testing.T) {
	_, err := NewSnapshot([]SheetInput{
		{Name: "Sheet1"},
		{Name: "sheet1"},
	}, nil)
	assert.Error(t, err)
}

func TestSheetByNameIsCaseInsensitive(t *testing.T) {
	snap, err := NewSnapshot([]SheetInput{{Name: "Budget"}}, nil)
	require.NoError(t, err)

	s, ok := snap.SheetByName("BUDGET")
	require.True(t, ok)
	assert.Equal(t, "Budget", s.Name)
}

func TestCellRoundTripsLiteralAndString(t *testing.T) {
	snap, err := NewSnapshot([]SheetInput{{
		Name: "Sheet1",
		Rows: []CellInput{
			{Row: 0, Col: 0, Kind: CellLiteral, Value: Number(42)},
			{Row: 0, Col: 1, Kind: CellLiteral, Value: Text("hello")},
			{Row: 5, Col: 5, Kind: CellFormula, Expression: "A1+B1"},
		},
	}}, nil)
	require.NoError(t, err)
	sheet, _ := snap.SheetByName("Sheet1")

	kind, val, _, _, ok := sheet.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, CellLiteral, kind)
	assert.Equal(t, 42.0, val.Num)

	kind, val, _, _, ok = sheet.Cell(0, 1)
	require.True(t, ok)
	assert.Equal(t, CellLiteral, kind)
	assert.Equal(t, "hello", val.Str)

	kind, _, expr, _, ok := sheet.Cell(5, 5)
	require.True(t, ok)
	assert.Equal(t, CellFormula, kind)
	assert.Equal(t, "A1+B1", expr)

	_, _, _, _, ok = sheet.Cell(100, 100)
	assert.False(t, ok)
}

func TestSheetDimension(t *testing.T) {
	snap, err := NewSnapshot([]SheetInput{{
		Name: "Sheet1",
		Rows: []CellInput{
			{Row: 2, Col: 3, Kind: CellLiteral, Value: Number(1)},
			{Row: 10, Col: 1, Kind: CellLiteral, Value: Number(2)},
		},
	}}, nil)
	require.NoError(t, err)
	sheet, _ := snap.SheetByName("Sheet1")
	maxRow, maxCol := sheet.Dimension()
	assert.Equal(t, 10, maxRow)
	assert.Equal(t, 3, maxCol)
}

func TestEmptySheetDimension(t *testing.T) {
	snap, err := NewSnapshot([]SheetInput{{Name: "Sheet1"}}, nil)
	require.NoError(t, err)
	sheet, _ := snap.SheetByName("Sheet1")
	maxRow, maxCol := sheet.Dimension()
	assert.Equal(t, -1, maxRow)
	assert.Equal(t, -1, maxCol)
}

func TestResolveNameSheetScopedBeatsWorkbookScoped(t *testing.T) {
	rngWB, _ := address.ParseRange("A1:A1")
	rngSheet, _ := address.ParseRange("B2:B2")
	snap, err := NewSnapshot([]SheetInput{{Name: "Sheet1"}}, []DefinedName{
		{Name: "Total", Sheet: "", Range: rngWB},
		{Name: "Total", Sheet: "Sheet1", Range: rngSheet},
	})
	require.NoError(t, err)

	d, ok := snap.ResolveName("Sheet1", "Total")
	require.True(t, ok)
	assert.Equal(t, "Sheet1", d.Sheet)
	assert.Equal(t, rngSheet, d.Range)

	d, ok = snap.ResolveName("OtherSheet", "Total")
	require.True(t, ok)
	assert.Equal(t, "", d.Sheet)
}
