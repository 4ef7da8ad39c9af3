package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/address"
	"github.com/xlcalc/xlcalc/workbook"
)

func addr(col, row int) address.Address { return address.Address{Col: col, Row: row} }

func cellLiteral(col, row int, v workbook.Scalar) workbook.CellInput {
	return workbook.CellInput{Row: row - 1, Col: col - 1, Kind: workbook.CellLiteral, Value: v}
}

func cellFormula(col, row int, expr string) workbook.CellInput {
	return workbook.CellInput{Row: row - 1, Col: col - 1, Kind: workbook.CellFormula, Expression: expr}
}

func singleSheetSnapshot(t *testing.T, rows []workbook.CellInput) *workbook.Snapshot {
	t.Helper()
	snap, err := workbook.NewSnapshot([]workbook.SheetInput{{Name: "Sheet1", Rows: rows}}, nil)
	require.NoError(t, err)
	return snap
}

func TestScenario1SimpleArithmeticReference(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(1)), // A1
		cellLiteral(1, 2, workbook.Number(2)), // A2
		cellFormula(2, 1, "A1+A2"),            // B1
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 1) // B1
	require.Equal(t, workbook.Number(3.0), result)
}

func TestScenario2CircularReferenceYieldsRef(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "B1"), // A1
		cellFormula(2, 1, "A1"), // B1
	})
	ev := New(snap)
	a1 := ev.EvaluateCell(0, 0, 0)
	b1 := ev.EvaluateCell(0, 0, 1)
	require.True(t, a1.IsError())
	require.Equal(t, workbook.ErrRef, a1.ErrCode)
	require.True(t, b1.IsError())
	require.Equal(t, workbook.ErrRef, b1.ErrCode)
}

func TestScenario3CrossSheetReference(t *testing.T) {
	snap, err := workbook.NewSnapshot([]workbook.SheetInput{
		{Name: "Sheet1", Rows: []workbook.CellInput{
			cellFormula(1, 1, "Other!A1+1"),
		}},
		{Name: "Other", Rows: []workbook.CellInput{
			cellLiteral(1, 1, workbook.Number(41)),
		}},
	}, nil)
	require.NoError(t, err)
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.Equal(t, workbook.Number(42.0), result)
}

func TestSumOverRangeSkipsNonNumeric(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(1)),
		cellLiteral(1, 2, workbook.Text("x")),
		cellLiteral(1, 3, workbook.Number(3)),
		cellFormula(2, 1, "SUM(A1:A3)"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 1)
	require.Equal(t, workbook.Number(4.0), result)
}

func TestIfDoesNotEvaluateUntakenBranch(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "IF(TRUE,1,1/0)"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.Equal(t, workbook.Number(1.0), result)
}

func TestDivideByZeroYieldsDiv0(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "1/0"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrDiv0, result.ErrCode)
}

func TestUnparseableFormulaYieldsNameError(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "1+*"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrName, result.ErrCode)
}

func TestUnknownFunctionYieldsNameError(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "NOPE(1)"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrName, result.ErrCode)
}

func TestComparisonOfNumberAndBooleanIsValueError(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "1<TRUE"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrValue, result.ErrCode)
}

func TestConcatStringifiesBooleanAndNumber(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, `TRUE&"-"&1`),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.Equal(t, workbook.Text("TRUE-1"), result)
}

func TestEvaluateFormulaDoesNotRequireAnchorCell(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(5)),
	})
	ev := New(snap)
	result := ev.EvaluateFormula(0, "A1*2")
	require.Equal(t, workbook.Number(10.0), result)
}

func TestEvaluateFormulaResultPreservesGridShape(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(1)),
		cellLiteral(2, 1, workbook.Number(2)),
	})
	ev := New(snap)
	result := ev.EvaluateFormulaResult(0, "A1:B1")
	require.True(t, result.IsGrid())
	rows, cols := result.Dims()
	require.Equal(t, 1, rows)
	require.Equal(t, 2, cols)
}

func TestDefinedNameResolvesToRange(t *testing.T) {
	snap, err := workbook.NewSnapshot([]workbook.SheetInput{
		{Name: "Sheet1", Rows: []workbook.CellInput{
			cellLiteral(1, 1, workbook.Number(7)),
			cellFormula(2, 1, "MyCell+1"),
		}},
	}, []workbook.DefinedName{
		{Name: "MyCell", Sheet: "", Range: address.Range{Start: addr(1, 1), End: addr(1, 1)}},
	})
	require.NoError(t, err)
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 1)
	require.Equal(t, workbook.Number(8.0), result)
}

func TestScalarCacheIsReusedAcrossCalls(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(10)),
		cellFormula(2, 1, "A1*2"),
	})
	ev := New(snap)
	first := ev.EvaluateCell(0, 0, 1)
	second := ev.EvaluateCell(0, 0, 1)
	require.Equal(t, first, second)
	require.Equal(t, workbook.Number(20.0), second)
}

func TestRowColumnWithNoArgsUseFormulaOrigin(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(3, 5, "ROW()+COLUMN()"), // C5
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 4, 2)
	require.Equal(t, workbook.Number(8.0), result) // row 5 + col 3
}

func TestRowColumnWithReferenceArgument(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "ROW(C5)"),
		cellFormula(2, 1, "COLUMN(C5)"),
	})
	ev := New(snap)
	require.Equal(t, workbook.Number(5.0), ev.EvaluateCell(0, 0, 0))
	require.Equal(t, workbook.Number(3.0), ev.EvaluateCell(0, 0, 1))
}

func TestRowWithNoOriginIsRefError(t *testing.T) {
	snap := singleSheetSnapshot(t, nil)
	ev := New(snap)
	result := ev.EvaluateFormula(0, "ROW()")
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrRef, result.ErrCode)
}

func TestOffsetMovesByRowsAndColumns(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(2, 2, workbook.Number(99)), // B2
		cellFormula(1, 1, "OFFSET(A1,1,1)"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.Equal(t, workbook.Number(99.0), result)
}

func TestOffsetWithHeightWidthYieldsGrid(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(1)),
		cellLiteral(2, 1, workbook.Number(2)),
	})
	ev := New(snap)
	result := ev.EvaluateFormulaResult(0, "OFFSET(A1,0,0,1,2)")
	require.True(t, result.IsGrid())
	rows, cols := result.Dims()
	require.Equal(t, 1, rows)
	require.Equal(t, 2, cols)
}

func TestOffsetPastSheetBoundsIsRefError(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "OFFSET(A1,-1,0)"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrRef, result.ErrCode)
}

func TestIndirectResolvesA1Text(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellLiteral(1, 1, workbook.Number(42)),
		cellFormula(2, 1, `INDIRECT("A1")`),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 1)
	require.Equal(t, workbook.Number(42.0), result)
}

func TestIndirectRejectsR1C1(t *testing.T) {
	snap := singleSheetSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, `INDIRECT("R1C1",FALSE)`),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrValue, result.ErrCode)
}
