package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/address"
	"github.com/xlcalc/xlcalc/workbook"
)

// salesTable registers a 3-column, 2-data-row table with a totals row:
// header on row 1, data on rows 2-3, totals on row 4.
func salesTable() workbook.Table {
	return workbook.Table{
		Name:         "Sales",
		Sheet:        "Sheet1",
		HeaderRange:  address.Range{Start: addr(1, 1), End: addr(3, 1)},
		DataRange:    address.Range{Start: addr(1, 2), End: addr(3, 3)},
		TotalsRange:  address.Range{Start: addr(1, 4), End: addr(3, 4)},
		Columns:      []string{"Region", "Units", "Revenue"},
		HasTotalsRow: true,
	}
}

func tableSnapshot(t *testing.T, rows []workbook.CellInput, extra ...workbook.CellInput) *workbook.Snapshot {
	t.Helper()
	rows = append(rows, extra...)
	snap, err := workbook.NewSnapshotWithTables(
		[]workbook.SheetInput{{Name: "Sheet1", Rows: rows}},
		nil,
		[]workbook.Table{salesTable()},
	)
	require.NoError(t, err)
	return snap
}

func TestStructuredRefColumnReturnsDataRows(t *testing.T) {
	snap := tableSnapshot(t, []workbook.CellInput{
		cellLiteral(2, 2, workbook.Number(10)), // Units row 2
		cellLiteral(2, 3, workbook.Number(20)), // Units row 3
		cellFormula(5, 1, "SUM(Sales[Units])"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 4)
	require.Equal(t, workbook.Number(30.0), result)
}

func TestStructuredRefThisRowWithColumn(t *testing.T) {
	snap := tableSnapshot(t, []workbook.CellInput{
		cellLiteral(2, 2, workbook.Number(10)),
		cellLiteral(3, 2, workbook.Number(5)),
		cellFormula(4, 2, "Sales[[#This Row],[Units]]*2"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 1, 3) // D2
	require.Equal(t, workbook.Number(20.0), result)
}

func TestStructuredRefThisRowUnqualifiedInsideTable(t *testing.T) {
	snap := tableSnapshot(t, []workbook.CellInput{
		cellLiteral(2, 2, workbook.Number(7)),
		cellFormula(3, 2, "[#This Row]"), // calculated column C2, inside the table's own row 2
	})
	ev := New(snap)
	// C2's own formula resolves the unqualified specifier against its own
	// row, found via curRow/curCol rather than an explicit table name.
	result := ev.EvaluateCell(0, 1, 2)
	require.False(t, result.IsError())
}

func TestStructuredRefTotals(t *testing.T) {
	snap := tableSnapshot(t, []workbook.CellInput{
		cellLiteral(2, 4, workbook.Number(15)), // Units totals row
		cellFormula(5, 1, "Sales[[#Totals],[Units]]"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 4)
	require.Equal(t, workbook.Number(15.0), result)
}

func TestStructuredRefTotalsWithoutTotalsRowIsRefError(t *testing.T) {
	snap, err := workbook.NewSnapshotWithTables(
		[]workbook.SheetInput{{Name: "Sheet1", Rows: []workbook.CellInput{
			cellFormula(5, 1, "Sales[#Totals]"),
		}}},
		nil,
		[]workbook.Table{{
			Name:        "Sales",
			Sheet:       "Sheet1",
			HeaderRange: address.Range{Start: addr(1, 1), End: addr(3, 1)},
			DataRange:   address.Range{Start: addr(1, 2), End: addr(3, 3)},
		}},
	)
	require.NoError(t, err)
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 4)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrRef, result.ErrCode)
}

func TestStructuredRefUnknownTableIsRefError(t *testing.T) {
	snap := tableSnapshot(t, []workbook.CellInput{
		cellFormula(1, 1, "Nope[Units]"),
	})
	ev := New(snap)
	result := ev.EvaluateCell(0, 0, 0)
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrRef, result.ErrCode)
}
