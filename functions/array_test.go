package functions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/workbook"
)

func TestTransposeTopLeftCell(t *testing.T) {
	grid := [][]workbook.Scalar{
		{workbook.Number(1), workbook.Number(2)},
		{workbook.Number(3), workbook.Number(4)},
	}
	// A Func only returns one Scalar (registry.go), so a caller reading
	// TRANSPOSE through the normal function-call path only ever sees its
	// top-left result cell.
	out := fnTranspose(nil, []Value{GridValue(grid)})
	require.Equal(t, workbook.Number(1.0), out)
}

func TestTransposeRejectsEmptyGrid(t *testing.T) {
	out := fnTranspose(nil, []Value{GridValue([][]workbook.Scalar{})})
	require.True(t, out.IsError())
}

func TestMdetermTwoByTwo(t *testing.T) {
	grid := [][]workbook.Scalar{
		{workbook.Number(1), workbook.Number(2)},
		{workbook.Number(3), workbook.Number(4)},
	}
	out := fnMdeterm(nil, []Value{GridValue(grid)})
	require.Equal(t, workbook.Number(-2.0), out)
}

func TestMdetermRejectsNonSquare(t *testing.T) {
	grid := [][]workbook.Scalar{
		{workbook.Number(1), workbook.Number(2), workbook.Number(3)},
	}
	out := fnMdeterm(nil, []Value{GridValue(grid)})
	require.True(t, out.IsError())
	require.Equal(t, workbook.ErrValue, out.ErrCode)
}

func TestMinverseOfIdentityIsIdentity(t *testing.T) {
	grid := [][]workbook.Scalar{
		{workbook.Number(1), workbook.Number(0)},
		{workbook.Number(0), workbook.Number(1)},
	}
	out := fnMinverse(nil, []Value{GridValue(grid)})
	require.Equal(t, workbook.Number(1.0), out) // top-left cell
}

func TestMinverseOfSingularMatrixIsNumError(t *testing.T) {
	grid := [][]workbook.Scalar{
		{workbook.Number(1), workbook.Number(2)},
		{workbook.Number(2), workbook.Number(4)},
	}
	out := fnMinverse(nil, []Value{GridValue(grid)})
	require.True(t, out.IsError())
	require.Equal(t, workbook.ErrNum, out.ErrCode)
}

func TestMmultComputesDotProduct(t *testing.T) {
	a := [][]workbook.Scalar{{workbook.Number(1), workbook.Number(2)}}
	b := [][]workbook.Scalar{{workbook.Number(3)}, {workbook.Number(4)}}
	out := fnMmult(nil, []Value{GridValue(a), GridValue(b)})
	require.Equal(t, workbook.Number(11.0), out) // 1*3 + 2*4
}

func TestMmultRejectsMismatchedDimensions(t *testing.T) {
	a := [][]workbook.Scalar{{workbook.Number(1), workbook.Number(2)}}
	b := [][]workbook.Scalar{{workbook.Number(3)}}
	out := fnMmult(nil, []Value{GridValue(a), GridValue(b)})
	require.True(t, out.IsError())
	require.Equal(t, workbook.ErrValue, out.ErrCode)
}
