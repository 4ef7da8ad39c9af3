package functions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/workbook"
)

func TestLookupVectorFormFindsApproximateMatch(t *testing.T) {
	vector := []workbook.Scalar{workbook.Number(1), workbook.Number(4), workbook.Number(9)}
	result := []workbook.Scalar{workbook.Text("a"), workbook.Text("b"), workbook.Text("c")}
	out := fnLookup(nil, []Value{
		ScalarValue(workbook.Number(5)),
		GridValue([][]workbook.Scalar{vector}),
		GridValue([][]workbook.Scalar{result}),
	})
	require.Equal(t, workbook.Text("b"), out)
}

func TestLookupVectorFormBelowRangeIsNA(t *testing.T) {
	vector := []workbook.Scalar{workbook.Number(10), workbook.Number(20)}
	out := fnLookup(nil, []Value{
		ScalarValue(workbook.Number(1)),
		GridValue([][]workbook.Scalar{vector}),
	})
	require.True(t, out.IsError())
	require.Equal(t, workbook.ErrNA, out.ErrCode)
}

func TestXmatchExactMatch(t *testing.T) {
	arr := []workbook.Scalar{workbook.Text("a"), workbook.Text("b"), workbook.Text("c")}
	out := fnXmatch(nil, []Value{
		ScalarValue(workbook.Text("b")),
		GridValue([][]workbook.Scalar{arr}),
	})
	require.Equal(t, workbook.Number(2.0), out)
}

func TestXmatchReverseSearchMode(t *testing.T) {
	arr := []workbook.Scalar{workbook.Text("a"), workbook.Text("b"), workbook.Text("b")}
	out := fnXmatch(nil, []Value{
		ScalarValue(workbook.Text("b")),
		GridValue([][]workbook.Scalar{arr}),
		ScalarValue(workbook.Number(0)),
		ScalarValue(workbook.Number(-1)),
	})
	require.Equal(t, workbook.Number(3.0), out)
}

func TestXmatchNextSmallerMode(t *testing.T) {
	arr := []workbook.Scalar{workbook.Number(1), workbook.Number(5), workbook.Number(10)}
	out := fnXmatch(nil, []Value{
		ScalarValue(workbook.Number(7)),
		GridValue([][]workbook.Scalar{arr}),
		ScalarValue(workbook.Number(-1)),
	})
	require.Equal(t, workbook.Number(2.0), out)
}

func TestXlookupReturnsFromReturnArray(t *testing.T) {
	lookupArr := []workbook.Scalar{workbook.Text("a"), workbook.Text("b")}
	returnArr := []workbook.Scalar{workbook.Number(100), workbook.Number(200)}
	out := fnXlookup(nil, []Value{
		ScalarValue(workbook.Text("b")),
		GridValue([][]workbook.Scalar{lookupArr}),
		GridValue([][]workbook.Scalar{returnArr}),
	})
	require.Equal(t, workbook.Number(200.0), out)
}

func TestXlookupFallsBackToIfNotFound(t *testing.T) {
	lookupArr := []workbook.Scalar{workbook.Text("a")}
	returnArr := []workbook.Scalar{workbook.Number(1)}
	out := fnXlookup(nil, []Value{
		ScalarValue(workbook.Text("z")),
		GridValue([][]workbook.Scalar{lookupArr}),
		GridValue([][]workbook.Scalar{returnArr}),
		ScalarValue(workbook.Text("missing")),
	})
	require.Equal(t, workbook.Text("missing"), out)
}
