package functions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/workbook"
)

func TestPmtMatchesKnownLoanPayment(t *testing.T) {
	// 5% annual rate paid monthly, 10 years, $10000 principal.
	result := fnPmt(nil, []Value{
		ScalarValue(workbook.Number(0.05 / 12)),
		ScalarValue(workbook.Number(120)),
		ScalarValue(workbook.Number(10000)),
	})
	require.Equal(t, workbook.ScalarNumber, result.Kind)
	require.InDelta(t, -106.07, result.Num, 0.01)
}

func TestFvZeroRateIsLinear(t *testing.T) {
	result := fnFv(nil, []Value{
		ScalarValue(workbook.Number(0)),
		ScalarValue(workbook.Number(12)),
		ScalarValue(workbook.Number(-100)),
		ScalarValue(workbook.Number(0)),
	})
	require.Equal(t, workbook.Number(1200.0), result)
}

func TestPvAndFvAreInverses(t *testing.T) {
	rate := 0.01
	nper := 24.0
	pmt := -50.0
	pv := fnPv(nil, []Value{
		ScalarValue(workbook.Number(rate)),
		ScalarValue(workbook.Number(nper)),
		ScalarValue(workbook.Number(pmt)),
	})
	require.Equal(t, workbook.ScalarNumber, pv.Kind)

	fv := fnFv(nil, []Value{
		ScalarValue(workbook.Number(rate)),
		ScalarValue(workbook.Number(nper)),
		ScalarValue(workbook.Number(pmt)),
		ScalarValue(pv),
	})
	require.InDelta(t, 0, fv.Num, 1e-6)
}

func TestNpvSumsDiscountedCashflows(t *testing.T) {
	result := fnNpv(nil, []Value{
		ScalarValue(workbook.Number(0.1)),
		ScalarValue(workbook.Number(-100)),
		ScalarValue(workbook.Number(60)),
		ScalarValue(workbook.Number(60)),
	})
	expected := -100/1.1 + 60/math.Pow(1.1, 2) + 60/math.Pow(1.1, 3)
	require.InDelta(t, expected, result.Num, 1e-9)
}

func TestNperMatchesPmtRoundTrip(t *testing.T) {
	rate := 0.05 / 12
	pv := 10000.0
	pmt := -106.07
	result := fnNper(nil, []Value{
		ScalarValue(workbook.Number(rate)),
		ScalarValue(workbook.Number(pmt)),
		ScalarValue(workbook.Number(pv)),
	})
	require.Equal(t, workbook.ScalarNumber, result.Kind)
	require.InDelta(t, 120, result.Num, 1)
}

func TestRateConvergesForKnownLoan(t *testing.T) {
	result := fnRate(nil, []Value{
		ScalarValue(workbook.Number(120)),
		ScalarValue(workbook.Number(-106.07)),
		ScalarValue(workbook.Number(10000)),
	})
	require.Equal(t, workbook.ScalarNumber, result.Kind)
	require.InDelta(t, 0.05/12, result.Num, 1e-4)
}

func TestPmtRejectsWrongArgCount(t *testing.T) {
	result := fnPmt(nil, []Value{ScalarValue(workbook.Number(1))})
	require.True(t, result.IsError())
	require.Equal(t, workbook.ErrValue, result.ErrCode)
}
