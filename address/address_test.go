package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColToLettersRoundTrip(t *testing.T) {
	cases := []struct {
		col int
		s   string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
		{703, "AAA"},
		{16384, "XFD"},
	}
	for _, c := range cases {
		assert.Equal(t, c.s, ColToLetters(c.col))
		assert.Equal(t, c.col, LettersToCol(c.s))
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	inputs := []string{"A1", "$A1", "A$1", "$A$1", "XFD1048576", "Z99"}
	for _, in := range inputs {
		addr, ok := ParseAddress(in)
		require.True(t, ok, "expected %q to parse", in)
		assert.Equal(t, in, addr.Format())
	}
}

func TestParseAddressBounds(t *testing.T) {
	_, ok := ParseAddress("XFE1")
	assert.False(t, ok)
	_, ok = ParseAddress("A1048577")
	assert.False(t, ok)
	_, ok = ParseAddress("A0")
	assert.False(t, ok)
	_, ok = ParseAddress("1A")
	assert.False(t, ok)
}

func TestParseRangeNormalizesOrder(t *testing.T) {
	r, ok := ParseRange("B2:A1")
	require.True(t, ok)
	assert.Equal(t, "A1:B2", FormatRange(r))
}

func TestParseRangeWholeColumn(t *testing.T) {
	r, ok := ParseRange("A:A")
	require.True(t, ok)
	assert.True(t, r.IsWholeColumn())
	assert.Equal(t, 1, r.Start.Row)
	assert.Equal(t, MaxRows, r.End.Row)
}

func TestParseRangeWholeRow(t *testing.T) {
	r, ok := ParseRange("1:1")
	require.True(t, ok)
	assert.True(t, r.IsWholeRow())
	assert.Equal(t, 1, r.Start.Col)
	assert.Equal(t, MaxCols, r.End.Col)
}

func TestShiftPreservesAbsoluteComponents(t *testing.T) {
	addr, _ := ParseAddress("$A$1")
	shifted, overflow := Shift(addr, 5, 5)
	require.False(t, overflow)
	assert.Equal(t, "$A$1", shifted.Format())

	addr2, _ := ParseAddress("A1")
	shifted2, overflow := Shift(addr2, 2, 2)
	require.False(t, overflow)
	assert.Equal(t, "C3", shifted2.Format())
}

func TestShiftOverflowProducesSentinel(t *testing.T) {
	addr, _ := ParseAddress("A1")
	_, overflow := Shift(addr, -1, 0)
	assert.True(t, overflow)

	last, _ := ParseAddress("XFD1")
	_, overflow = Shift(last, 1, 0)
	assert.True(t, overflow)
}

func TestShiftRoundTrip(t *testing.T) {
	addr, _ := ParseAddress("$A1")
	shifted, overflow := Shift(addr, 3, 4)
	require.False(t, overflow)
	back, overflow := Shift(shifted, -3, -4)
	require.False(t, overflow)
	assert.Equal(t, addr, back)
}

func TestQuoteSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", QuoteSheetName("Sheet1"))
	assert.Equal(t, "'Sheet One'", QuoteSheetName("Sheet One"))
	assert.Equal(t, "'It''s Here'", QuoteSheetName("It's Here"))
}

func TestUnquoteSheetName(t *testing.T) {
	assert.Equal(t, "Sheet One", UnquoteSheetName("'Sheet One'"))
	assert.Equal(t, "It's Here", UnquoteSheetName("'It''s Here'"))
	assert.Equal(t, "Sheet1", UnquoteSheetName("Sheet1"))
}

func TestFoldSheetName(t *testing.T) {
	assert.Equal(t, "SHEET1", FoldSheetName(" sheet1 "))
	assert.Equal(t, "SHEET ONE", FoldSheetName("'Sheet One'"))
}

func TestSplitSheetQualifier(t *testing.T) {
	sheet, sheetTo, rest := SplitSheetQualifier("Sheet1!A1")
	assert.Equal(t, "Sheet1", sheet)
	assert.Equal(t, "", sheetTo)
	assert.Equal(t, "A1", rest)

	sheet, sheetTo, rest = SplitSheetQualifier("'Sheet One'!A1:B2")
	assert.Equal(t, "Sheet One", sheet)
	assert.Equal(t, "", sheetTo)
	assert.Equal(t, "A1:B2", rest)

	sheet, sheetTo, rest = SplitSheetQualifier("Sheet1:Sheet3!A1")
	assert.Equal(t, "Sheet1", sheet)
	assert.Equal(t, "Sheet3", sheetTo)
	assert.Equal(t, "A1", rest)

	sheet, sheetTo, rest = SplitSheetQualifier("A1")
	assert.Equal(t, "", sheet)
	assert.Equal(t, "", sheetTo)
	assert.Equal(t, "A1", rest)
}
