package numfmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/workbook"
)

func TestPercentFormatRendersWholeAndOneDecimal(t *testing.T) {
	require.Equal(t, "10%", Format(0.1, "0%", DateSystem1900))
	require.Equal(t, "10.0%", Format(0.1, "0.0%", DateSystem1900))
}

func TestZeroPaddedIntegerFormat(t *testing.T) {
	require.Equal(t, "012.30", Format(12.3, "000.00", DateSystem1900))
}

func TestThousandsSeparatorFormat(t *testing.T) {
	require.Equal(t, "314,159.00", Format(314159, "#,##0.00", DateSystem1900))
}

func Test1904EpochZeroSerialIsJan1_1904(t *testing.T) {
	require.Equal(t, "1904-01-01", Format(0, "yyyy-mm-dd", DateSystem1904))
}

func TestElapsedHoursMinutesSecondsExceed24Hours(t *testing.T) {
	// 3.1416 days = 271434.24s = 75h 23m 54.240s; the elapsed [h] token is
	// unbounded by the usual 24-hour wraparound.
	require.Equal(t, "75:23:54.240", Format(3.1416, "[h]:mm:ss.000", DateSystem1900))
}

func TestScientificNotationFormat(t *testing.T) {
	require.Equal(t, "1.23E+03", Format(1234.5678, "0.00E+00", DateSystem1900))
}

func TestNegativeValueWithSingleSectionPrependsMinus(t *testing.T) {
	require.Equal(t, "-5.00", Format(-5, "0.00", DateSystem1900))
}

func TestConditionalSectionsPickFirstMatch(t *testing.T) {
	code := `[<100]"low";[>=100]"high"`
	require.Equal(t, "low", Format(42, code, DateSystem1900))
	require.Equal(t, "high", Format(142, code, DateSystem1900))
}

func TestGeneralFormatRendersPlainNumber(t *testing.T) {
	require.Equal(t, "42", Format(42, "", DateSystem1900))
	require.Equal(t, "42", Format(42, "General", DateSystem1900))
}

func TestFormatTextUsesFourthSection(t *testing.T) {
	code := `0;0;0;"item: "@`
	require.Equal(t, "item: widget", FormatText("widget", code))
}

func TestRenderDispatchesOnScalarKind(t *testing.T) {
	rendered, ok := Render(workbook.Number(0.1), "0%", false)
	require.True(t, ok)
	require.Equal(t, "10%", rendered)

	rendered, ok = Render(workbook.Text("abc"), "@", false)
	require.True(t, ok)
	require.Equal(t, "abc", rendered)

	rendered, ok = Render(workbook.Bool(true), "@", false)
	require.True(t, ok)
	require.Equal(t, "TRUE", rendered)

	_, ok = Render(workbook.Error(workbook.ErrValue), "0", false)
	require.False(t, ok)
}

func TestMinuteAfterHourTokenDisambiguatesFromMonth(t *testing.T) {
	// serial for 2024-03-05 06:07:08 in the 1900 system.
	serial := float64(45356) + (6*3600+7*60+8)/86400.0
	require.Equal(t, "06:07", Format(serial, "hh:mm", DateSystem1900))
}
