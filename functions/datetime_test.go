package functions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xlcalc/xlcalc/workbook"
)

// Serial 2 under the 1900 date system is 1900-01-01, a Monday.
const mondaySerial = 2.0

func TestWorkdayStepsForwardSkippingWeekend(t *testing.T) {
	out := fnWorkday(nil, []Value{
		ScalarValue(workbook.Number(mondaySerial)),
		ScalarValue(workbook.Number(5)),
	})
	require.Equal(t, workbook.Number(mondaySerial+7), out) // lands on the following Monday
}

func TestWorkdaySkipsHolidays(t *testing.T) {
	out := fnWorkday(nil, []Value{
		ScalarValue(workbook.Number(mondaySerial)),
		ScalarValue(workbook.Number(1)),
		GridValue([][]workbook.Scalar{{workbook.Number(mondaySerial + 1)}}), // Tuesday is a holiday
	})
	require.Equal(t, workbook.Number(mondaySerial+2), out) // Wednesday
}

func TestWorkdayNegativeDaysStepsBackward(t *testing.T) {
	out := fnWorkday(nil, []Value{
		ScalarValue(workbook.Number(mondaySerial + 7)), // next Monday
		ScalarValue(workbook.Number(-5)),
	})
	require.Equal(t, workbook.Number(mondaySerial), out)
}
