package functions

import (
	"time"

	"github.com/xlcalc/xlcalc/workbook"
)

func init() {
	register("DATE", fnDate)
	register("YEAR", fnYear)
	register("MONTH", fnMonth)
	register("DAY", fnDay)
	register("HOUR", fnHour)
	register("MINUTE", fnMinute)
	register("SECOND", fnSecond)
	register("WEEKDAY", fnWeekday)
	register("TODAY", fnToday)
	register("NOW", fnNow)
	register("EDATE", fnEdate)
	register("EOMONTH", fnEomonth)
	register("DAYS", fnDays)
	register("DATEDIF", fnDatedif)
	register("WORKDAY", fnWorkday)
}

// epoch1900 is serial 0 under the 1900 date system, with the
// intentional Excel leap-year bug (1900 is treated as a leap year) absorbed
// by starting the epoch one day early relative to a true Gregorian 1900-01-01.
var epoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func serialFromTime(t time.Time, date1904 bool) float64 {
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	days := t.Sub(epoch).Hours() / 24
	return days
}

func timeFromSerial(serial float64, date1904 bool) time.Time {
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	wholeDays := int64(serial)
	frac := serial - float64(wholeDays)
	return epoch.AddDate(0, 0, int(wholeDays)).Add(time.Duration(frac * float64(24*time.Hour)))
}

func fnDate(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 3 {
		return errScalar(workbook.ErrValue)
	}
	y, ok1 := toNumber(args[0].First())
	m, ok2 := toNumber(args[1].First())
	d, ok3 := toNumber(args[2].First())
	if !ok1 || !ok2 || !ok3 {
		return errScalar(workbook.ErrValue)
	}
	date1904 := ctx != nil && ctx.Date1904
	t := time.Date(int(y), time.Month(1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(m)-1, int(d)-1)
	return workbook.Number(serialFromTime(t, date1904))
}

func fnYear(ctx *Context, args []Value) workbook.Scalar {
	t, ok := serialArg(ctx, args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(t.Year()))
}

func fnMonth(ctx *Context, args []Value) workbook.Scalar {
	t, ok := serialArg(ctx, args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(t.Month()))
}

func fnDay(ctx *Context, args []Value) workbook.Scalar {
	t, ok := serialArg(ctx, args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(t.Day()))
}

func fnHour(ctx *Context, args []Value) workbook.Scalar {
	t, ok := serialArg(ctx, args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(t.Hour()))
}

func fnMinute(ctx *Context, args []Value) workbook.Scalar {
	t, ok := serialArg(ctx, args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(t.Minute()))
}

func fnSecond(ctx *Context, args []Value) workbook.Scalar {
	t, ok := serialArg(ctx, args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(t.Second()))
}

func fnWeekday(ctx *Context, args []Value) workbook.Scalar {
	if len(args) < 1 || len(args) > 2 {
		return errScalar(workbook.ErrValue)
	}
	n, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	date1904 := ctx != nil && ctx.Date1904
	t := timeFromSerial(n, date1904)
	return workbook.Number(float64(t.Weekday()) + 1) // Sunday=1 (type 1, the default)
}

func serialArg(ctx *Context, args []Value) (time.Time, bool) {
	if len(args) != 1 {
		return time.Time{}, false
	}
	n, ok := toNumber(args[0].First())
	if !ok {
		return time.Time{}, false
	}
	date1904 := ctx != nil && ctx.Date1904
	return timeFromSerial(n, date1904), true
}

func fnToday(ctx *Context, _ []Value) workbook.Scalar {
	clk := clockOf(ctx)
	now := clk.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date1904 := ctx != nil && ctx.Date1904
	return workbook.Number(float64(int(serialFromTime(today, date1904))))
}

func fnNow(ctx *Context, _ []Value) workbook.Scalar {
	clk := clockOf(ctx)
	now := clk.Now().UTC()
	date1904 := ctx != nil && ctx.Date1904
	return workbook.Number(serialFromTime(now, date1904))
}

func clockOf(ctx *Context) Clock {
	if ctx != nil && ctx.Clock != nil {
		return ctx.Clock
	}
	return WallClock{}
}

func fnEdate(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	serial, ok1 := toNumber(args[0].First())
	months, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	date1904 := ctx != nil && ctx.Date1904
	t := timeFromSerial(serial, date1904).AddDate(0, int(months), 0)
	return workbook.Number(serialFromTime(t, date1904))
}

func fnEomonth(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	serial, ok1 := toNumber(args[0].First())
	months, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	date1904 := ctx != nil && ctx.Date1904
	t := timeFromSerial(serial, date1904)
	firstOfTargetMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(months)+1, 0)
	lastDay := firstOfTargetMonth.AddDate(0, 0, -1)
	return workbook.Number(float64(int(serialFromTime(lastDay, date1904))))
}

func fnDays(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	end, ok1 := toNumber(args[0].First())
	start, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(end - start)
}

// fnWorkday steps start_date forward (or backward, for a negative days) by
// the requested number of business days, skipping Saturdays, Sundays, and
// any serial listed in the optional holidays range.
func fnWorkday(ctx *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	startSerial, ok1 := toNumber(args[0].First())
	days, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	date1904 := ctx != nil && ctx.Date1904

	holidays := make(map[int]bool)
	if len(args) == 3 {
		for _, h := range args[2].Flatten() {
			if n, ok := toNumber(h); ok {
				holidays[int(n)] = true
			}
		}
	}

	step := 1
	remaining := int(days)
	if remaining < 0 {
		step = -1
		remaining = -remaining
	}
	serial := int(startSerial)
	for remaining > 0 {
		serial += step
		t := timeFromSerial(float64(serial), date1904)
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday || holidays[serial] {
			continue
		}
		remaining--
	}
	return workbook.Number(float64(serial))
}

func fnDatedif(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 3 {
		return errScalar(workbook.ErrValue)
	}
	startSerial, ok1 := toNumber(args[0].First())
	endSerial, ok2 := toNumber(args[1].First())
	unit := toText(args[2].First())
	if !ok1 || !ok2 || endSerial < startSerial {
		return errScalar(workbook.ErrNum)
	}
	date1904 := ctx != nil && ctx.Date1904
	start := timeFromSerial(startSerial, date1904)
	end := timeFromSerial(endSerial, date1904)

	switch unit {
	case "d", "D":
		return workbook.Number(endSerial - startSerial)
	case "y", "Y":
		years := end.Year() - start.Year()
		if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
			years--
		}
		return workbook.Number(float64(years))
	case "m", "M":
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if end.Day() < start.Day() {
			months--
		}
		return workbook.Number(float64(months))
	default:
		return errScalar(workbook.ErrNum)
	}
}
