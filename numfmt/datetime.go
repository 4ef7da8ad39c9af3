package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

// renderDateTime renders a date/time serial number using sec's tokens,
// adapted from the teacher's renderDateTime to operate on this package's
// section wrapper.
func renderDateTime(serial float64, sec section, date1904 bool) string {
	t, err := convertSerial(serial, date1904)
	if err != nil {
		return renderGeneral(serial)
	}

	hasAmPm := false
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes {
			upper := strings.ToUpper(tok.TValue)
			if upper == "AM/PM" || upper == "A/P" {
				hasAmPm = true
				break
			}
		}
	}

	var sb strings.Builder
	lastWasHour := false
	lastWasSecond := false
	inFracSeconds := false

	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderDateToken(upper, t, hasAmPm, lastWasHour))
			lastWasHour = upper == "H" || upper == "HH"
			lastWasSecond = upper == "S" || upper == "SS"

		case nfp.TokenTypeElapsedDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderElapsed(upper, serial))
			// An elapsed hour token primes M/MM disambiguation just like a
			// regular hour token does: "[h]:mm" means minutes, not month.
			lastWasHour = upper == "H" || upper == "HH"
			lastWasSecond = upper == "S" || upper == "SS"

		case nfp.TokenTypeLiteral:
			// A literal separator (e.g. ":") between an hour token and a
			// following M/MM must not reset lastWasHour.
			sb.WriteString(tok.TValue)

		case nfp.TokenTypeDecimalPoint:
			// A decimal point right after a seconds token starts a
			// sub-second run ("ss.000"); elsewhere in a date section a
			// decimal point has no meaning and is dropped.
			if lastWasSecond {
				sb.WriteByte('.')
				inFracSeconds = true
			}
			lastWasHour = false

		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			if inFracSeconds {
				sb.WriteString(fracSecondsDigits(serial, len(tok.TValue)))
				inFracSeconds = false
			}
			lastWasHour = false

		default:
			lastWasHour = false
		}
	}

	if sb.Len() == 0 {
		return renderGeneral(serial)
	}
	return sb.String()
}

// renderDateToken renders a single upper-cased date/time token. lastWasHour
// disambiguates M/MM: immediately after an hour token it means minutes,
// otherwise month (spec §4.7 and ECMA-376's shared m/mm glyph).
func renderDateToken(upper string, t time.Time, hasAmPm, lastWasHour bool) string {
	switch upper {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		if lastWasHour {
			return fmt.Sprintf("%02d", t.Minute())
		}
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		if lastWasHour {
			return strconv.Itoa(t.Minute())
		}
		return strconv.Itoa(int(t.Month()))
	case "DDDD":
		return t.Weekday().String()
	case "DDD":
		return t.Weekday().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "HH":
		h := t.Hour()
		if hasAmPm {
			h = hour12(h)
		}
		return fmt.Sprintf("%02d", h)
	case "H":
		h := t.Hour()
		if hasAmPm {
			h = hour12(h)
		}
		return strconv.Itoa(h)
	case "SS":
		return fmt.Sprintf("%02d", t.Second())
	case "S":
		return strconv.Itoa(t.Second())
	case "AM/PM":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "A/P":
		if t.Hour() < 12 {
			return "A"
		}
		return "P"
	}
	return ""
}

// fracSecondsDigits renders the sub-second remainder of serial's elapsed
// time to the requested number of decimal digits ("ss.000" → milliseconds),
// returning only the digits after the decimal point.
func fracSecondsDigits(serial float64, digits int) string {
	total := serial * 86400
	frac := total - math.Floor(total)
	formatted := strconv.FormatFloat(frac, 'f', digits, 64)
	if idx := strings.IndexByte(formatted, '.'); idx >= 0 {
		return formatted[idx+1:]
	}
	return strings.Repeat("0", digits)
}

func hour12(h int) int {
	h = h % 12
	if h == 0 {
		h = 12
	}
	return h
}

// renderElapsed renders an elapsed-time bracket token ("[h]", "[mm]", "[ss]"
// — nfp strips the brackets before this package sees the token value) using
// the raw fractional-day serial, so elapsed hours/minutes/seconds can exceed
// their usual 24/60/60 range (spec §4.7's elapsed-time scenario:
// "[h]:mm:ss.000" over serial 3.1416 renders "75:23:53.376").
func renderElapsed(upper string, serial float64) string {
	switch upper {
	case "H", "HH":
		return strconv.Itoa(int(serial * 24))
	case "MM":
		return fmt.Sprintf("%02d", int(serial*24*60)%60)
	case "M":
		return strconv.Itoa(int(serial*24*60) % 60)
	case "SS":
		return fmt.Sprintf("%02d", int(serial*24*3600)%60)
	case "S":
		return strconv.Itoa(int(serial*24*3600) % 60)
	}
	return ""
}

// convertSerial converts an Excel serial number to a time.Time, handling the
// 1900 system's phantom Feb-29-1900 leap day (serials 61+ are shifted back
// one day to compensate) and the 1904 system's flat epoch offset. For 1900
// serials from 61 on, and for all 1904 serials, this agrees with the epoch
// in functions/datetime.go; below 61, functions/datetime.go's flat
// 1899-12-30 epoch maps a serial to the day before the one returned here.
func convertSerial(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, fmt.Errorf("numfmt: invalid serial %v", serial)
	}
	fracSec := int64(math.Round((serial - math.Trunc(serial)) * 86400))
	if fracSec < 0 {
		fracSec = 0
	} else if fracSec > 86399 {
		fracSec = 86399
	}
	intPart := int(serial)
	if date1904 {
		base := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	var t time.Time
	switch {
	case intPart == 0:
		t = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(fracSec) * time.Second)
	case intPart >= 61:
		t = base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(fracSec)*time.Second)
	default:
		t = base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second)
	}
	return t, nil
}
