// Package numfmt renders spreadsheet values to their display string using
// an ECMA-376-style number-format code: section splitting, placeholder
// substitution, date/time tokens and elapsed-time brackets, and General
// formatting.
//
// All format-string tokenizing is delegated to github.com/xuri/nfp; this
// package implements the rendering semantics on top of its token stream.
// Grounded on the teacher pack's TsubasaBE-go-xlsb/numfmt package (the only
// example repo with a number-format renderer), generalized from its
// fixed 1/2/3/4-section sign-based dispatch to the spec's fuller grammar:
// conditional `[<n]`/`[>=n]` sections evaluated in order, a text (`@`)
// section, and scientific notation, none of which the teacher's renderer
// needed for its xlsb-reading use case.
package numfmt

import (
	"math"
	"strconv"

	"github.com/xlcalc/xlcalc/workbook"
)

// DateSystem selects the epoch a date/time serial number is interpreted
// against.
type DateSystem int

const (
	DateSystem1900 DateSystem = iota
	DateSystem1904
)

// Format renders a numeric value using a number-format code.
func Format(value float64, code string, dateSystem DateSystem) string {
	code = resolveCode(code)
	if code == "General" {
		return renderGeneral(value)
	}
	sections := parseSections(code)
	if len(sections) == 0 {
		return renderGeneral(value)
	}
	sec, ok := selectSection(sections, value)
	if !ok {
		return renderGeneral(value)
	}
	if sec.isDate {
		return renderDateTime(value, sec, dateSystem == DateSystem1904)
	}
	if sign, expDigits, ok := scientificSpec(sec.raw); ok {
		return renderScientific(value, sec, sign, expDigits)
	}
	return renderNumber(value, sec, len(sections))
}

// FormatText renders a text value using a number-format code's text
// section (the 4th section, selected whenever the input isn't numeric).
func FormatText(value string, code string) string {
	code = resolveCode(code)
	if code == "General" || code == "@" {
		return value
	}
	sections := parseSections(code)
	if len(sections) < 4 {
		return value
	}
	return renderTextSection(value, sections[3])
}

// Render is functions.TextRenderHook's implementation, wired up by the
// eval package at startup: it dispatches on the scalar's kind so TEXT()
// can format numbers, dates (stored as numbers) and passthrough text/bool
// with one entry point.
func Render(value workbook.Scalar, code string, date1904 bool) (string, bool) {
	system := DateSystem1900
	if date1904 {
		system = DateSystem1904
	}
	switch value.Kind {
	case workbook.ScalarNumber:
		return Format(value.Num, code, system), true
	case workbook.ScalarString:
		return FormatText(value.Str, code), true
	case workbook.ScalarBool:
		return FormatText(value.String(), code), true
	default:
		return "", false
	}
}

func resolveCode(code string) string {
	if code == "" {
		return "General"
	}
	return code
}

func renderGeneral(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'G', -1, 64)
	}
	if val == 0 {
		return "0"
	}
	abs := math.Abs(val)
	if abs >= 1e-9 && abs < 1e11 {
		s := strconv.FormatFloat(val, 'g', 11, 64)
		return s
	}
	s := strconv.FormatFloat(val, 'E', 13, 64)
	return normalizeExponent(s, 0, "+")
}
