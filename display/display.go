// Package display is the evaluator/number-format glue (spec component C9):
// given a cell's format metadata it resolves the number-format code that
// actually applies, then renders an evaluated Scalar through it to the
// string a grid UI would show.
//
// Grounded on the teacher's style-resolution idea in worksheet.go (a cell's
// effective style falls back through row/column/sheet defaults) generalized
// to spec §4.9's three-tier fallback: a matching conditional-format rule
// beats the cell's own format code, which beats a style-sheet's built-in
// numFmtId lookup.
package display

import (
	"github.com/xlcalc/xlcalc/address"
	"github.com/xlcalc/xlcalc/numfmt"
	"github.com/xlcalc/xlcalc/workbook"
)

// ConditionalFormat is one differential-format rule: whenever addr falls
// inside Range on Sheet, Code overrides the cell's own format code. Rules
// are tried in slice order; the first match wins, mirroring spec §4.7's
// conditional-section "first satisfied wins" rule applied one level up.
type ConditionalFormat struct {
	Sheet string
	Range address.Range
	Code  string
}

// builtInNumFmt holds the handful of Excel built-in number-format IDs this
// package resolves without a custom code on the cell — the common subset a
// style sheet references by ID rather than spelling out, per ECMA-376 part
// 1 §18.8.30.
var builtInNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	14: "mm-dd-yyyy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yyyy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// BuiltInFormatCode looks up one of Excel's reserved numFmtIds. The second
// return is false for IDs this table doesn't carry (custom IDs always
// arrive with an explicit code on the cell instead).
func BuiltInFormatCode(numFmtID int) (string, bool) {
	code, ok := builtInNumFmt[numFmtID]
	return code, ok
}

// EffectiveFormatCode implements spec §4.9's resolveEffectiveFormatCode: a
// matching conditional-format rule wins outright; otherwise the cell's own
// format code is used if non-empty; otherwise the style sheet's built-in
// numFmtId is looked up; "General" is the final fallback.
func EffectiveFormatCode(sheet string, addr address.Address, cellCode string, numFmtID int, conditional []ConditionalFormat) string {
	for _, cf := range conditional {
		if cf.Sheet != "" && cf.Sheet != sheet {
			continue
		}
		if rangeContains(cf.Range, addr) {
			return cf.Code
		}
	}
	if cellCode != "" {
		return cellCode
	}
	if code, ok := BuiltInFormatCode(numFmtID); ok {
		return code
	}
	return "General"
}

func rangeContains(r address.Range, a address.Address) bool {
	n := r.Normalize()
	return a.Col >= n.Start.Col && a.Col <= n.End.Col && a.Row >= n.Start.Row && a.Row <= n.End.Row
}

// Render implements spec §4.9's formatForDisplay: it converts an evaluated
// Scalar to the string a grid cell would show under code. Errors render
// their literal token (spec §7: "cell displays show the literal error
// token"), never the format code's own text.
func Render(value workbook.Scalar, code string, date1904 bool) string {
	switch value.Kind {
	case workbook.ScalarEmpty:
		return ""
	case workbook.ScalarNumber:
		system := numfmt.DateSystem1900
		if date1904 {
			system = numfmt.DateSystem1904
		}
		return numfmt.Format(value.Num, code, system)
	case workbook.ScalarString:
		return numfmt.FormatText(value.Str, code)
	case workbook.ScalarBool:
		if value.Bool {
			return "TRUE"
		}
		return "FALSE"
	case workbook.ScalarError:
		return value.ErrCode
	default:
		return ""
	}
}
