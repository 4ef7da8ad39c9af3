// Package functions is the spreadsheet function registry: name lookup maps
// directly to a Go function value (spec §4.5's "dynamic dispatch... by name
// lookup in a hash map"), each taking already-evaluated arguments and
// returning a workbook.Scalar — spreadsheet errors flow back as ordinary
// Scalar values, never Go errors or panics.
//
// Grounded on the teacher's BuiltInFunctions in builtin.go: the same
// one-Go-function-per-spreadsheet-function shape and the same
// direct-arg-errors-always-propagate / range-cell-errors-propagate-only-for-
// aggregating-functions distinction, restructured from one large Call
// switch statement into a registry map built once in init(), split by
// category the way the rest of this module is split by package.
package functions

import (
	"math"
	"strconv"
	"strings"

	"github.com/xlcalc/xlcalc/workbook"
)

// Value is a function argument or result: either a single Scalar or a 2D
// grid of Scalars (a range reference or an array literal). Most functions
// only care about Flatten(); lookup functions need the grid shape.
type Value struct {
	Grid   [][]workbook.Scalar // non-nil for range/array arguments
	Scalar workbook.Scalar     // used when Grid == nil
}

// ScalarValue wraps a single Scalar as a Value.
func ScalarValue(s workbook.Scalar) Value { return Value{Scalar: s} }

// GridValue wraps a 2D grid of Scalars as a Value.
func GridValue(g [][]workbook.Scalar) Value { return Value{Grid: g} }

// IsGrid reports whether v carries multiple cells.
func (v Value) IsGrid() bool { return v.Grid != nil }

// First returns the top-left scalar of a grid value, or the scalar itself.
// Used where a range argument is coerced to a single value (e.g. "=A1:A5+1"
// uses A1).
func (v Value) First() workbook.Scalar {
	if v.Grid == nil {
		return v.Scalar
	}
	for _, row := range v.Grid {
		if len(row) > 0 {
			return row[0]
		}
	}
	return workbook.Empty()
}

// Flatten returns every scalar in v in row-major order.
func (v Value) Flatten() []workbook.Scalar {
	if v.Grid == nil {
		return []workbook.Scalar{v.Scalar}
	}
	out := make([]workbook.Scalar, 0, len(v.Grid)*4)
	for _, row := range v.Grid {
		out = append(out, row...)
	}
	return out
}

// Dims returns a grid value's (rows, cols); a scalar value is (1, 1).
func (v Value) Dims() (rows, cols int) {
	if v.Grid == nil {
		return 1, 1
	}
	rows = len(v.Grid)
	if rows > 0 {
		cols = len(v.Grid[0])
	}
	return rows, cols
}

func firstError(vs ...Value) (workbook.Scalar, bool) {
	for _, v := range vs {
		if !v.IsGrid() && v.Scalar.IsError() {
			return v.Scalar, true
		}
	}
	return workbook.Scalar{}, false
}

// toNumber coerces a scalar to a float64 per spec §4.6 coercion rules:
// numbers pass through, booleans become 1/0, numeric-looking strings parse,
// empty is 0. Non-numeric strings fail.
func toNumber(s workbook.Scalar) (float64, bool) {
	switch s.Kind {
	case workbook.ScalarNumber:
		return s.Num, true
	case workbook.ScalarBool:
		if s.Bool {
			return 1, true
		}
		return 0, true
	case workbook.ScalarEmpty:
		return 0, true
	case workbook.ScalarString:
		trimmed := strings.TrimSpace(s.Str)
		if trimmed == "" {
			return 0, true
		}
		if n, ok := parseNumericString(trimmed); ok {
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func parseNumericString(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, false
		}
		return n / 100, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func toText(s workbook.Scalar) string {
	return s.String()
}

func toBool(s workbook.Scalar) (bool, bool) {
	switch s.Kind {
	case workbook.ScalarBool:
		return s.Bool, true
	case workbook.ScalarNumber:
		return s.Num != 0, true
	case workbook.ScalarEmpty:
		return false, true
	case workbook.ScalarString:
		switch strings.ToUpper(strings.TrimSpace(s.Str)) {
		case "TRUE":
			return true, true
		case "FALSE":
			return false, true
		}
	}
	return false, false
}

func isNaNOrInf(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }

// CoerceNumber, CoerceText and CoerceBool expose this package's scalar
// coercion rules to the eval package, so arithmetic/comparison/concat
// operators use exactly the same rules as SUM/IF/CONCATENATE do.
func CoerceNumber(s workbook.Scalar) (float64, bool) { return toNumber(s) }
func CoerceText(s workbook.Scalar) string            { return toText(s) }
func CoerceBool(s workbook.Scalar) (bool, bool)       { return toBool(s) }
