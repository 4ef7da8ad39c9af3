package eval

import (
	"math"
	"strings"

	"github.com/xlcalc/xlcalc/formula"
	"github.com/xlcalc/xlcalc/functions"
	"github.com/xlcalc/xlcalc/workbook"
)

// evalNode interprets one AST node in the context of sheetIndex (the
// default/origin sheet for unqualified references), returning either a
// scalar or a grid value. This replaces the teacher's per-node
// Eval(*Spreadsheet) virtual method with a single type switch, per the
// formula package's tagged-union design.
func (e *Evaluator) evalNode(node formula.Node, sheetIndex int) functions.Value {
	switch n := node.(type) {
	case formula.Literal:
		return functions.ScalarValue(literalToScalar(n))
	case formula.Reference:
		if n.SheetTo != "" {
			rr := formula.RangeRef{Sheet: n.Sheet, SheetTo: n.SheetTo}
			rr.Rng.Start, rr.Rng.End = n.Addr, n.Addr
			return functions.GridValue(e.resolveRange(rr, sheetIndex))
		}
		return functions.ScalarValue(e.resolveReference(n, sheetIndex))
	case formula.RangeRef:
		return functions.GridValue(e.resolveRange(n, sheetIndex))
	case formula.NameRef:
		return e.resolveName(n, sheetIndex)
	case formula.Array:
		return functions.GridValue(arrayToGrid(n))
	case formula.Unary:
		return functions.ScalarValue(e.evalUnary(n, sheetIndex))
	case formula.Binary:
		return functions.ScalarValue(e.evalBinary(n, sheetIndex))
	case formula.Compare:
		return functions.ScalarValue(e.evalCompare(n, sheetIndex))
	case formula.Concat:
		return functions.ScalarValue(e.evalConcat(n, sheetIndex))
	case formula.Call:
		return e.evalCall(n, sheetIndex)
	default:
		return functions.ScalarValue(workbook.Error(workbook.ErrValue))
	}
}

func literalToScalar(n formula.Literal) workbook.Scalar {
	switch n.Kind {
	case formula.LitNumber:
		return workbook.Number(n.Num)
	case formula.LitString:
		return workbook.Text(n.Str)
	case formula.LitBool:
		return workbook.Bool(n.Bool)
	case formula.LitError:
		return workbook.Error(n.ErrCode)
	default:
		return workbook.Empty()
	}
}

func arrayToGrid(n formula.Array) [][]workbook.Scalar {
	grid := make([][]workbook.Scalar, len(n.Rows))
	for r, row := range n.Rows {
		out := make([]workbook.Scalar, len(row))
		for c, lit := range row {
			out[c] = literalToScalar(lit)
		}
		grid[r] = out
	}
	return grid
}

// resolveReference evaluates a single-cell reference, recursing through
// EvaluateCell for cycle detection and caching. An explicit sheet qualifier
// that names an unknown sheet is a #REF! error (spec §4.6).
func (e *Evaluator) resolveReference(n formula.Reference, sheetIndex int) workbook.Scalar {
	targetSheet := sheetIndex
	if n.Sheet != "" {
		sheet, ok := e.snap.SheetByName(n.Sheet)
		if !ok {
			return workbook.Error(workbook.ErrRef)
		}
		targetSheet = sheet.Index
	}
	row := n.Addr.Row - 1
	col := n.Addr.Col - 1
	if row < 0 || col < 0 {
		return workbook.Error(workbook.ErrRef)
	}
	return e.EvaluateCell(targetSheet, row, col)
}

// resolveRange evaluates a range reference into a 2D grid, iterating
// sheets for a 3D span ("Sheet1:Sheet3!A1") and stacking each sheet's rows
// in sheet order (spec's "unioning scalars across the sheet span"), and
// clamping whole-row/whole-column spans to the sheet's populated dimension.
func (e *Evaluator) resolveRange(n formula.RangeRef, sheetIndex int) [][]workbook.Scalar {
	sheetIndices, ok := e.rangeSheets(n, sheetIndex)
	if !ok {
		return [][]workbook.Scalar{{workbook.Error(workbook.ErrRef)}}
	}

	rng := n.Rng.Normalize()
	var grid [][]workbook.Scalar
	for _, si := range sheetIndices {
		sheet := e.snap.SheetByIndex(si)
		if sheet == nil {
			continue
		}
		startRow, endRow := rng.Start.Row-1, rng.End.Row-1
		startCol, endCol := rng.Start.Col-1, rng.End.Col-1
		maxRow, maxCol := sheet.Dimension()
		if rng.IsWholeColumn() {
			endRow = maxRow
			if endRow < startRow {
				endRow = startRow
			}
		}
		if rng.IsWholeRow() {
			endCol = maxCol
			if endCol < startCol {
				endCol = startCol
			}
		}
		for r := startRow; r <= endRow; r++ {
			row := make([]workbook.Scalar, 0, endCol-startCol+1)
			for c := startCol; c <= endCol; c++ {
				row = append(row, e.EvaluateCell(si, r, c))
			}
			grid = append(grid, row)
		}
	}
	return grid
}

func (e *Evaluator) rangeSheets(n formula.RangeRef, sheetIndex int) ([]int, bool) {
	if n.Sheet == "" {
		return []int{sheetIndex}, true
	}
	start, ok := e.snap.SheetByName(n.Sheet)
	if !ok {
		return nil, false
	}
	if n.SheetTo == "" {
		return []int{start.Index}, true
	}
	end, ok := e.snap.SheetByName(n.SheetTo)
	if !ok {
		return nil, false
	}
	lo, hi := start.Index, end.Index
	if lo > hi {
		lo, hi = hi, lo
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out, true
}

// resolveName expands a defined name to its target range at the calling
// sheet's scope (sheet-scoped definitions beat workbook-scoped ones, see
// workbook.nameTable), collapsing a single-cell result to a scalar so
// "=MyCell+1" works without an explicit INDEX. A name containing '[' is a
// structured table reference instead (Table1[Column], [#This Row], ...)
// and delegates to resolveStructuredRef (structref.go) per spec §4.6.
func (e *Evaluator) resolveName(n formula.NameRef, sheetIndex int) functions.Value {
	if strings.ContainsRune(n.Name, '[') {
		if v, ok := e.resolveStructuredRef(n.Name, sheetIndex); ok {
			return v
		}
		return functions.ScalarValue(workbook.Error(workbook.ErrRef))
	}

	sheetName := ""
	if sheet := e.snap.SheetByIndex(sheetIndex); sheet != nil {
		sheetName = sheet.Name
	}
	def, ok := e.snap.ResolveName(sheetName, n.Name)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrName))
	}
	rangeRef := formula.RangeRef{Sheet: def.Sheet, Rng: def.Range}
	grid := e.resolveRange(rangeRef, sheetIndex)
	if len(grid) == 1 && len(grid[0]) == 1 {
		return functions.ScalarValue(grid[0][0])
	}
	return functions.GridValue(grid)
}

func (e *Evaluator) evalUnary(n formula.Unary, sheetIndex int) workbook.Scalar {
	v := e.evalNode(n.Child, sheetIndex).First()
	if v.IsError() {
		return v
	}
	num, ok := functions.CoerceNumber(v)
	if !ok {
		return workbook.Error(workbook.ErrValue)
	}
	switch n.Op {
	case formula.UnaryPlus:
		return workbook.Number(num)
	case formula.UnaryMinus:
		return workbook.Number(-num)
	case formula.UnaryPercent:
		return workbook.Number(num / 100)
	default:
		return workbook.Error(workbook.ErrValue)
	}
}

// evalBinary implements arithmetic coercion per spec §4.6: both operands
// coerce to number (string numerals parse, booleans become 0/1, empty is
// 0); division by zero is #DIV/0!, never a Go panic or Inf/NaN leak.
func (e *Evaluator) evalBinary(n formula.Binary, sheetIndex int) workbook.Scalar {
	left := e.evalNode(n.Left, sheetIndex).First()
	if left.IsError() {
		return left
	}
	right := e.evalNode(n.Right, sheetIndex).First()
	if right.IsError() {
		return right
	}
	a, ok1 := functions.CoerceNumber(left)
	b, ok2 := functions.CoerceNumber(right)
	if !ok1 || !ok2 {
		return workbook.Error(workbook.ErrValue)
	}
	switch n.Op {
	case formula.OpAdd:
		return workbook.Number(a + b)
	case formula.OpSub:
		return workbook.Number(a - b)
	case formula.OpMul:
		return workbook.Number(a * b)
	case formula.OpDiv:
		if b == 0 {
			return workbook.Error(workbook.ErrDiv0)
		}
		return workbook.Number(a / b)
	case formula.OpPow:
		result := math.Pow(a, b)
		if math.IsNaN(result) {
			return workbook.Error(workbook.ErrNum)
		}
		return workbook.Number(result)
	default:
		return workbook.Error(workbook.ErrValue)
	}
}

// evalCompare implements spec §4.6's comparison rules: equality is
// primitive equality (a boolean is never equal to a number), ordering
// requires both sides to be the same type (numbers, or strings compared
// with Unicode-aware ordering) and otherwise fails with #VALUE!.
func (e *Evaluator) evalCompare(n formula.Compare, sheetIndex int) workbook.Scalar {
	left := e.evalNode(n.Left, sheetIndex).First()
	if left.IsError() {
		return left
	}
	right := e.evalNode(n.Right, sheetIndex).First()
	if right.IsError() {
		return right
	}
	switch n.Op {
	case formula.CmpEq:
		return workbook.Bool(scalarPrimitiveEquals(left, right))
	case formula.CmpNe:
		return workbook.Bool(!scalarPrimitiveEquals(left, right))
	default:
		return compareOrdering(n.Op, left, right)
	}
}

func scalarPrimitiveEquals(a, b workbook.Scalar) bool {
	if a.Kind == workbook.ScalarEmpty && b.Kind == workbook.ScalarString {
		return b.Str == ""
	}
	if b.Kind == workbook.ScalarEmpty && a.Kind == workbook.ScalarString {
		return a.Str == ""
	}
	na, nb := normalizeBlank(a), normalizeBlank(b)
	if na.Kind != nb.Kind {
		return false
	}
	switch na.Kind {
	case workbook.ScalarNumber:
		return na.Num == nb.Num
	case workbook.ScalarString:
		return strings.EqualFold(na.Str, nb.Str)
	case workbook.ScalarBool:
		return na.Bool == nb.Bool
	case workbook.ScalarError:
		return na.ErrCode == nb.ErrCode
	default:
		return true
	}
}

// normalizeBlank lets a blank cell compare equal to 0 or "" (Excel's
// "=A1=0" on an empty A1 is TRUE), without otherwise blurring number/string
// distinctions.
func normalizeBlank(s workbook.Scalar) workbook.Scalar {
	if s.Kind != workbook.ScalarEmpty {
		return s
	}
	return workbook.Number(0)
}

func compareOrdering(op formula.CompareOp, left, right workbook.Scalar) workbook.Scalar {
	left, right = normalizeBlank(left), normalizeBlank(right)
	if left.Kind == workbook.ScalarNumber && right.Kind == workbook.ScalarNumber {
		return workbook.Bool(orderFloats(op, left.Num, right.Num))
	}
	if left.Kind == workbook.ScalarString && right.Kind == workbook.ScalarString {
		return workbook.Bool(orderStrings(op, left.Str, right.Str))
	}
	return workbook.Error(workbook.ErrValue)
}

func orderFloats(op formula.CompareOp, a, b float64) bool {
	switch op {
	case formula.CmpLt:
		return a < b
	case formula.CmpLe:
		return a <= b
	case formula.CmpGt:
		return a > b
	case formula.CmpGe:
		return a >= b
	default:
		return false
	}
}

func orderStrings(op formula.CompareOp, a, b string) bool {
	cmp := strings.Compare(a, b)
	switch op {
	case formula.CmpLt:
		return cmp < 0
	case formula.CmpLe:
		return cmp <= 0
	case formula.CmpGt:
		return cmp > 0
	case formula.CmpGe:
		return cmp >= 0
	default:
		return false
	}
}

// evalConcat stringifies both operands with Excel-like rules (booleans as
// TRUE/FALSE, numbers via workbook.Scalar.String) and joins them with "&".
func (e *Evaluator) evalConcat(n formula.Concat, sheetIndex int) workbook.Scalar {
	left := e.evalNode(n.Left, sheetIndex).First()
	if left.IsError() {
		return left
	}
	right := e.evalNode(n.Right, sheetIndex).First()
	if right.IsError() {
		return right
	}
	return workbook.Text(functions.CoerceText(left) + functions.CoerceText(right))
}
