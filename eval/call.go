package eval

import (
	"strings"

	"github.com/xlcalc/xlcalc/address"
	"github.com/xlcalc/xlcalc/formula"
	"github.com/xlcalc/xlcalc/functions"
	"github.com/xlcalc/xlcalc/workbook"
)

// directScalar holds the functions whose semantics need the unevaluated
// AST, not the functions registry's already-evaluated Values: IF/IFS/
// IFERROR/IFNA need to skip evaluating their untaken branch, and ROW/COLUMN
// need either the evaluator's current-cell origin (no argument) or a
// reference's position rather than its value (one argument). Each of these
// always yields a single scalar, unlike the directReference table below.
var directScalar = map[string]func(*Evaluator, []formula.Node, int) workbook.Scalar{
	"IF":      (*Evaluator).evalLazyIf,
	"IFS":     (*Evaluator).evalLazyIfs,
	"IFERROR": (*Evaluator).evalLazyIferror,
	"IFNA":    (*Evaluator).evalLazyIfna,
	"ROW":     (*Evaluator).evalLazyRow,
	"COLUMN":  (*Evaluator).evalLazyColumn,
}

// directReference holds OFFSET and INDIRECT: both construct a brand-new
// reference at call time (from a base reference's AST shape, or from a
// computed string) and may resolve it to a multi-cell grid, so they return
// a functions.Value rather than a bare Scalar. Grounded on spec §4.5's
// framing of OFFSET/INDIRECT as the motivating case for lazy registration
// ("receives raw AST children... enabling... reference construction").
var directReference = map[string]func(*Evaluator, []formula.Node, int) functions.Value{
	"OFFSET":   (*Evaluator).evalLazyOffset,
	"INDIRECT": (*Evaluator).evalLazyIndirect,
}

func (e *Evaluator) evalCall(n formula.Call, sheetIndex int) functions.Value {
	name := strings.ToUpper(n.Name)
	if lazy, ok := directScalar[name]; ok {
		return functions.ScalarValue(lazy(e, n.Args, sheetIndex))
	}
	if ref, ok := directReference[name]; ok {
		return ref(e, n.Args, sheetIndex)
	}

	fn, ok := functions.Lookup(name)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrName))
	}
	args := make([]functions.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.evalNode(a, sheetIndex)
	}
	return functions.ScalarValue(fn(e.functionContext(sheetIndex), args))
}

func (e *Evaluator) evalLazyIf(args []formula.Node, sheetIndex int) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return workbook.Error(workbook.ErrValue)
	}
	cond := e.evalNode(args[0], sheetIndex).First()
	if cond.IsError() {
		return cond
	}
	b, ok := functions.CoerceBool(cond)
	if !ok {
		return workbook.Error(workbook.ErrValue)
	}
	if b {
		return e.evalNode(args[1], sheetIndex).First()
	}
	if len(args) == 3 {
		return e.evalNode(args[2], sheetIndex).First()
	}
	return workbook.Bool(false)
}

func (e *Evaluator) evalLazyIfs(args []formula.Node, sheetIndex int) workbook.Scalar {
	if len(args) < 2 || len(args)%2 != 0 {
		return workbook.Error(workbook.ErrValue)
	}
	for i := 0; i+1 < len(args); i += 2 {
		cond := e.evalNode(args[i], sheetIndex).First()
		if cond.IsError() {
			return cond
		}
		b, ok := functions.CoerceBool(cond)
		if !ok {
			return workbook.Error(workbook.ErrValue)
		}
		if b {
			return e.evalNode(args[i+1], sheetIndex).First()
		}
	}
	return workbook.Error(workbook.ErrNA)
}

func (e *Evaluator) evalLazyIferror(args []formula.Node, sheetIndex int) workbook.Scalar {
	if len(args) != 2 {
		return workbook.Error(workbook.ErrValue)
	}
	v := e.evalNode(args[0], sheetIndex).First()
	if v.IsError() {
		return e.evalNode(args[1], sheetIndex).First()
	}
	return v
}

func (e *Evaluator) evalLazyIfna(args []formula.Node, sheetIndex int) workbook.Scalar {
	if len(args) != 2 {
		return workbook.Error(workbook.ErrValue)
	}
	v := e.evalNode(args[0], sheetIndex).First()
	if v.Kind == workbook.ScalarError && v.ErrCode == workbook.ErrNA {
		return e.evalNode(args[1], sheetIndex).First()
	}
	return v
}

// evalLazyRow implements ROW() (the row of the cell containing the
// formula, from the evaluator's current-cell origin) and ROW(reference)
// (the top row of reference's own position, never evaluating its value).
func (e *Evaluator) evalLazyRow(args []formula.Node, sheetIndex int) workbook.Scalar {
	if len(args) == 0 {
		if e.curRow < 0 {
			return workbook.Error(workbook.ErrRef)
		}
		return workbook.Number(float64(e.curRow + 1))
	}
	if len(args) != 1 {
		return workbook.Error(workbook.ErrValue)
	}
	rng, _, ok := e.referenceRange(args[0], sheetIndex)
	if !ok {
		return workbook.Error(workbook.ErrValue)
	}
	return workbook.Number(float64(rng.Start.Row))
}

// evalLazyColumn is COLUMN()'s counterpart to evalLazyRow.
func (e *Evaluator) evalLazyColumn(args []formula.Node, sheetIndex int) workbook.Scalar {
	if len(args) == 0 {
		if e.curCol < 0 {
			return workbook.Error(workbook.ErrRef)
		}
		return workbook.Number(float64(e.curCol + 1))
	}
	if len(args) != 1 {
		return workbook.Error(workbook.ErrValue)
	}
	rng, _, ok := e.referenceRange(args[0], sheetIndex)
	if !ok {
		return workbook.Error(workbook.ErrValue)
	}
	return workbook.Number(float64(rng.Start.Col))
}

// referenceRange extracts the address.Range (and sheet qualifier, if any)
// that a reference-shaped AST node denotes, without evaluating any cell —
// used by ROW/COLUMN/OFFSET, which operate on a reference's position, not
// its value. A defined name resolves to its target range at sheetIndex's
// scope, same precedence rule resolveName uses.
func (e *Evaluator) referenceRange(node formula.Node, sheetIndex int) (rng address.Range, sheet string, ok bool) {
	switch n := node.(type) {
	case formula.Reference:
		return address.Range{Start: n.Addr, End: n.Addr}, n.Sheet, true
	case formula.RangeRef:
		return n.Rng.Normalize(), n.Sheet, true
	case formula.NameRef:
		sheetName := ""
		if s := e.snap.SheetByIndex(sheetIndex); s != nil {
			sheetName = s.Name
		}
		def, found := e.snap.ResolveName(sheetName, n.Name)
		if !found {
			return address.Range{}, "", false
		}
		return def.Range.Normalize(), def.Sheet, true
	default:
		return address.Range{}, "", false
	}
}

// evalLazyOffset implements OFFSET(reference, rows, cols, [height],
// [width]): reference supplies the base position from its own AST shape
// (never evaluated as a value); rows/cols/height/width are ordinary
// evaluated arguments. A 1x1 result resolves to a scalar; a larger result
// resolves to a grid, exactly like any other range reference.
func (e *Evaluator) evalLazyOffset(args []formula.Node, sheetIndex int) functions.Value {
	if len(args) < 3 || len(args) > 5 {
		return functions.ScalarValue(workbook.Error(workbook.ErrValue))
	}
	base, sheet, ok := e.referenceRange(args[0], sheetIndex)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrValue))
	}

	rowsOff, ok := e.evalOffsetInt(args[1], sheetIndex)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrValue))
	}
	colsOff, ok := e.evalOffsetInt(args[2], sheetIndex)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrValue))
	}

	height := base.End.Row - base.Start.Row + 1
	if len(args) >= 4 {
		h, ok := e.evalOffsetInt(args[3], sheetIndex)
		if !ok || h < 1 {
			return functions.ScalarValue(workbook.Error(workbook.ErrValue))
		}
		height = h
	}
	width := base.End.Col - base.Start.Col + 1
	if len(args) == 5 {
		w, ok := e.evalOffsetInt(args[4], sheetIndex)
		if !ok || w < 1 {
			return functions.ScalarValue(workbook.Error(workbook.ErrValue))
		}
		width = w
	}

	startCol := base.Start.Col + colsOff
	startRow := base.Start.Row + rowsOff
	endCol := startCol + width - 1
	endRow := startRow + height - 1
	if startCol < 1 || startRow < 1 || endCol > address.MaxCols || endRow > address.MaxRows {
		return functions.ScalarValue(workbook.Error(workbook.ErrRef))
	}

	rng := address.Range{
		Start: address.Address{Col: startCol, Row: startRow},
		End:   address.Address{Col: endCol, Row: endRow},
	}
	if height == 1 && width == 1 {
		ref := formula.Reference{Sheet: sheet, Addr: rng.Start}
		return functions.ScalarValue(e.resolveReference(ref, sheetIndex))
	}
	return functions.GridValue(e.resolveRange(formula.RangeRef{Sheet: sheet, Rng: rng}, sheetIndex))
}

func (e *Evaluator) evalOffsetInt(node formula.Node, sheetIndex int) (int, bool) {
	n, ok := functions.CoerceNumber(e.evalNode(node, sheetIndex).First())
	if !ok {
		return 0, false
	}
	return int(n), true
}

// evalLazyIndirect implements INDIRECT(ref_text, [a1]): ref_text is an
// ordinary evaluated argument, but the text it produces is parsed as a
// fresh A1-style reference and resolved against the snapshot, which only
// the evaluator (not the functions registry) can do. R1C1 notation
// (a1==FALSE) is not supported — per the frozen Open Question in
// DESIGN.md/SPEC_FULL.md §9, it yields #VALUE! rather than silently
// misparsing.
func (e *Evaluator) evalLazyIndirect(args []formula.Node, sheetIndex int) functions.Value {
	if len(args) < 1 || len(args) > 2 {
		return functions.ScalarValue(workbook.Error(workbook.ErrValue))
	}
	if len(args) == 2 {
		a1, ok := functions.CoerceBool(e.evalNode(args[1], sheetIndex).First())
		if !ok || !a1 {
			return functions.ScalarValue(workbook.Error(workbook.ErrValue))
		}
	}
	textVal := e.evalNode(args[0], sheetIndex).First()
	if textVal.IsError() {
		return functions.ScalarValue(textVal)
	}
	refText := strings.TrimSpace(functions.CoerceText(textVal))
	sheetName, _, rest := address.SplitSheetQualifier(refText)

	if strings.ContainsRune(rest, ':') {
		rng, ok := address.ParseRange(rest)
		if !ok {
			return functions.ScalarValue(workbook.Error(workbook.ErrRef))
		}
		if rng.Start == rng.End {
			return functions.ScalarValue(e.resolveReference(formula.Reference{Sheet: sheetName, Addr: rng.Start}, sheetIndex))
		}
		return functions.GridValue(e.resolveRange(formula.RangeRef{Sheet: sheetName, Rng: rng}, sheetIndex))
	}
	addr, ok := address.ParseAddress(rest)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrRef))
	}
	return functions.ScalarValue(e.resolveReference(formula.Reference{Sheet: sheetName, Addr: addr}, sheetIndex))
}
