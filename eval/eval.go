// Package eval is the formula evaluator (spec component C6): it walks a
// parsed formula.Node tree against a workbook.Snapshot, resolving cell and
// range references, dispatching to the functions registry, and converting
// every failure mode into a spreadsheet error Scalar rather than a Go error
// or panic.
//
// Grounded on the teacher's evaluation pipeline tying together Storage,
// FormulaTable and BuiltInFunctions (formula.go/storage.go/builtin.go): the
// same AST cache (negative-cached on parse failure), per-cell scalar cache,
// and in-progress set for cycle detection, generalized from the teacher's
// per-node Eval(*Spreadsheet) method to a type switch over formula.Node
// (that type intentionally carries no Eval method, see formula/ast.go).
package eval

import (
	"strings"

	"github.com/xlcalc/xlcalc/formula"
	"github.com/xlcalc/xlcalc/functions"
	"github.com/xlcalc/xlcalc/workbook"
)

// CancelFunc lets a caller abort a long-running evaluation. It is polled
// on every cell resolution (each EvaluateCell call that misses the scalar
// cache, including dependency cells), not per AST node, to bound overhead.
type CancelFunc func() bool

type cellKey struct {
	sheet, row, col int
}

type astKey struct {
	sheet int
	expr  string
}

type astCacheEntry struct {
	node formula.Node
	ok   bool // false = the expression failed to parse (negative cache)
}

// Evaluator evaluates formulas against one immutable workbook.Snapshot. It
// owns its own AST cache, scalar cache and in-progress set; none of these
// are safe to share across Evaluator instances, though multiple Evaluators
// may evaluate the same Snapshot concurrently (spec §5).
type Evaluator struct {
	snap        *workbook.Snapshot
	astCache    map[astKey]astCacheEntry
	scalarCache map[cellKey]workbook.Scalar
	inProgress  map[cellKey]bool
	maxDepth    int
	cancel      CancelFunc
	clock       functions.Clock
	rng         functions.RNG
	depth       int

	// curSheet/curRow/curCol identify the cell whose formula is currently
	// being interpreted (-1 when there is none, e.g. EvaluateFormula's
	// free-standing expressions), so ROW()/COLUMN() called with no
	// arguments can answer "the cell containing this formula" per spec §4.5.
	curSheet, curRow, curCol int
}

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

// WithMaxDepth bounds recursive formula-evaluation depth; exceeding it
// yields #VALUE! rather than risking a native stack overflow on adversarial
// or accidentally self-referential workbooks. Zero or negative disables the
// check (not recommended for untrusted input).
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// WithCancel installs a predicate polled on every cell resolution that
// misses the scalar cache; when it returns true, evaluation short-circuits
// to #VALUE!.
func WithCancel(fn CancelFunc) Option {
	return func(e *Evaluator) { e.cancel = fn }
}

// WithClock overrides the Clock used by NOW/TODAY, primarily for tests.
func WithClock(c functions.Clock) Option {
	return func(e *Evaluator) { e.clock = c }
}

// WithRNG overrides the RNG used by RAND/RANDBETWEEN, primarily for tests.
func WithRNG(r functions.RNG) Option {
	return func(e *Evaluator) { e.rng = r }
}

// New builds an Evaluator over snap. The default max depth is generous but
// finite; pass WithMaxDepth(0) to disable the guard entirely.
func New(snap *workbook.Snapshot, opts ...Option) *Evaluator {
	e := &Evaluator{
		snap:        snap,
		astCache:    make(map[astKey]astCacheEntry),
		scalarCache: make(map[cellKey]workbook.Scalar),
		inProgress:  make(map[cellKey]bool),
		maxDepth:    512,
		clock:       functions.WallClock{},
		curSheet:    -1,
		curRow:      -1,
		curCol:      -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateCell resolves the cell at (sheetIndex, row, col), 0-based,
// recursing through formula dependencies and caching the scalar result.
// It never returns a Go error: all failure modes surface as a Scalar
// carrying a spreadsheet error code.
func (e *Evaluator) EvaluateCell(sheetIndex, row, col int) workbook.Scalar {
	key := cellKey{sheetIndex, row, col}
	if v, ok := e.scalarCache[key]; ok {
		return v
	}
	if e.inProgress[key] {
		return workbook.Error(workbook.ErrRef)
	}
	if e.cancel != nil && e.cancel() {
		return workbook.Error(workbook.ErrValue)
	}

	sheet := e.snap.SheetByIndex(sheetIndex)
	if sheet == nil {
		return workbook.Error(workbook.ErrRef)
	}
	kind, value, expression, _, ok := sheet.Cell(row, col)
	if !ok || kind == workbook.CellEmpty {
		return workbook.Empty()
	}
	if kind == workbook.CellLiteral {
		return value
	}

	e.inProgress[key] = true
	prevSheet, prevRow, prevCol := e.curSheet, e.curRow, e.curCol
	e.curSheet, e.curRow, e.curCol = sheetIndex, row, col
	result := e.evaluateExpr(sheetIndex, expression)
	e.curSheet, e.curRow, e.curCol = prevSheet, prevRow, prevCol
	delete(e.inProgress, key)
	e.scalarCache[key] = result
	return result
}

// EvaluateFormula evaluates a free-standing expression (not anchored to any
// stored cell) with sheetIndex as the default sheet for unqualified
// references, returning its scalar value. Used by editor previews
// evaluating a formula before it is committed to a cell.
func (e *Evaluator) EvaluateFormula(sheetIndex int, expression string) workbook.Scalar {
	prevSheet, prevRow, prevCol := e.curSheet, e.curRow, e.curCol
	e.curSheet, e.curRow, e.curCol = sheetIndex, -1, -1
	result := e.evaluateExpr(sheetIndex, expression)
	e.curSheet, e.curRow, e.curCol = prevSheet, prevRow, prevCol
	return result
}

// EvaluateFormulaResult is like EvaluateFormula but preserves array shape:
// a bare range or array-literal expression comes back as a functions.Value
// carrying a grid, for previews that want to show the whole result rather
// than just its top-left corner.
func (e *Evaluator) EvaluateFormulaResult(sheetIndex int, expression string) functions.Value {
	node, ok := e.parseCached(sheetIndex, expression)
	if !ok {
		return functions.ScalarValue(workbook.Error(workbook.ErrName))
	}
	prevSheet, prevRow, prevCol := e.curSheet, e.curRow, e.curCol
	e.curSheet, e.curRow, e.curCol = sheetIndex, -1, -1
	result := e.evalNode(node, sheetIndex)
	e.curSheet, e.curRow, e.curCol = prevSheet, prevRow, prevCol
	return result
}

func (e *Evaluator) evaluateExpr(sheetIndex int, expression string) workbook.Scalar {
	node, ok := e.parseCached(sheetIndex, expression)
	if !ok {
		return workbook.Error(workbook.ErrName)
	}
	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return workbook.Error(workbook.ErrValue)
	}
	e.depth++
	result := e.evalNode(node, sheetIndex).First()
	e.depth--
	return result
}

// parseCached normalizes and parses expression, caching both successful
// parses and failures (negative caching) so a malformed formula referenced
// repeatedly pays the parse cost once.
func (e *Evaluator) parseCached(sheetIndex int, expression string) (formula.Node, bool) {
	normalized := strings.TrimPrefix(strings.TrimSpace(expression), "=")
	key := astKey{sheetIndex, normalized}
	if entry, ok := e.astCache[key]; ok {
		return entry.node, entry.ok
	}
	node, err := formula.Parse(normalized)
	entry := astCacheEntry{node: node, ok: err == nil}
	e.astCache[key] = entry
	return entry.node, entry.ok
}

func (e *Evaluator) functionContext(sheetIndex int) *functions.Context {
	date1904 := false
	if sheet := e.snap.SheetByIndex(sheetIndex); sheet != nil {
		date1904 = sheet.Date1904
	}
	return &functions.Context{Clock: e.clock, RNG: e.rng, Date1904: date1904}
}
