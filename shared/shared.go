// Package shared expands shared-formula groups (spec component C8): a
// shared formula is seeded once at its base cell and every other member of
// the group is stored with an empty expression, relying on the reader to
// re-derive its concrete formula by shifting the base expression by the
// cell's offset from the base.
//
// Grounded on the teacher's relative-reference handling in parser.go/cell.go
// (the same base-cell-plus-delta idea the teacher uses when copy/pasting a
// formula across cells) combined with formula.Shift, the AST-based reference
// shifter this repository already built for C3.
package shared

import (
	"github.com/xlcalc/xlcalc/formula"
	"github.com/xlcalc/xlcalc/workbook"
)

// groupKey identifies one shared-formula group within a single sheet's rows.
type groupKey = int

// Expand resolves every shared-formula dependent's concrete expression in
// one sheet's cell inputs, returning a new slice (the input is never
// mutated in place). A cell belongs to a shared-formula group when its
// SharedGroup is non-zero; the group's base cell is the one member with a
// non-empty Expression, and every other member is expected to arrive with
// an empty Expression for Expand to fill in.
//
// If a group's base cell is missing (no member carries a non-empty
// Expression), dependent cells are left with an empty expression, per spec
// §4.8: "keep it empty; it will evaluate to #NAME?" once the evaluator
// parses that empty string as a formula.
func Expand(rows []workbook.CellInput) []workbook.CellInput {
	type base struct {
		row, col int
		expr     string
	}
	bases := make(map[groupKey]base)
	for _, c := range rows {
		if c.SharedGroup == 0 || c.Kind != workbook.CellFormula || c.Expression == "" {
			continue
		}
		if _, exists := bases[c.SharedGroup]; exists {
			// First writer wins: a well-formed workbook seeds one base per
			// group, but a malformed one choosing a later duplicate
			// shouldn't silently override an already-resolved base.
			continue
		}
		bases[c.SharedGroup] = base{row: c.Row, col: c.Col, expr: c.Expression}
	}

	out := make([]workbook.CellInput, len(rows))
	copy(out, rows)
	for i, c := range out {
		if c.SharedGroup == 0 || c.Kind != workbook.CellFormula || c.Expression != "" {
			continue
		}
		b, ok := bases[c.SharedGroup]
		if !ok {
			continue
		}
		deltaCol := c.Col - b.col
		deltaRow := c.Row - b.row
		out[i].Expression = formula.Shift(b.expr, deltaCol, deltaRow)
	}
	return out
}
