package eval

import (
	"strings"

	"github.com/xlcalc/xlcalc/address"
	"github.com/xlcalc/xlcalc/formula"
	"github.com/xlcalc/xlcalc/functions"
	"github.com/xlcalc/xlcalc/workbook"
)

// Structured table references (Table1[Column], Table1[[#This Row],
// [Column1]], [#Totals], [#All]) lex as an ordinary TokIdent whose text
// happens to contain brackets (formula/lexer.go's scanBracketIdent), and
// parse as a bare formula.NameRef (formula/parser.go never special-cases
// brackets) — so resolveName in interp.go is this feature's only entry
// point: a '[' in the name routes here instead of to the defined-name
// table, delegating per spec §4.6 ("a defined name whose formula contains
// only a structured table reference is supported by delegating to the
// table-reference resolver").

type tableSpecifier struct {
	thisRow bool
	totals  bool
	all     bool
	headers bool
	data    bool
	column  string
}

// resolveStructuredRef resolves name (the raw text of a NameRef containing
// a '[') against the snapshot's registered tables. ok is false when name
// isn't actually a structured reference, or names a table/column/totals
// row that doesn't exist — the caller falls back to #REF!.
func (e *Evaluator) resolveStructuredRef(name string, sheetIndex int) (functions.Value, bool) {
	tableName, body, ok := splitStructuredRef(name)
	if !ok {
		return functions.Value{}, false
	}

	var tbl workbook.Table
	if tableName != "" {
		t, found := e.snap.ResolveTable(tableName)
		if !found {
			return functions.Value{}, false
		}
		tbl = t
	} else {
		// Unqualified "[#This Row]"/"[@Column]" form, used inside a table's
		// own calculated-column formulas: the table is whichever one the
		// formula's own cell falls inside.
		sheetName := ""
		if s := e.snap.SheetByIndex(sheetIndex); s != nil {
			sheetName = s.Name
		}
		if e.curRow < 0 {
			return functions.Value{}, false
		}
		t, found := e.snap.TableAt(sheetName, e.curRow+1, e.curCol+1)
		if !found {
			return functions.Value{}, false
		}
		tbl = t
	}

	curRow := -1
	if e.curRow >= 0 {
		curRow = e.curRow + 1
	}
	rng, ok := tableSpecifierRange(tbl, parseSpecifiers(body), curRow)
	if !ok {
		return functions.Value{}, false
	}

	if rng.Start == rng.End {
		return functions.ScalarValue(e.resolveReference(formula.Reference{Sheet: tbl.Sheet, Addr: rng.Start}, sheetIndex)), true
	}
	return functions.GridValue(e.resolveRange(formula.RangeRef{Sheet: tbl.Sheet, Rng: rng}, sheetIndex)), true
}

// splitStructuredRef splits "Table1[Column1]" into ("Table1", "Column1")
// and "[#This Row]" into ("", "#This Row"); ok is false for plain names
// that never contained a bracket (the usual defined-name case).
func splitStructuredRef(name string) (tableName, body string, ok bool) {
	idx := strings.IndexByte(name, '[')
	if idx < 0 || !strings.HasSuffix(name, "]") {
		return "", "", false
	}
	return name[:idx], name[idx+1 : len(name)-1], true
}

// parseSpecifiers reads a structured reference's bracket body, which is
// either a single bare piece ("Column1", "#Totals") or a comma-separated
// list of individually bracketed pieces ("[#This Row],[Column1]"), and
// combines them into one specifier (a row-keyword plus an optional column).
func parseSpecifiers(body string) tableSpecifier {
	var spec tableSpecifier
	for _, raw := range splitTopLevel(body) {
		s := strings.TrimSpace(raw)
		s = strings.TrimPrefix(s, "[")
		s = strings.TrimSuffix(s, "]")
		s = strings.TrimSpace(s)
		switch strings.ToUpper(s) {
		case "#THIS ROW":
			spec.thisRow = true
		case "#TOTALS":
			spec.totals = true
		case "#ALL":
			spec.all = true
		case "#HEADERS":
			spec.headers = true
		case "#DATA":
			spec.data = true
		default:
			spec.column = strings.TrimPrefix(s, "@")
		}
	}
	return spec
}

// splitTopLevel splits body on commas that aren't nested inside their own
// '[' ']' pair, so "[#This Row],[Column1]" splits into two pieces while a
// bare column name with no comma passes through untouched.
func splitTopLevel(body string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, ch := range body {
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, body[start:])
	return parts
}

// tableSpecifierRange resolves spec against tbl's registered ranges into
// the concrete address.Range a structured reference denotes. curRow is the
// formula's own 1-based row (-1 if none), required by "#This Row".
func tableSpecifierRange(tbl workbook.Table, spec tableSpecifier, curRow int) (address.Range, bool) {
	var rng address.Range
	switch {
	case spec.all:
		rng = address.Range{Start: tbl.HeaderRange.Start, End: tbl.DataRange.End}
		if tbl.HasTotalsRow {
			rng.End = tbl.TotalsRange.End
		}
	case spec.headers:
		rng = tbl.HeaderRange
	case spec.totals:
		if !tbl.HasTotalsRow {
			return address.Range{}, false
		}
		rng = tbl.TotalsRange
	case spec.thisRow:
		if curRow < 0 || curRow < tbl.DataRange.Start.Row || curRow > tbl.DataRange.End.Row {
			return address.Range{}, false
		}
		rng = address.Range{
			Start: address.Address{Row: curRow, Col: tbl.DataRange.Start.Col},
			End:   address.Address{Row: curRow, Col: tbl.DataRange.End.Col},
		}
	default: // bare column, or "#Data": every data row
		rng = tbl.DataRange
	}

	if spec.column != "" {
		col := tbl.ColumnIndex(spec.column)
		if col < 0 {
			return address.Range{}, false
		}
		colAbs := tbl.HeaderRange.Start.Col + col
		rng.Start.Col = colAbs
		rng.End.Col = colAbs
	}
	return rng, true
}
