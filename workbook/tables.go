package workbook

import "github.com/xlcalc/xlcalc/address"

// Table is a registered Excel table (spec §4.5's structured references): a
// named rectangular range on one sheet with a header row of column names
// and, optionally, a totals row. Grounded on DefinedName's shape — a table
// is itself a named range with extra structure the structured-reference
// resolver (eval/structref.go) knows how to read.
type Table struct {
	Name         string
	Sheet        string
	HeaderRange  address.Range // the single header row
	DataRange    address.Range // data rows only, header and totals excluded
	TotalsRange  address.Range // the totals row; zero value if HasTotalsRow is false
	Columns      []string      // header text, in column order, left-to-right
	HasTotalsRow bool
}

// ColumnIndex returns name's 0-based position among t.Columns, matched
// case-insensitively, or -1 if t has no such column.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if address.FoldSheetName(c) == address.FoldSheetName(name) {
			return i
		}
	}
	return -1
}

type tableTable struct {
	byKey map[string]Table // fold(name) -> definition; table names are workbook-unique
}

func newTableTable() *tableTable {
	return &tableTable{byKey: make(map[string]Table)}
}

func (t *tableTable) define(tbl Table) {
	t.byKey[address.FoldSheetName(tbl.Name)] = tbl
}

func (t *tableTable) resolve(name string) (Table, bool) {
	tbl, ok := t.byKey[address.FoldSheetName(name)]
	return tbl, ok
}

// containing returns the table (if any) on sheet whose data range covers
// (row, col), 1-based — used to resolve the unqualified "[#This Row]" form
// from a formula's own cell position.
func (t *tableTable) containing(sheet string, row, col int) (Table, bool) {
	foldedSheet := address.FoldSheetName(sheet)
	for _, tbl := range t.byKey {
		if address.FoldSheetName(tbl.Sheet) != foldedSheet {
			continue
		}
		if rangeContains(tbl.DataRange, row, col) {
			return tbl, true
		}
	}
	return Table{}, false
}

func rangeContains(rng address.Range, row, col int) bool {
	norm := rng.Normalize()
	return row >= norm.Start.Row && row <= norm.End.Row && col >= norm.Start.Col && col <= norm.End.Col
}
