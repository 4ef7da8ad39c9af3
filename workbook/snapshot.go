package workbook

import (
	"fmt"

	"github.com/xlcalc/xlcalc/address"
)

// Snapshot is an immutable workbook: a fixed set of sheets, each with its
// own sparse cell grid, plus a shared string table and defined-name table.
// Grounded on the teacher's Storage struct (storage.go), which ties the same
// four concerns (worksheets, strings, named ranges, formulas) together;
// Snapshot drops the teacher's live formula table and dependency graph,
// since those serve incremental recomputation, which is explicitly out of
// scope here (the evaluator recomputes on demand instead, see eval.Evaluator).
type Snapshot struct {
	sheets      []*Sheet
	indexByName map[string]int // address.FoldSheetName(name) -> index
	strings     *stringTable
	names       *nameTable
	tables      *tableTable
}

// NewSnapshot builds an immutable snapshot from sheet inputs and defined
// names. Sheet order is preserved; sheet names must be unique case-
// insensitively (spec §4.4).
func NewSnapshot(sheets []SheetInput, names []DefinedName) (*Snapshot, error) {
	return NewSnapshotWithTables(sheets, names, nil)
}

// NewSnapshotWithTables is NewSnapshot plus the workbook's registered
// Excel tables, enabling structured references (Table1[Column],
// [#This Row], [#Totals], [#All]) in formulas evaluated against the
// resulting snapshot.
func NewSnapshotWithTables(sheets []SheetInput, names []DefinedName, tables []Table) (*Snapshot, error) {
	snap := &Snapshot{
		indexByName: make(map[string]int, len(sheets)),
		strings:     newStringTable(),
		names:       newNameTable(),
		tables:      newTableTable(),
	}

	for i, in := range sheets {
		key := address.FoldSheetName(in.Name)
		if _, dup := snap.indexByName[key]; dup {
			return nil, fmt.Errorf("workbook: duplicate sheet name %q", in.Name)
		}
		sheet := newSheet(in.Name, i, in.Date1904, snap.strings)
		for _, cell := range in.Rows {
			sheet.setCell(cell.Row, cell.Col, cellData{
				kind:       cell.Kind,
				value:      cell.Value,
				expression: cell.Expression,
				formatCode: cell.FormatCode,
			})
		}
		snap.sheets = append(snap.sheets, sheet)
		snap.indexByName[key] = i
	}

	for _, n := range names {
		snap.names.define(n)
	}
	for _, t := range tables {
		snap.tables.define(t)
	}

	return snap, nil
}

// SheetByName looks up a sheet by name, case-insensitively.
func (s *Snapshot) SheetByName(name string) (*Sheet, bool) {
	idx, ok := s.indexByName[address.FoldSheetName(name)]
	if !ok {
		return nil, false
	}
	return s.sheets[idx], true
}

// SheetByIndex returns the sheet at position idx, or nil if out of range.
func (s *Snapshot) SheetByIndex(idx int) *Sheet {
	if idx < 0 || idx >= len(s.sheets) {
		return nil
	}
	return s.sheets[idx]
}

// SheetCount returns the number of sheets in the snapshot.
func (s *Snapshot) SheetCount() int { return len(s.sheets) }

// ResolveName looks up a defined name scoped to sheet (workbook-scoped names
// are checked as a fallback).
func (s *Snapshot) ResolveName(sheet, name string) (DefinedName, bool) {
	return s.names.resolve(sheet, name)
}

// ResolveTable looks up a registered table by name, case-insensitively.
func (s *Snapshot) ResolveTable(name string) (Table, bool) {
	return s.tables.resolve(name)
}

// TableAt returns the table (if any) whose data range covers the 1-based
// (row, col) position on sheet, used to resolve an unqualified
// "[#This Row]"-style structured reference from a formula's own cell.
func (s *Snapshot) TableAt(sheet string, row, col int) (Table, bool) {
	return s.tables.containing(sheet, row, col)
}
