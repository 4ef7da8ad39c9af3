package workbook

import "github.com/xlcalc/xlcalc/address"

// DefinedName is a workbook- or sheet-scoped named range, e.g. "TaxRate" ->
// Sheet1!$B$1. Grounded on the teacher's NamedRangeTable (range.go),
// trimmed to lookup-only since a Snapshot's names never change after
// construction.
type DefinedName struct {
	Name  string
	Sheet string // empty = workbook-scoped
	Range address.Range
}

type nameTable struct {
	byKey map[string]DefinedName // fold(sheet)+"\x00"+fold(name) -> definition
}

func newNameTable() *nameTable {
	return &nameTable{byKey: make(map[string]DefinedName)}
}

func nameKey(sheet, name string) string {
	return address.FoldSheetName(sheet) + "\x00" + address.FoldSheetName(name)
}

func (t *nameTable) define(d DefinedName) {
	t.byKey[nameKey(d.Sheet, d.Name)] = d
}

// resolve looks up name first scoped to sheet, then workbook-wide.
func (t *nameTable) resolve(sheet, name string) (DefinedName, bool) {
	if d, ok := t.byKey[nameKey(sheet, name)]; ok {
		return d, true
	}
	d, ok := t.byKey[nameKey("", name)]
	return d, ok
}
