// Package address implements the A1-style reference model: parsing and
// printing of column letters, row numbers, absolute/relative markers, sheet
// qualifiers, and ranges, plus relative-offset shifting with overflow
// detection.
//
// Grammar (case-insensitive): REF := [SHEET '!'] ('$')? COL ('$')? ROW
// where COL is base-26 A..XFD (A=1) and ROW is 1..MaxRows. Sheet names
// containing spaces or punctuation are quoted with '...'; an embedded quote
// is doubled.
package address

import (
	"strconv"
	"strings"
)

// Bounds mirror Excel's worksheet grid limits.
const (
	MaxCols = 16384   // XFD
	MaxRows = 1048576 // 2^20
)

// Address is a single 1-based cell reference with independent absolute
// markers for its column and row components.
type Address struct {
	Col         int // 1-based, 1..MaxCols
	Row         int // 1-based, 1..MaxRows
	ColAbsolute bool
	RowAbsolute bool
}

// Range is an inclusive rectangular span of cells, optionally qualified by a
// sheet name (or a "Sheet1:Sheet3" 3D span, held in SheetTo when non-empty).
// Order is irrelevant: Normalize takes the min/max of each axis.
type Range struct {
	Start    Address
	End      Address
	Sheet    string // same-sheet or starting sheet of a 3D range
	SheetTo  string // ending sheet of a 3D range (e.g. Sheet1:Sheet3!A1); empty otherwise
}

// Normalize returns a Range whose Start/End are ordered so Start is the
// top-left corner and End is the bottom-right corner.
func (r Range) Normalize() Range {
	out := r
	if out.Start.Col > out.End.Col {
		out.Start.Col, out.End.Col = out.End.Col, out.Start.Col
		out.Start.ColAbsolute, out.End.ColAbsolute = out.End.ColAbsolute, out.Start.ColAbsolute
	}
	if out.Start.Row > out.End.Row {
		out.Start.Row, out.End.Row = out.End.Row, out.Start.Row
		out.Start.RowAbsolute, out.End.RowAbsolute = out.End.RowAbsolute, out.Start.RowAbsolute
	}
	return out
}

// IsWholeColumn reports whether r spans every row of the grid (an "A:A"
// style reference).
func (r Range) IsWholeColumn() bool {
	n := r.Normalize()
	return n.Start.Row == 1 && n.End.Row == MaxRows
}

// IsWholeRow reports whether r spans every column of the grid (a "1:1"
// style reference).
func (r Range) IsWholeRow() bool {
	n := r.Normalize()
	return n.Start.Col == 1 && n.End.Col == MaxCols
}

// ColToLetters converts a 1-based column number to its base-26 letter form
// (1 -> "A", 26 -> "Z", 27 -> "AA", 16384 -> "XFD").
func ColToLetters(col int) string {
	if col <= 0 {
		return ""
	}
	var buf [8]byte
	pos := len(buf)
	for col > 0 {
		col--
		pos--
		buf[pos] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[pos:])
}

// LettersToCol converts base-26 column letters (case-insensitive) to a
// 1-based column number. Returns 0 if s is not a valid column letter run.
func LettersToCol(s string) int {
	col := 0
	for _, ch := range s {
		var v int
		switch {
		case ch >= 'A' && ch <= 'Z':
			v = int(ch-'A') + 1
		case ch >= 'a' && ch <= 'z':
			v = int(ch-'a') + 1
		default:
			return 0
		}
		col = col*26 + v
		if col > MaxCols {
			return 0
		}
	}
	return col
}

// Format renders a as "[$]COL[$]ROW", e.g. "$A1", "A$1", "$A$1", "A1".
func (a Address) Format() string {
	var sb strings.Builder
	if a.ColAbsolute {
		sb.WriteByte('$')
	}
	sb.WriteString(ColToLetters(a.Col))
	if a.RowAbsolute {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.Itoa(a.Row))
	return sb.String()
}

// FormatQualified renders a with an optional sheet qualifier, quoting the
// sheet name when it contains characters other than letters, digits, and
// underscore.
func FormatQualified(sheet string, a Address) string {
	if sheet == "" {
		return a.Format()
	}
	return QuoteSheetName(sheet) + "!" + a.Format()
}

// FormatRange renders a range as "START:END", with an optional sheet
// qualifier prefixed once.
func FormatRange(r Range) string {
	body := r.Start.Format() + ":" + r.End.Format()
	if r.Sheet == "" {
		return body
	}
	prefix := QuoteSheetName(r.Sheet)
	if r.SheetTo != "" {
		prefix += ":" + QuoteSheetName(r.SheetTo)
	}
	return prefix + "!" + body
}

// needsQuoting reports whether a sheet name must be wrapped in single quotes
// when embedded in a formula.
func needsQuoting(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		alnum := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '_'
		if i == 0 && ch >= '0' && ch <= '9' {
			return true
		}
		if !alnum {
			return true
		}
	}
	return false
}

// QuoteSheetName wraps name in single quotes, doubling any embedded single
// quote, but only when the name actually requires quoting.
func QuoteSheetName(name string) string {
	if !needsQuoting(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// UnquoteSheetName trims surrounding whitespace, strips surrounding single
// quotes from a sheet name and collapses doubled embedded quotes ('' -> ').
// It does not change case; FoldSheetName adds the uppercase fold.
func UnquoteSheetName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		name = name[1 : len(name)-1]
		name = strings.ReplaceAll(name, "''", "'")
	}
	return name
}

// FoldSheetName normalizes a sheet name for case-insensitive lookup: trims
// surrounding whitespace, unquotes, and uppercase-folds.
func FoldSheetName(name string) string {
	return strings.ToUpper(UnquoteSheetName(name))
}

// ParseAddress parses a bare (unqualified) A1-style cell reference such as
// "A1", "$A$1", "B$12". Returns ok=false if s is not a valid address or is
// out of grid bounds.
func ParseAddress(s string) (Address, bool) {
	i := 0
	var colAbs bool
	if i < len(s) && s[i] == '$' {
		colAbs = true
		i++
	}
	letterStart := i
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == letterStart {
		return Address{}, false
	}
	col := LettersToCol(s[letterStart:i])
	if col == 0 {
		return Address{}, false
	}
	var rowAbs bool
	if i < len(s) && s[i] == '$' {
		rowAbs = true
		i++
	}
	digitStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digitStart || i != len(s) {
		return Address{}, false
	}
	row, err := strconv.Atoi(s[digitStart:i])
	if err != nil || row < 1 || row > MaxRows {
		return Address{}, false
	}
	return Address{Col: col, Row: row, ColAbsolute: colAbs, RowAbsolute: rowAbs}, true
}

// ParseRange parses a bare (unqualified) range such as "A1:B2", "A:A"
// (whole column), or "1:1" (whole row).
func ParseRange(s string) (Range, bool) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		addr, ok := ParseAddress(s)
		if !ok {
			return Range{}, false
		}
		return Range{Start: addr, End: addr}, true
	}
	left, right := s[:colon], s[colon+1:]

	if wholeCol, ok := parseWholeColumn(left, right); ok {
		return wholeCol, true
	}
	if wholeRow, ok := parseWholeRow(left, right); ok {
		return wholeRow, true
	}

	start, ok := ParseAddress(left)
	if !ok {
		return Range{}, false
	}
	end, ok := ParseAddress(right)
	if !ok {
		return Range{}, false
	}
	return Range{Start: start, End: end}.Normalize(), true
}

// parseWholeColumn recognizes "[$]COL:[$]COL" with no row digits, e.g. "A:A".
func parseWholeColumn(left, right string) (Range, bool) {
	lc, lAbs, ok := parseColOnly(left)
	if !ok {
		return Range{}, false
	}
	rc, rAbs, ok := parseColOnly(right)
	if !ok {
		return Range{}, false
	}
	return Range{
		Start: Address{Col: lc, Row: 1, ColAbsolute: lAbs, RowAbsolute: false},
		End:   Address{Col: rc, Row: MaxRows, ColAbsolute: rAbs, RowAbsolute: false},
	}.Normalize(), true
}

func parseColOnly(s string) (col int, abs bool, ok bool) {
	i := 0
	if i < len(s) && s[i] == '$' {
		abs = true
		i++
	}
	start := i
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == start || i != len(s) {
		return 0, false, false
	}
	col = LettersToCol(s[start:i])
	if col == 0 {
		return 0, false, false
	}
	return col, abs, true
}

// parseWholeRow recognizes "[$]ROW:[$]ROW" with no column letters, e.g. "1:1".
func parseWholeRow(left, right string) (Range, bool) {
	lr, lAbs, ok := parseRowOnly(left)
	if !ok {
		return Range{}, false
	}
	rr, rAbs, ok := parseRowOnly(right)
	if !ok {
		return Range{}, false
	}
	return Range{
		Start: Address{Col: 1, Row: lr, ColAbsolute: false, RowAbsolute: lAbs},
		End:   Address{Col: MaxCols, Row: rr, ColAbsolute: false, RowAbsolute: rAbs},
	}.Normalize(), true
}

func parseRowOnly(s string) (row int, abs bool, ok bool) {
	i := 0
	if i < len(s) && s[i] == '$' {
		abs = true
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start || i != len(s) {
		return 0, false, false
	}
	row, err := strconv.Atoi(s[start:i])
	if err != nil || row < 1 || row > MaxRows {
		return 0, false, false
	}
	return row, abs, true
}

// SplitSheetQualifier splits a reference of the form "[Sheet!]rest" into the
// (unquoted) sheet name and the remaining reference text. It understands
// single-quoted sheet names and 3D ranges ("Sheet1:Sheet3!A1"), returning the
// 3D end-sheet name separately.
func SplitSheetQualifier(s string) (sheet, sheetTo, rest string) {
	if s == "" {
		return "", "", s
	}
	if s[0] == '\'' {
		i := 1
		for i < len(s) {
			if s[i] == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i += 2
					continue
				}
				break
			}
			i++
		}
		if i < len(s) && s[i] == '\'' {
			end := i + 1
			name := UnquoteSheetName(s[:end])
			if end < len(s) && s[end] == '!' {
				return name, "", s[end+1:]
			}
			// not actually a worksheet qualifier
			return "", "", s
		}
		return "", "", s
	}
	bang := strings.IndexByte(s, '!')
	if bang < 0 {
		return "", "", s
	}
	head := s[:bang]
	rest = s[bang+1:]
	if colon := strings.IndexByte(head, ':'); colon >= 0 {
		return head[:colon], head[colon+1:], rest
	}
	return head, "", rest
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Shift offsets a by (deltaCol, deltaRow) for components not marked
// absolute. Absolute components are preserved unchanged. Returns
// overflow=true (and a zero Address) if the relative shift would move a
// relative component out of [1, Max*].
func Shift(a Address, deltaCol, deltaRow int) (Address, bool) {
	out := a
	if !a.ColAbsolute {
		newCol := a.Col + deltaCol
		if newCol < 1 || newCol > MaxCols {
			return Address{}, true
		}
		out.Col = newCol
	}
	if !a.RowAbsolute {
		newRow := a.Row + deltaRow
		if newRow < 1 || newRow > MaxRows {
			return Address{}, true
		}
		out.Row = newRow
	}
	return out, false
}

// ShiftRange shifts both corners of r by (deltaCol, deltaRow). Overflow in
// either corner is reported via the returned bool; callers typically replace
// the whole range reference with a #REF! literal in that case, per spec
// §4.3.
func ShiftRange(r Range, deltaCol, deltaRow int) (Range, bool) {
	start, overflow := Shift(r.Start, deltaCol, deltaRow)
	if overflow {
		return Range{}, true
	}
	end, overflow := Shift(r.End, deltaCol, deltaRow)
	if overflow {
		return Range{}, true
	}
	return Range{Start: start, End: end, Sheet: r.Sheet, SheetTo: r.SheetTo}, false
}
