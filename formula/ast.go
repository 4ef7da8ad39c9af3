// Package formula tokenizes and parses spreadsheet formula text into an AST,
// and offers a reference shifter that walks the AST to re-derive a formula
// for a new cell position (copy/paste, shared-formula expansion).
//
// Grounded on the teacher's lexer.go/parser.go token-state machine and
// precedence ladder, reshaped into a tagged-union AST with no attached Eval
// method: per the spec's own design notes, "Prefer exhaustive pattern
// matching for AST variants" and "there is no virtual method graph" — the
// eval package interprets nodes with a type switch instead of the teacher's
// per-node Eval(*Spreadsheet) method.
package formula

import (
	"strconv"
	"strings"

	"github.com/xlcalc/xlcalc/address"
)

// BinaryOp enumerates the arithmetic binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var binaryOpText = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^",
}

// CompareOp enumerates the six comparison operators.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

var compareOpText = map[CompareOp]string{
	CmpEq: "=", CmpNe: "<>", CmpLt: "<", CmpLe: "<=", CmpGt: ">", CmpGe: ">=",
}

// UnaryOp enumerates the prefix/postfix unary operators.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryPercent // postfix
)

// LiteralKind tags the dynamic type carried by a Literal node.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitError
)

// Node is the AST tagged union. Every concrete node type below implements
// it. Consumers type-switch on the concrete type rather than calling a
// virtual method, per spec design notes.
type Node interface {
	// String renders the node back to formula text (without a leading '=').
	String() string
}

// Literal is a constant number, string, boolean, or error-code token.
type Literal struct {
	Kind    LiteralKind
	Num     float64
	Str     string
	Bool    bool
	ErrCode string
}

func (n Literal) String() string {
	switch n.Kind {
	case LitNumber:
		return formatNumberLiteral(n.Num)
	case LitString:
		return `"` + strings.ReplaceAll(n.Str, `"`, `""`) + `"`
	case LitBool:
		if n.Bool {
			return "TRUE"
		}
		return "FALSE"
	case LitError:
		return n.ErrCode
	default:
		return ""
	}
}

func formatNumberLiteral(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Reference is a single-cell reference, optionally sheet-qualified.
type Reference struct {
	Sheet   string // empty = same sheet as evaluation origin
	SheetTo string // non-empty for "Sheet1:Sheet3!A1" 3D references
	Addr    address.Address
}

func (n Reference) String() string {
	if n.Sheet != "" && n.SheetTo != "" {
		return address.QuoteSheetName(n.Sheet) + ":" + address.QuoteSheetName(n.SheetTo) + "!" + n.Addr.Format()
	}
	return address.FormatQualified(n.qualifiedSheet(), n.Addr)
}

func (n Reference) qualifiedSheet() string {
	if n.Sheet == "" {
		return ""
	}
	if n.SheetTo != "" {
		return n.Sheet + ":" + n.SheetTo
	}
	return n.Sheet
}

// RangeRef is a multi-cell reference, optionally sheet-qualified (including
// 3D ranges spanning multiple sheets).
type RangeRef struct {
	Sheet   string
	SheetTo string
	Rng     address.Range
}

func (n RangeRef) String() string {
	r := n.Rng
	r.Sheet = n.qualifiedSheetStart()
	r.SheetTo = n.SheetTo
	return address.FormatRange(r)
}

func (n RangeRef) qualifiedSheetStart() string {
	return n.Sheet
}

// NameRef is an identifier that is neither a cell nor range literal: a
// defined name or a structured table reference (e.g. "Table1[Column]").
type NameRef struct {
	Name string
}

func (n NameRef) String() string { return n.Name }

// Array is a 2D array literal, e.g. "{1,2;3,4}". The parser does not check
// that rows have equal length, so "{1,2;3}" yields ragged rows.
type Array struct {
	Rows [][]Literal
}

func (n Array) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for r, row := range n.Rows {
		if r > 0 {
			sb.WriteByte(';')
		}
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(v.String())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// Unary is a prefix (+/-) or postfix (%) unary operation.
type Unary struct {
	Op    UnaryOp
	Child Node
}

func (n Unary) String() string {
	inner := parenthesizeIfNeeded(n.Child, precedenceUnary)
	switch n.Op {
	case UnaryPlus:
		return "+" + inner
	case UnaryMinus:
		return "-" + inner
	case UnaryPercent:
		return inner + "%"
	default:
		return inner
	}
}

// Binary is an arithmetic binary expression.
type Binary struct {
	Op          BinaryOp
	Left, Right Node
}

func (n Binary) String() string {
	prec := precedenceOf(n)
	left := parenthesizeIfNeeded(n.Left, prec)
	right := parenthesizeIfNeeded(n.Right, prec+1) // right side strictly higher to keep left-assoc printing stable
	return left + binaryOpText[n.Op] + right
}

// Compare is a comparison expression (=, <>, <, <=, >, >=).
type Compare struct {
	Op          CompareOp
	Left, Right Node
}

func (n Compare) String() string {
	prec := precedenceCompare
	left := parenthesizeIfNeeded(n.Left, prec)
	right := parenthesizeIfNeeded(n.Right, prec+1)
	return left + compareOpText[n.Op] + right
}

// Concat is the "&" string concatenation operator.
type Concat struct {
	Left, Right Node
}

func (n Concat) String() string {
	left := parenthesizeIfNeeded(n.Left, precedenceConcat)
	right := parenthesizeIfNeeded(n.Right, precedenceConcat+1)
	return left + "&" + right
}

// Call is a named function invocation.
type Call struct {
	Name string
	Args []Node
}

func (n Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ",") + ")"
}

// precedence levels, low to high, used only for minimal reparenthesization
// when printing a shifted/rewritten AST back to text.
const (
	precedenceCompare = iota
	precedenceConcat
	precedenceAdd
	precedenceMul
	precedencePow
	precedenceUnary
	precedenceAtom
)

func precedenceOf(n Binary) int {
	switch n.Op {
	case OpAdd, OpSub:
		return precedenceAdd
	case OpMul, OpDiv:
		return precedenceMul
	case OpPow:
		return precedencePow
	default:
		return precedenceAtom
	}
}

func nodePrecedence(n Node) int {
	switch v := n.(type) {
	case Binary:
		return precedenceOf(v)
	case Compare:
		return precedenceCompare
	case Concat:
		return precedenceConcat
	case Unary:
		if v.Op == UnaryPercent {
			return precedenceAtom
		}
		return precedenceUnary
	default:
		return precedenceAtom
	}
}

func parenthesizeIfNeeded(n Node, minPrec int) string {
	s := n.String()
	if nodePrecedence(n) < minPrec {
		return "(" + s + ")"
	}
	return s
}

