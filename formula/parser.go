package formula

import (
	"strconv"
	"strings"

	"github.com/xlcalc/xlcalc/address"
)

// Parser builds an AST from a token stream. Its precedence ladder mirrors
// the teacher's parseComparison -> parseConcatenation -> parseAddition ->
// parseMultiplication -> parsePower -> parseUnary -> parsePostfix ->
// parsePrimary chain in parser.go, generalized from worksheet-ID-relative
// cell nodes to absolute address.Address values per spec §4.2.
type Parser struct {
	toks []Token
	pos  int
}

// Parse tokenizes and parses a formula expression (without the leading
// '='), returning the root AST node.
func Parse(expr string) (Node, error) {
	lx := NewLexer(expr)
	toks, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokEOF {
		return nil, &ParseError{Msg: "unexpected trailing input: " + p.current().Text, Pos: p.current().Pos}
	}
	return node, nil
}

func (p *Parser) current() Token { return p.toks[p.pos] }
func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt TokenType, msg string) (Token, error) {
	if p.current().Type != tt {
		return Token{}, &ParseError{Msg: msg, Pos: p.current().Pos}
	}
	return p.advance(), nil
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	for {
		var op CompareOp
		switch p.current().Type {
		case TokEq:
			op = CmpEq
		case TokNe:
			op = CmpNe
		case TokLt:
			op = CmpLt
		case TokLe:
			op = CmpLe
		case TokGt:
			op = CmpGt
		case TokGe:
			op = CmpGe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		left = Compare{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseConcatenation() (Node, error) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokAmp {
		p.advance()
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		left = Concat{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAddition() (Node, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokPlus || p.current().Type == TokMinus {
		op := OpAdd
		if p.current().Type == TokMinus {
			op = OpSub
		}
		p.advance()
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplication() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokStar || p.current().Type == TokSlash {
		op := OpMul
		if p.current().Type == TokSlash {
			op = OpDiv
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePower() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokCaret {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpPow, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.current().Type == TokPlus || p.current().Type == TokMinus {
		op := UnaryPlus
		if p.current().Type == TokMinus {
			op = UnaryMinus
		}
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: op, Child: child}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokPercent {
		p.advance()
		node = Unary{Op: UnaryPercent, Child: node}
	}
	return node, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokNumber:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &ParseError{Msg: "invalid number: " + tok.Text, Pos: tok.Pos}
		}
		return Literal{Kind: LitNumber, Num: v}, nil
	case TokString:
		p.advance()
		return Literal{Kind: LitString, Str: tok.Text}, nil
	case TokBool:
		p.advance()
		return Literal{Kind: LitBool, Bool: tok.Text == "TRUE"}, nil
	case TokErrorLiteral:
		p.advance()
		return Literal{Kind: LitError, ErrCode: tok.Text}, nil
	case TokRef:
		p.advance()
		return parseRefToken(tok.Text)
	case TokLParen:
		p.advance()
		inner, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "expected closing parenthesis"); err != nil {
			return nil, err
		}
		return inner, nil
	case TokLBrace:
		return p.parseArrayLiteral()
	case TokIdent:
		return p.parseIdentOrCall(tok)
	}
	return nil, &ParseError{Msg: "unexpected token: " + tok.Text, Pos: tok.Pos}
}

func (p *Parser) parseIdentOrCall(tok Token) (Node, error) {
	p.advance()
	name := stripXlfnPrefix(tok.Text)
	if p.current().Type == TokLParen {
		p.advance()
		var args []Node
		if p.current().Type != TokRParen {
			for {
				arg, err := p.parseComparison()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.current().Type == TokComma {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(TokRParen, "expected closing parenthesis in function call"); err != nil {
			return nil, err
		}
		return Call{Name: strings.ToUpper(name), Args: args}, nil
	}
	return NameRef{Name: name}, nil
}

// stripXlfnPrefix removes the vendor "_xlfn." marker OOXML writes in front
// of functions newer than Excel 2007, per spec §4.2.
func stripXlfnPrefix(name string) string {
	const prefix = "_xlfn."
	if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		return name[len(prefix):]
	}
	return name
}

func (p *Parser) parseArrayLiteral() (Node, error) {
	start := p.current().Pos
	p.advance() // consume '{'
	var rows [][]Literal
	row, err := p.parseArrayRow()
	if err != nil {
		return nil, err
	}
	rows = append(rows, row)
	for p.current().Type == TokSemicolon {
		p.advance()
		row, err := p.parseArrayRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if _, err := p.expect(TokRBrace, "expected closing brace in array literal"); err != nil {
		return nil, err
	}
	_ = start
	return Array{Rows: rows}, nil
}

func (p *Parser) parseArrayRow() ([]Literal, error) {
	var row []Literal
	for {
		lit, err := p.parseArrayScalar()
		if err != nil {
			return nil, err
		}
		row = append(row, lit)
		if p.current().Type == TokComma {
			p.advance()
			continue
		}
		break
	}
	return row, nil
}

func (p *Parser) parseArrayScalar() (Literal, error) {
	tok := p.current()
	switch tok.Type {
	case TokNumber:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return Literal{}, &ParseError{Msg: "invalid number in array literal: " + tok.Text, Pos: tok.Pos}
		}
		return Literal{Kind: LitNumber, Num: v}, nil
	case TokString:
		p.advance()
		return Literal{Kind: LitString, Str: tok.Text}, nil
	case TokBool:
		p.advance()
		return Literal{Kind: LitBool, Bool: tok.Text == "TRUE"}, nil
	case TokErrorLiteral:
		p.advance()
		return Literal{Kind: LitError, ErrCode: tok.Text}, nil
	case TokMinus:
		p.advance()
		lit, err := p.parseArrayScalar()
		if err != nil {
			return Literal{}, err
		}
		if lit.Kind == LitNumber {
			lit.Num = -lit.Num
		}
		return lit, nil
	}
	return Literal{}, &ParseError{Msg: "unexpected token in array literal: " + tok.Text, Pos: tok.Pos}
}

// parseRefToken converts a lexed TokRef's raw text into a Reference or
// RangeRef node by delegating sheet-qualifier splitting and address/range
// parsing to the address package, keeping one implementation of the A1
// grammar shared between this parser and the shifter.
func parseRefToken(text string) (Node, error) {
	sheet, sheetTo, rest := address.SplitSheetQualifier(text)

	if strings.ContainsRune(rest, ':') {
		rng, ok := address.ParseRange(rest)
		if !ok {
			return nil, &ParseError{Msg: "invalid range reference: " + text}
		}
		return RangeRef{Sheet: sheet, SheetTo: sheetTo, Rng: rng}, nil
	}

	addr, ok := address.ParseAddress(rest)
	if !ok {
		return nil, &ParseError{Msg: "invalid cell reference: " + text}
	}
	return Reference{Sheet: sheet, SheetTo: sheetTo, Addr: addr}, nil
}
