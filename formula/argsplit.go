package formula

import "github.com/xuri/efp"

// EFPArgCount tokenizes a function-call formula (e.g. "SUM(A1,B1,IF(1,2,3))")
// with the excelize formula parser and counts the function's top-level
// arguments by counting TokenTypeArgument separators at function-call
// nesting depth 1. It exists to cross-check this package's hand-written
// recursive-descent parser against a second, independently-maintained
// tokenizer for exactly the case that tokenizer was built to get right:
// commas nested inside parentheses and function calls.
//
// Grounded on the efp.ExcelParser()/efp.Token usage observed in
// _examples/artukn-excelize/each.go and the OmniMCP-AI excelize fork's
// calc_subexpr.go, both of which call efp.ExcelParser().Parse(formula) and
// switch on token.TType/TSubType.
func EFPArgCount(formula string) (int, error) {
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	if tokens == nil {
		return 0, &ParseError{Msg: "efp: failed to parse: " + formula}
	}

	depth := 0
	argSeparators := 0
	sawAnyArgument := false
	for _, tok := range tokens {
		switch tok.TType {
		case efp.TokenTypeFunction:
			switch tok.TSubType {
			case efp.TokenSubTypeStart:
				depth++
			case efp.TokenSubTypeStop:
				depth--
			}
		case efp.TokenTypeSubexpression:
			switch tok.TSubType {
			case efp.TokenSubTypeStart:
				depth++
			case efp.TokenSubTypeStop:
				depth--
			}
		case efp.TokenTypeArgument:
			if depth == 1 {
				argSeparators++
			}
		}
		if depth >= 1 && tok.TType == efp.TokenTypeOperand {
			sawAnyArgument = true
		}
	}

	if argSeparators == 0 && !sawAnyArgument {
		return 0, nil
	}
	return argSeparators + 1, nil
}
