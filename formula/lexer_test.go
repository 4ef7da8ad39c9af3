package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []Token) []TokenType {
	types := make([]TokenType, 0, len(toks))
	for _, t := range toks {
		if t.Type == TokEOF {
			continue
		}
		types = append(types, t.Type)
	}
	return types
}

func TestLexerBasicOperators(t *testing.T) {
	lx := NewLexer("1+2*3^4-5/6&\"x\"=1<>2<3<=4>5>=6")
	toks, err := lx.Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		TokNumber, TokPlus, TokNumber, TokStar, TokNumber, TokCaret, TokNumber,
		TokMinus, TokNumber, TokSlash, TokNumber, TokAmp, TokString,
		TokEq, TokNumber, TokNe, TokNumber, TokLt, TokNumber, TokLe, TokNumber,
		TokGt, TokNumber, TokGe, TokNumber,
	}, tokenTypes(toks))
}

func TestLexerStringEscaping(t *testing.T) {
	lx := NewLexer(`"say ""hi"""`)
	toks, err := lx.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2) // string + EOF
	assert.Equal(t, `say "hi"`, toks[0].Text)
}

func TestLexerErrorLiterals(t *testing.T) {
	for _, code := range []string{"#DIV/0!", "#VALUE!", "#REF!", "#NAME?", "#NUM!", "#N/A", "#NULL!", "#GETTING_DATA"} {
		t.Run(code, func(t *testing.T) {
			lx := NewLexer(code)
			toks, err := lx.Tokenize()
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, TokErrorLiteral, toks[0].Type)
			assert.Equal(t, code, toks[0].Text)
		})
	}
}

func TestLexerCellAndRangeRefs(t *testing.T) {
	cases := []string{"A1", "$A$1", "A$1", "$A1", "Sheet2!A1", "'My Sheet'!A1", "A1:B2", "A:A", "1:1", "Sheet1:Sheet3!A1"}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			lx := NewLexer(c)
			toks, err := lx.Tokenize()
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, TokRef, toks[0].Type)
			assert.Equal(t, c, toks[0].Text)
		})
	}
}

func TestLexerWholeRowVsNumberDisambiguation(t *testing.T) {
	lx := NewLexer("1:1")
	toks, err := lx.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, TokRef, toks[0].Type)
	assert.Equal(t, "1:1", toks[0].Text)

	lx2 := NewLexer("1+1")
	toks2, err := lx2.Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{TokNumber, TokPlus, TokNumber}, tokenTypes(toks2))
}

func TestLexerIdentifiersAndBooleans(t *testing.T) {
	lx := NewLexer("TRUE FALSE SUM COUNTIF")
	toks, err := lx.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, TokBool, toks[0].Type)
	assert.Equal(t, TokBool, toks[1].Type)
	assert.Equal(t, TokIdent, toks[2].Type)
	assert.Equal(t, TokIdent, toks[3].Type)
}

func TestLexerScientificNotation(t *testing.T) {
	lx := NewLexer("1.5E+10")
	toks, err := lx.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, TokNumber, toks[0].Type)
	assert.Equal(t, "1.5E+10", toks[0].Text)
}

func TestLexerStructuredTableReference(t *testing.T) {
	cases := []string{"Table1[Column1]", "Table1[[#This Row],[Column1]]", "[#This Row]", "Sales[#Totals]"}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			lx := NewLexer(c)
			toks, err := lx.Tokenize()
			require.NoError(t, err)
			require.Len(t, toks, 2) // whole reference + EOF
			assert.Equal(t, TokIdent, toks[0].Type)
			assert.Equal(t, c, toks[0].Text)
		})
	}
}

func TestLexerUnterminatedStructuredReferenceErrors(t *testing.T) {
	lx := NewLexer("Table1[Column1")
	_, err := lx.Tokenize()
	require.Error(t, err)
}
