package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserValidFormulas(t *testing.T) {
	valid := []string{
		"1+2",
		"A1",
		"SUM(A1:A10)",
		"Sheet2!A1",
		"Sheet2!A1:B2",
		"SUM(Sheet2!A1:A10)",
		"Sheet2!A1+Sheet3!B1",
		"SUM(B2:A1)",
		"SUM(A1:A1)",
		"SUM(A1:Z1000)",
		`"Hello world"`,
		`CONCATENATE("Hello ", "world")`,
		"1=1",
		"1<>2",
		"A1<=B1",
		"-A1",
		"+A1",
		"A1%",
		"2^10",
		"{1,2;3,4}",
		"{-1,2}",
		"IF(A1>0,1,-1)",
		"_xlfn.XLOOKUP(A1,B1:B10,C1:C10)",
		"$A$1",
		"A:A",
		"1:1",
		"'My Sheet'!A1",
		"Sheet1:Sheet3!A1",
	}
	for _, f := range valid {
		t.Run(f, func(t *testing.T) {
			node, err := Parse(f)
			require.NoError(t, err)
			assert.NotNil(t, node)
		})
	}
}

func TestParserInvalidFormulas(t *testing.T) {
	invalid := []string{
		"",
		"SUM(",
		"A1:",
		`"hello`,
		"1 2",
		"(1+2",
	}
	for _, f := range invalid {
		t.Run(f, func(t *testing.T) {
			_, err := Parse(f)
			assert.Error(t, err)
		})
	}
}

func TestParserPrecedence(t *testing.T) {
	node, err := Parse("1+2*3")
	require.NoError(t, err)
	bin, ok := node.(Binary)
	require.True(t, ok)
	assert.Equal(t, OpAdd, bin.Op)
	rightBin, ok := bin.Right.(Binary)
	require.True(t, ok)
	assert.Equal(t, OpMul, rightBin.Op)
}

func TestParserCallArgs(t *testing.T) {
	node, err := Parse("SUM(A1,B1,IF(1,2,3))")
	require.NoError(t, err)
	call, ok := node.(Call)
	require.True(t, ok)
	assert.Equal(t, "SUM", call.Name)
	assert.Len(t, call.Args, 3)
}

func TestParserStripsXlfnPrefix(t *testing.T) {
	node, err := Parse("_xlfn.XLOOKUP(A1,B1:B10,C1:C10)")
	require.NoError(t, err)
	call, ok := node.(Call)
	require.True(t, ok)
	assert.Equal(t, "XLOOKUP", call.Name)
}

func TestParserRoundTripsToString(t *testing.T) {
	cases := []string{"A1+B1", "SUM(A1:A10)", "A1&B1", "-A1", "A1%", "2^3^4"}
	for _, f := range cases {
		t.Run(f, func(t *testing.T) {
			node, err := Parse(f)
			require.NoError(t, err)
			reparsed, err := Parse(node.String())
			require.NoError(t, err)
			assert.Equal(t, node.String(), reparsed.String())
		})
	}
}

// TestParserAgreesWithEFPArgCount cross-checks this package's own
// argument-splitting (inside Call) against the independently maintained efp
// tokenizer for a battery of nested function calls.
func TestParserAgreesWithEFPArgCount(t *testing.T) {
	cases := []string{
		"SUM(A1,B1,C1)",
		"SUM(A1,IF(B1>0,1,2),C1)",
		"IF(1,2,3)",
		"CONCATENATE(\"a,b\",\"c\")",
	}
	for _, f := range cases {
		t.Run(f, func(t *testing.T) {
			node, err := Parse(f)
			require.NoError(t, err)
			call, ok := node.(Call)
			require.True(t, ok)

			n, err := EFPArgCount(f)
			require.NoError(t, err)
			assert.Equal(t, n, len(call.Args))
		})
	}
}
