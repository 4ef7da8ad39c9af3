package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftPreservesAbsoluteComponents(t *testing.T) {
	// spec scenario 8
	got := Shift("A1+$A$1+A$1+$A1", 2, 2)
	assert.Equal(t, "C3+$A$1+C$1+$A3", got)
}

func TestShiftRelativeReference(t *testing.T) {
	assert.Equal(t, "B2", Shift("A1", 1, 1))
}

func TestShiftNegativeDelta(t *testing.T) {
	assert.Equal(t, "A1", Shift("B2", -1, -1))
}

func TestShiftOverflowBecomesRefError(t *testing.T) {
	assert.Equal(t, "#REF!", Shift("A1", -1, 0))
}

func TestShiftLeavesSiblingReferencesIntact(t *testing.T) {
	got := Shift("A1+$B$2", -1, 0)
	assert.Equal(t, "#REF!+$B$2", got)
}

func TestShiftRangeReference(t *testing.T) {
	assert.Equal(t, "B2:C3", Shift("A1:B2", 1, 1))
}

func TestShiftThroughFunctionCall(t *testing.T) {
	assert.Equal(t, "SUM(B2:B11)", Shift("SUM(A1:A10)", 1, 1))
}

func TestShiftLeavesUnparseableInputUnchanged(t *testing.T) {
	assert.Equal(t, "A1:", Shift("A1:", 1, 1))
}

func TestShiftSheetQualifiedReferenceIsPreserved(t *testing.T) {
	assert.Equal(t, "Sheet2!B2", Shift("Sheet2!A1", 1, 1))
}
