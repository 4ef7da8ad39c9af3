package eval

import (
	"github.com/xlcalc/xlcalc/functions"
	"github.com/xlcalc/xlcalc/numfmt"
)

// init wires functions.TextRenderHook to the numfmt package's renderer, so
// TEXT() can format numbers, dates and passthrough text without functions
// importing numfmt directly (functions is the lower-level package; numfmt
// has no need to know about Values or Contexts).
func init() {
	functions.TextRenderHook = numfmt.Render
}
