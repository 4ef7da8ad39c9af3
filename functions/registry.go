package functions

import (
	"strings"
	"time"

	"github.com/xlcalc/xlcalc/workbook"
)

// Clock supplies the current time to NOW/TODAY, substitutable in tests.
// Grounded on the teacher's Clock/WallClock pair in builtin.go.
type Clock interface {
	Now() time.Time
}

// WallClock is the default Clock using system time.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

// RNG supplies random floats to RAND/RANDBETWEEN, substitutable in tests.
type RNG interface {
	Float64() float64
}

// Context carries the ambient state a handful of functions need beyond
// their arguments: wall-clock time, randomness, and the workbook's date
// system (for serial-number conversions in DATE/TODAY/NOW).
type Context struct {
	Clock    Clock
	RNG      RNG
	Date1904 bool
}

// Func is the signature every registered spreadsheet function implements.
// Errors are returned as workbook.Scalar error values, never as a Go error.
type Func func(ctx *Context, args []Value) workbook.Scalar

var registry = map[string]Func{}

func register(name string, fn Func) {
	registry[strings.ToUpper(name)] = fn
}

// Lookup returns the function registered under name (case-insensitive), or
// (nil, false) if no such function exists.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[strings.ToUpper(name)]
	return fn, ok
}

// Names returns every registered function name, for diagnostics/testing.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func errScalar(code string) workbook.Scalar { return workbook.Error(code) }

func argErr(args []Value) (workbook.Scalar, bool) {
	return firstError(args...)
}
