package functions

import (
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/xlcalc/xlcalc/workbook"
)

// criteriaPredicate reports whether a candidate scalar satisfies a COUNTIF/
// SUMIF/database-function criteria string such as ">10", "<=5", "apple",
// or "a*" (wildcard).
//
// Grounded on the pack's use of github.com/expr-lang/expr for
// template-style predicate evaluation; here a criteria string is compiled
// once into an expr.Program comparing a "value" env variable against the
// parsed operand, so repeated evaluation over a large range compiles the
// comparison exactly once instead of re-parsing the operator and operand on
// every cell.
type criteriaPredicate func(workbook.Scalar) bool

// criteriaProgramCache is a sync.Map, not a plain map, because multiple
// Evaluators may run concurrently over the same immutable Snapshot (spec
// §5) and would otherwise race on this package-global cache; grounded on
// _examples/javajack-xlfill/expr.go, which caches its compiled
// vm.Program values in a sync.Map for exactly this reason.
var criteriaProgramCache sync.Map // exprText string -> *vm.Program

func compileCriteriaProgram(exprText string) (*vm.Program, error) {
	if cached, ok := criteriaProgramCache.Load(exprText); ok {
		return cached.(*vm.Program), nil
	}
	prog, err := expr.Compile(exprText, expr.Env(map[string]any{"value": 0.0}))
	if err != nil {
		return nil, err
	}
	criteriaProgramCache.Store(exprText, prog)
	return prog, nil
}

func parseCriteria(raw workbook.Scalar) criteriaPredicate {
	if raw.Kind == workbook.ScalarNumber {
		want := raw.Num
		return func(v workbook.Scalar) bool {
			n, ok := toNumber(v)
			return ok && n == want
		}
	}

	text := strings.TrimSpace(toText(raw))
	op, operand := splitCriteriaOperator(text)

	if n, err := strconv.ParseFloat(operand, 64); err == nil && op != "" {
		exprText := "value " + op + " " + strconv.FormatFloat(n, 'g', -1, 64)
		prog, err := compileCriteriaProgram(exprText)
		if err == nil {
			return func(v workbook.Scalar) bool {
				num, ok := toNumber(v)
				if !ok {
					return false
				}
				out, err := expr.Run(prog, map[string]any{"value": num})
				if err != nil {
					return false
				}
				b, _ := out.(bool)
				return b
			}
		}
	}

	if op == "=" || op == "" {
		pattern := operand
		if op == "" {
			pattern = text
		}
		if strings.ContainsAny(pattern, "*?") {
			return wildcardPredicate(pattern)
		}
		return func(v workbook.Scalar) bool {
			return strings.EqualFold(toText(v), pattern)
		}
	}
	if op == "<>" {
		return func(v workbook.Scalar) bool {
			return !strings.EqualFold(toText(v), operand)
		}
	}

	// op is a numeric comparator but operand didn't parse as a number:
	// fall back to lexicographic text comparison, matching Excel's
	// behavior for criteria like ">apple".
	return func(v workbook.Scalar) bool {
		return compareText(op, toText(v), operand)
	}
}

func compareText(op, a, b string) bool {
	switch op {
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "<":
		return a < b
	case "<=":
		return a <= b
	default:
		return false
	}
}

func splitCriteriaOperator(s string) (op, rest string) {
	for _, candidate := range []string{">=", "<=", "<>", ">", "<", "="} {
		if strings.HasPrefix(s, candidate) {
			return candidate, strings.TrimSpace(s[len(candidate):])
		}
	}
	return "", s
}

// wildcardPredicate turns an Excel-style "*"/"?" pattern into a matcher:
// "*" matches any run of characters, "?" matches exactly one.
func wildcardPredicate(pattern string) criteriaPredicate {
	upper := strings.ToUpper(pattern)
	return func(v workbook.Scalar) bool {
		return wildcardMatch(strings.ToUpper(toText(v)), upper)
	}
}

func wildcardMatch(s, pattern string) bool {
	return wildcardMatchRunes([]rune(s), []rune(pattern))
}

func wildcardMatchRunes(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	switch p[0] {
	case '*':
		for i := 0; i <= len(s); i++ {
			if wildcardMatchRunes(s[i:], p[1:]) {
				return true
			}
		}
		return false
	case '?':
		if len(s) == 0 {
			return false
		}
		return wildcardMatchRunes(s[1:], p[1:])
	default:
		if len(s) == 0 || s[0] != p[0] {
			return false
		}
		return wildcardMatchRunes(s[1:], p[1:])
	}
}
