package functions

import (
	"strconv"
	"strings"

	"github.com/xlcalc/xlcalc/workbook"
)

func init() {
	register("CONCATENATE", fnConcatenate)
	register("CONCAT", fnConcatenate)
	register("LEN", fnLen)
	register("UPPER", fnTextMap(strings.ToUpper))
	register("LOWER", fnTextMap(strings.ToLower))
	register("TRIM", fnTrim)
	register("PROPER", fnProper)
	register("LEFT", fnLeft)
	register("RIGHT", fnRight)
	register("MID", fnMid)
	register("REPT", fnRept)
	register("EXACT", fnExact)
	register("FIND", fnFind)
	register("SEARCH", fnSearch)
	register("SUBSTITUTE", fnSubstitute)
	register("REPLACE", fnReplace)
	register("VALUE", fnValue)
	register("TEXT", fnText)
}

func fnConcatenate(_ *Context, args []Value) workbook.Scalar {
	var sb strings.Builder
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.IsError() {
				return c
			}
			sb.WriteString(toText(c))
		}
	}
	return workbook.Text(sb.String())
}

func fnLen(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	return workbook.Number(float64(len([]rune(toText(v)))))
}

func fnTextMap(f func(string) string) Func {
	return func(_ *Context, args []Value) workbook.Scalar {
		if len(args) != 1 {
			return errScalar(workbook.ErrValue)
		}
		v := args[0].First()
		if v.IsError() {
			return v
		}
		return workbook.Text(f(toText(v)))
	}
}

func fnTrim(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	fields := strings.Fields(toText(v))
	return workbook.Text(strings.Join(fields, " "))
}

func fnProper(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	return workbook.Text(strings.Title(strings.ToLower(toText(v))))
}

func fnLeft(_ *Context, args []Value) workbook.Scalar {
	s, n, ok := textAndCount(args, 1)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	return workbook.Text(string(r[:n]))
}

func fnRight(_ *Context, args []Value) workbook.Scalar {
	s, n, ok := textAndCount(args, 1)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	return workbook.Text(string(r[len(r)-n:]))
}

func textAndCount(args []Value, defaultCount int) (string, int, bool) {
	if len(args) < 1 || len(args) > 2 {
		return "", 0, false
	}
	v := args[0].First()
	if v.IsError() {
		return "", 0, false
	}
	n := defaultCount
	if len(args) == 2 {
		f, ok := toNumber(args[1].First())
		if !ok || f < 0 {
			return "", 0, false
		}
		n = int(f)
	}
	return toText(v), n, true
}

func fnMid(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 3 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	start, ok1 := toNumber(args[1].First())
	count, ok2 := toNumber(args[2].First())
	if !ok1 || !ok2 || start < 1 || count < 0 {
		return errScalar(workbook.ErrValue)
	}
	r := []rune(toText(v))
	from := int(start) - 1
	if from >= len(r) {
		return workbook.Text("")
	}
	to := from + int(count)
	if to > len(r) {
		to = len(r)
	}
	return workbook.Text(string(r[from:to]))
}

func fnRept(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	n, ok := toNumber(args[1].First())
	if v.IsError() || !ok || n < 0 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Text(strings.Repeat(toText(v), int(n)))
}

func fnExact(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(toText(args[0].First()) == toText(args[1].First()))
}

func fnFind(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	needle := toText(args[0].First())
	hay := toText(args[1].First())
	start := 1
	if len(args) == 3 {
		f, ok := toNumber(args[2].First())
		if !ok || f < 1 {
			return errScalar(workbook.ErrValue)
		}
		start = int(f)
	}
	r := []rune(hay)
	if start-1 > len(r) {
		return errScalar(workbook.ErrValue)
	}
	idx := strings.Index(string(r[start-1:]), needle)
	if idx < 0 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(start + len([]rune(string(r[start-1:])[:idx]))))
}

func fnSearch(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	needle := strings.ToUpper(toText(args[0].First()))
	hay := toText(args[1].First())
	start := 1
	if len(args) == 3 {
		f, ok := toNumber(args[2].First())
		if !ok || f < 1 {
			return errScalar(workbook.ErrValue)
		}
		start = int(f)
	}
	r := []rune(hay)
	if start-1 > len(r) {
		return errScalar(workbook.ErrValue)
	}
	sub := string(r[start-1:])
	idx := strings.Index(strings.ToUpper(sub), needle)
	if idx < 0 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(float64(start + len([]rune(sub[:idx]))))
}

func fnSubstitute(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 4 {
		return errScalar(workbook.ErrValue)
	}
	text := toText(args[0].First())
	old := toText(args[1].First())
	new := toText(args[2].First())
	if len(args) == 3 {
		return workbook.Text(strings.ReplaceAll(text, old, new))
	}
	nth, ok := toNumber(args[3].First())
	if !ok || nth < 1 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Text(replaceNth(text, old, new, int(nth)))
}

func replaceNth(text, old, new string, n int) string {
	if old == "" {
		return text
	}
	count := 0
	idx := 0
	for {
		i := strings.Index(text[idx:], old)
		if i < 0 {
			return text
		}
		count++
		pos := idx + i
		if count == n {
			return text[:pos] + new + text[pos+len(old):]
		}
		idx = pos + len(old)
	}
}

func fnReplace(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 4 {
		return errScalar(workbook.ErrValue)
	}
	text := []rune(toText(args[0].First()))
	start, ok1 := toNumber(args[1].First())
	length, ok2 := toNumber(args[2].First())
	newText := toText(args[3].First())
	if !ok1 || !ok2 || start < 1 || length < 0 {
		return errScalar(workbook.ErrValue)
	}
	from := int(start) - 1
	if from > len(text) {
		from = len(text)
	}
	to := from + int(length)
	if to > len(text) {
		to = len(text)
	}
	return workbook.Text(string(text[:from]) + newText + string(text[to:]))
}

func fnValue(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	if v.Kind == workbook.ScalarNumber {
		return v
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(toText(v)), 64)
	if err != nil {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(n)
}

// fnText renders a number according to a number-format code. The actual
// rendering is delegated to the numfmt package via a package-level hook set
// by the eval package at startup, avoiding a circular import (numfmt has no
// need to know about functions, but TEXT() needs numfmt).
var TextRenderHook func(value workbook.Scalar, formatCode string, date1904 bool) (string, bool)

func fnText(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	code := toText(args[1].First())
	if TextRenderHook == nil {
		return errScalar(workbook.ErrName)
	}
	date1904 := ctx != nil && ctx.Date1904
	rendered, ok := TextRenderHook(v, code, date1904)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Text(rendered)
}
