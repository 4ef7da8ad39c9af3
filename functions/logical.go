package functions

import "github.com/xlcalc/xlcalc/workbook"

func init() {
	register("IF", fnIf)
	register("IFS", fnIfs)
	register("AND", fnAnd)
	register("OR", fnOr)
	register("NOT", fnNot)
	register("XOR", fnXor)
	register("IFERROR", fnIferror)
	register("IFNA", fnIfna)
	register("SWITCH", fnSwitch)
	register("TRUE", func(*Context, []Value) workbook.Scalar { return workbook.Bool(true) })
	register("FALSE", func(*Context, []Value) workbook.Scalar { return workbook.Bool(false) })
}

func fnIf(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	cond := args[0].First()
	if cond.IsError() {
		return cond
	}
	b, ok := toBool(cond)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	if b {
		return args[1].First()
	}
	if len(args) == 3 {
		return args[2].First()
	}
	return workbook.Bool(false)
}

func fnIfs(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args)%2 != 0 {
		return errScalar(workbook.ErrValue)
	}
	for i := 0; i+1 < len(args); i += 2 {
		cond := args[i].First()
		if cond.IsError() {
			return cond
		}
		b, ok := toBool(cond)
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		if b {
			return args[i+1].First()
		}
	}
	return errScalar(workbook.ErrNA)
}

func fnAnd(_ *Context, args []Value) workbook.Scalar {
	result := true
	sawAny := false
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.IsError() {
				return c
			}
			if c.Kind == workbook.ScalarEmpty {
				continue
			}
			b, ok := toBool(c)
			if !ok {
				return errScalar(workbook.ErrValue)
			}
			sawAny = true
			result = result && b
		}
	}
	if !sawAny {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(result)
}

func fnOr(_ *Context, args []Value) workbook.Scalar {
	result := false
	sawAny := false
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.IsError() {
				return c
			}
			if c.Kind == workbook.ScalarEmpty {
				continue
			}
			b, ok := toBool(c)
			if !ok {
				return errScalar(workbook.ErrValue)
			}
			sawAny = true
			result = result || b
		}
	}
	if !sawAny {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(result)
}

func fnNot(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	b, ok := toBool(v)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(!b)
}

func fnXor(_ *Context, args []Value) workbook.Scalar {
	result := false
	sawAny := false
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.IsError() {
				return c
			}
			if c.Kind == workbook.ScalarEmpty {
				continue
			}
			b, ok := toBool(c)
			if !ok {
				return errScalar(workbook.ErrValue)
			}
			sawAny = true
			if b {
				result = !result
			}
		}
	}
	if !sawAny {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(result)
}

func fnIferror(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return args[1].First()
	}
	return v
}

func fnIfna(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.Kind == workbook.ScalarError && v.ErrCode == workbook.ErrNA {
		return args[1].First()
	}
	return v
}

func fnSwitch(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 {
		return errScalar(workbook.ErrValue)
	}
	target := args[0].First()
	if target.IsError() {
		return target
	}
	i := 1
	for ; i+1 < len(args); i += 2 {
		candidate := args[i].First()
		if scalarEquals(target, candidate) {
			return args[i+1].First()
		}
	}
	if i < len(args) {
		return args[i].First() // trailing default
	}
	return errScalar(workbook.ErrNA)
}

func scalarEquals(a, b workbook.Scalar) bool {
	if a.Kind != b.Kind {
		an, aok := toNumber(a)
		bn, bok := toNumber(b)
		if aok && bok {
			return an == bn
		}
		return false
	}
	switch a.Kind {
	case workbook.ScalarNumber:
		return a.Num == b.Num
	case workbook.ScalarString:
		return a.Str == b.Str
	case workbook.ScalarBool:
		return a.Bool == b.Bool
	case workbook.ScalarError:
		return a.ErrCode == b.ErrCode
	default:
		return true
	}
}
