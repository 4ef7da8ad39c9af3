package functions

import "github.com/xlcalc/xlcalc/workbook"

func init() {
	register("ISNUMBER", fnIsKind(workbook.ScalarNumber))
	register("ISTEXT", fnIsKind(workbook.ScalarString))
	register("ISLOGICAL", fnIsKind(workbook.ScalarBool))
	register("ISBLANK", fnIsBlank)
	register("ISERROR", fnIsError)
	register("ISNA", fnIsNA)
	register("ISEVEN", fnIsEven)
	register("ISODD", fnIsOdd)
	register("N", fnN)
	register("NA", func(*Context, []Value) workbook.Scalar { return errScalar(workbook.ErrNA) })
	register("TYPE", fnType)
	register("ERROR.TYPE", fnErrorType)
}

func fnIsKind(kind workbook.ScalarKind) Func {
	return func(_ *Context, args []Value) workbook.Scalar {
		if len(args) != 1 {
			return errScalar(workbook.ErrValue)
		}
		return workbook.Bool(args[0].First().Kind == kind)
	}
}

func fnIsBlank(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(args[0].First().Kind == workbook.ScalarEmpty)
}

func fnIsError(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(args[0].First().IsError())
}

func fnIsNA(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	return workbook.Bool(v.Kind == workbook.ScalarError && v.ErrCode == workbook.ErrNA)
}

func fnIsEven(_ *Context, args []Value) workbook.Scalar {
	n, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(int64(n)%2 == 0)
}

func fnIsOdd(_ *Context, args []Value) workbook.Scalar {
	n, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Bool(int64(n)%2 != 0)
}

func fnN(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if v.IsError() {
		return v
	}
	if n, ok := toNumber(v); ok {
		return workbook.Number(n)
	}
	return workbook.Number(0)
}

func fnType(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if args[0].IsGrid() {
		return workbook.Number(64)
	}
	switch v.Kind {
	case workbook.ScalarNumber:
		return workbook.Number(1)
	case workbook.ScalarString:
		return workbook.Number(2)
	case workbook.ScalarBool:
		return workbook.Number(4)
	case workbook.ScalarError:
		return workbook.Number(16)
	default:
		return workbook.Number(1)
	}
}

func fnErrorType(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	v := args[0].First()
	if !v.IsError() {
		return errScalar(workbook.ErrNA)
	}
	codes := map[string]float64{
		workbook.ErrNull: 1, workbook.ErrDiv0: 2, workbook.ErrValue: 3,
		workbook.ErrRef: 4, workbook.ErrName: 5, workbook.ErrNum: 6, workbook.ErrNA: 7,
	}
	if n, ok := codes[v.ErrCode]; ok {
		return workbook.Number(n)
	}
	return workbook.Number(8)
}
