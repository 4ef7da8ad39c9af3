package functions

import (
	"math"

	"github.com/xlcalc/xlcalc/workbook"
)

func init() {
	register("SUM", fnSum)
	register("PRODUCT", fnProduct)
	register("AVERAGE", fnAverage)
	register("COUNT", fnCount)
	register("COUNTA", fnCounta)
	register("COUNTBLANK", fnCountBlank)
	register("MAX", fnMax)
	register("MIN", fnMin)
	register("ABS", fn1(math.Abs))
	register("SQRT", fnSqrt)
	register("POWER", fnPower)
	register("MOD", fnMod)
	register("PI", func(*Context, []Value) workbook.Scalar { return workbook.Number(math.Pi) })
	register("INT", fnInt)
	register("TRUNC", fnTrunc)
	register("SIGN", fn1(func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return 0
		}
	}))
	register("EXP", fn1(math.Exp))
	register("LN", fnLn)
	register("LOG10", fnLog10)
	register("LOG", fnLog)
	register("ROUND", fnRound)
	register("ROUNDUP", fnRoundUp)
	register("ROUNDDOWN", fnRoundDown)
	register("FLOOR", fnFloor)
	register("CEILING", fnCeiling)
	register("SUMIF", fnSumif)
	register("SUMIFS", fnSumifs)
	register("AVERAGEIF", fnAverageif)
	register("AVERAGEIFS", fnAverageifs)
	register("COUNTIF", fnCountif)
	register("COUNTIFS", fnCountifs)
	register("SUMPRODUCT", fnSumproduct)
	register("SUBTOTAL", fnSubtotal)
	register("RAND", fnRand)
	register("RANDBETWEEN", fnRandBetween)
}

func rngOf(ctx *Context) RNG {
	if ctx != nil && ctx.RNG != nil {
		return ctx.RNG
	}
	return nil
}

func fnRand(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 0 {
		return errScalar(workbook.ErrValue)
	}
	rng := rngOf(ctx)
	if rng == nil {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(rng.Float64())
}

func fnRandBetween(ctx *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	lo, ok1 := toNumber(args[0].First())
	hi, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 || lo > hi {
		return errScalar(workbook.ErrNum)
	}
	rng := rngOf(ctx)
	if rng == nil {
		return errScalar(workbook.ErrValue)
	}
	span := math.Floor(hi) - math.Ceil(lo) + 1
	return workbook.Number(math.Ceil(lo) + math.Floor(rng.Float64()*span))
}

// fn1 lifts a pure float64->float64 function into a one-argument Func.
func fn1(f func(float64) float64) Func {
	return func(_ *Context, args []Value) workbook.Scalar {
		if len(args) != 1 {
			return errScalar(workbook.ErrValue)
		}
		if e, ok := argErr(args); ok {
			return e
		}
		n, ok := toNumber(args[0].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		return workbook.Number(f(n))
	}
}

func numericArgs(args []Value) ([]float64, workbook.Scalar, bool) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		if !a.IsGrid() {
			if a.Scalar.IsError() {
				return nil, a.Scalar, false
			}
			n, ok := toNumber(a.Scalar)
			if !ok {
				return nil, errScalar(workbook.ErrValue), false
			}
			out = append(out, n)
			continue
		}
		for _, c := range a.Flatten() {
			if c.IsError() {
				return nil, c, false
			}
			if n, ok := toNumber(c); ok && c.Kind == workbook.ScalarNumber {
				out = append(out, n)
			}
		}
	}
	return out, workbook.Scalar{}, true
}

func fnSum(_ *Context, args []Value) workbook.Scalar {
	nums, errVal, ok := numericArgs(args)
	if !ok {
		return errVal
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return workbook.Number(sum)
}

func fnProduct(_ *Context, args []Value) workbook.Scalar {
	nums, errVal, ok := numericArgs(args)
	if !ok {
		return errVal
	}
	if len(nums) == 0 {
		return workbook.Number(0)
	}
	p := 1.0
	for _, n := range nums {
		p *= n
	}
	return workbook.Number(p)
}

func fnAverage(_ *Context, args []Value) workbook.Scalar {
	nums, errVal, ok := numericArgs(args)
	if !ok {
		return errVal
	}
	if len(nums) == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return workbook.Number(sum / float64(len(nums)))
}

func fnCount(_ *Context, args []Value) workbook.Scalar {
	if e, ok := argErr(args); ok {
		return e
	}
	count := 0
	for _, a := range args {
		if !a.IsGrid() {
			if a.Scalar.Kind == workbook.ScalarNumber {
				count++
			}
			continue
		}
		for _, c := range a.Flatten() {
			if c.Kind == workbook.ScalarNumber {
				count++
			}
		}
	}
	return workbook.Number(float64(count))
}

func fnCounta(_ *Context, args []Value) workbook.Scalar {
	if e, ok := argErr(args); ok {
		return e
	}
	count := 0
	for _, a := range args {
		if !a.IsGrid() {
			count++
			continue
		}
		for _, c := range a.Flatten() {
			if c.Kind != workbook.ScalarEmpty {
				count++
			}
		}
	}
	return workbook.Number(float64(count))
}

func fnCountBlank(_ *Context, args []Value) workbook.Scalar {
	count := 0
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.Kind == workbook.ScalarEmpty || (c.Kind == workbook.ScalarString && c.Str == "") {
				count++
			}
		}
	}
	return workbook.Number(float64(count))
}

func fnMax(_ *Context, args []Value) workbook.Scalar {
	nums, errVal, ok := numericArgs(args)
	if !ok {
		return errVal
	}
	m := math.Inf(-1)
	for _, n := range nums {
		if n > m {
			m = n
		}
	}
	if math.IsInf(m, -1) {
		return workbook.Number(0)
	}
	return workbook.Number(m)
}

func fnMin(_ *Context, args []Value) workbook.Scalar {
	nums, errVal, ok := numericArgs(args)
	if !ok {
		return errVal
	}
	m := math.Inf(1)
	for _, n := range nums {
		if n < m {
			m = n
		}
	}
	if math.IsInf(m, 1) {
		return workbook.Number(0)
	}
	return workbook.Number(m)
}

func fnSqrt(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	if e, ok := argErr(args); ok {
		return e
	}
	n, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	if n < 0 {
		return errScalar(workbook.ErrNum)
	}
	return workbook.Number(math.Sqrt(n))
}

func fnPower(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	if e, ok := argErr(args); ok {
		return e
	}
	base, ok1 := toNumber(args[0].First())
	exp, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(math.Pow(base, exp))
}

func fnMod(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	if e, ok := argErr(args); ok {
		return e
	}
	n, ok1 := toNumber(args[0].First())
	d, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	if d == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	m := math.Mod(n, d)
	if m != 0 && (m < 0) != (d < 0) {
		m += d
	}
	return workbook.Number(m)
}

func fnInt(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	n, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(math.Floor(n))
}

func fnTrunc(_ *Context, args []Value) workbook.Scalar {
	n, digits, ok := oneOrTwoArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	scale := math.Pow(10, digits)
	if n < 0 {
		return workbook.Number(math.Ceil(n*scale) / scale)
	}
	return workbook.Number(math.Floor(n*scale) / scale)
}

func fnLn(_ *Context, args []Value) workbook.Scalar {
	n, ok := toNumber(args[0].First())
	if !ok || n <= 0 {
		return errScalar(workbook.ErrNum)
	}
	return workbook.Number(math.Log(n))
}

func fnLog10(_ *Context, args []Value) workbook.Scalar {
	n, ok := toNumber(args[0].First())
	if !ok || n <= 0 {
		return errScalar(workbook.ErrNum)
	}
	return workbook.Number(math.Log10(n))
}

func fnLog(_ *Context, args []Value) workbook.Scalar {
	if len(args) == 0 {
		return errScalar(workbook.ErrValue)
	}
	n, ok := toNumber(args[0].First())
	if !ok || n <= 0 {
		return errScalar(workbook.ErrNum)
	}
	base := 10.0
	if len(args) > 1 {
		b, ok := toNumber(args[1].First())
		if !ok || b <= 0 || b == 1 {
			return errScalar(workbook.ErrNum)
		}
		base = b
	}
	return workbook.Number(math.Log(n) / math.Log(base))
}

func oneOrTwoArgs(args []Value) (n, digits float64, ok bool) {
	if len(args) == 0 || len(args) > 2 {
		return 0, 0, false
	}
	n, ok1 := toNumber(args[0].First())
	if !ok1 {
		return 0, 0, false
	}
	if len(args) == 2 {
		d, ok2 := toNumber(args[1].First())
		if !ok2 {
			return 0, 0, false
		}
		digits = d
	}
	return n, digits, true
}

func fnRound(_ *Context, args []Value) workbook.Scalar {
	n, digits, ok := oneOrTwoArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	scale := math.Pow(10, digits)
	v := n * scale
	if v >= 0 {
		v = math.Floor(v + 0.5)
	} else {
		v = math.Ceil(v - 0.5)
	}
	return workbook.Number(v / scale)
}

func fnRoundUp(_ *Context, args []Value) workbook.Scalar {
	n, digits, ok := oneOrTwoArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	scale := math.Pow(10, digits)
	if n >= 0 {
		return workbook.Number(math.Ceil(n*scale) / scale)
	}
	return workbook.Number(math.Floor(n*scale) / scale)
}

func fnRoundDown(_ *Context, args []Value) workbook.Scalar {
	n, digits, ok := oneOrTwoArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	scale := math.Pow(10, digits)
	if n >= 0 {
		return workbook.Number(math.Floor(n*scale) / scale)
	}
	return workbook.Number(math.Ceil(n*scale) / scale)
}

func fnFloor(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	n, ok1 := toNumber(args[0].First())
	sig, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	if sig == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	return workbook.Number(math.Floor(n/sig) * sig)
}

func fnCeiling(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	n, ok1 := toNumber(args[0].First())
	sig, ok2 := toNumber(args[1].First())
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	if sig == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	return workbook.Number(math.Ceil(n/sig) * sig)
}

func fnSumproduct(_ *Context, args []Value) workbook.Scalar {
	if len(args) == 0 {
		return errScalar(workbook.ErrValue)
	}
	flats := make([][]workbook.Scalar, len(args))
	n := -1
	for i, a := range args {
		flats[i] = a.Flatten()
		if n == -1 {
			n = len(flats[i])
		} else if len(flats[i]) != n {
			return errScalar(workbook.ErrValue)
		}
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		product := 1.0
		for _, flat := range flats {
			v, ok := toNumber(flat[i])
			if !ok {
				return errScalar(workbook.ErrValue)
			}
			product *= v
		}
		sum += product
	}
	return workbook.Number(sum)
}

// fnSubtotal implements function codes 1-6 and 9 (AVERAGE, COUNT, COUNTA,
// MAX, MIN, PRODUCT, SUM); the 100+ "exclude manually hidden rows" variants
// map onto the same functions since this evaluator has no concept of row
// visibility. Any other code, including 7, 8, 10 and 11, returns #VALUE!.
func fnSubtotal(ctx *Context, args []Value) workbook.Scalar {
	if len(args) < 2 {
		return errScalar(workbook.ErrValue)
	}
	code, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	rest := args[1:]
	switch int(code) % 100 {
	case 1:
		return fnAverage(ctx, rest)
	case 2:
		return fnCount(ctx, rest)
	case 3:
		return fnCounta(ctx, rest)
	case 4:
		return fnMax(ctx, rest)
	case 5:
		return fnMin(ctx, rest)
	case 6:
		return fnProduct(ctx, rest)
	case 9:
		return fnSum(ctx, rest)
	default:
		return errScalar(workbook.ErrValue)
	}
}
