package functions

import (
	"math"

	"github.com/xlcalc/xlcalc/workbook"
)

func init() {
	register("PMT", fnPmt)
	register("FV", fnFv)
	register("PV", fnPv)
	register("NPV", fnNpv)
	register("RATE", fnRate)
	register("NPER", fnNper)
}

// financialArgs parses the common (rate, nper, pmt, pv, fv, type) argument
// shape shared by PMT/FV/PV/NPER, where pv, fv and type are optional and
// default to 0, matching Excel's financial-function signatures.
func financialArgs(args []Value, need int, hasPmt bool) (rate, nper, pmt, pv, fv, typ float64, ok bool) {
	if len(args) < need {
		return 0, 0, 0, 0, 0, 0, false
	}
	vals := make([]float64, 6)
	for i := 0; i < len(args) && i < 6; i++ {
		n, okN := toNumber(args[i].First())
		if !okN {
			return 0, 0, 0, 0, 0, 0, false
		}
		vals[i] = n
	}
	_ = hasPmt
	return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], true
}

func fnPmt(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 5 {
		return errScalar(workbook.ErrValue)
	}
	rate, nper, _, pv, fv, typ, ok := financialArgs(args, 3, false)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	if rate == 0 {
		return workbook.Number(-(pv + fv) / nper)
	}
	factor := math.Pow(1+rate, nper)
	pmt := (rate * (pv*factor + fv)) / ((1 + rate*typ) * (1 - factor))
	return workbook.Number(pmt)
}

func fnFv(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 5 {
		return errScalar(workbook.ErrValue)
	}
	rate, nper, pmt, pv, _, typ, ok := financialArgs(args, 3, true)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	if rate == 0 {
		return workbook.Number(-(pv + pmt*nper))
	}
	factor := math.Pow(1+rate, nper)
	fv := -(pv*factor + pmt*(1+rate*typ)*(factor-1)/rate)
	return workbook.Number(fv)
}

func fnPv(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 5 {
		return errScalar(workbook.ErrValue)
	}
	rate, nper, pmt, _, fv, typ, ok := financialArgs(args, 3, true)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	if rate == 0 {
		return workbook.Number(-(fv + pmt*nper))
	}
	factor := math.Pow(1+rate, nper)
	pv := -(fv + pmt*(1+rate*typ)*(factor-1)/rate) / factor
	return workbook.Number(pv)
}

func fnNpv(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 {
		return errScalar(workbook.ErrValue)
	}
	rate, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	sum := 0.0
	period := 1
	for _, a := range args[1:] {
		for _, v := range a.Flatten() {
			if v.IsError() {
				return v
			}
			n, ok := toNumber(v)
			if !ok {
				continue
			}
			sum += n / math.Pow(1+rate, float64(period))
			period++
		}
	}
	return workbook.Number(sum)
}

func fnNper(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 5 {
		return errScalar(workbook.ErrValue)
	}
	// NPER's arguments are (rate, pmt, pv, fv, type): shifted one position
	// from financialArgs' (rate, nper, pmt, pv, fv, type) layout.
	rate, pmt, pv, fv, typ, _, ok := financialArgs(args, 3, true)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	if rate == 0 {
		if pmt == 0 {
			return errScalar(workbook.ErrDiv0)
		}
		return workbook.Number(-(pv + fv) / pmt)
	}
	numerator := pmt*(1+rate*typ) - fv*rate
	denominator := pv*rate + pmt*(1+rate*typ)
	if denominator == 0 || numerator/denominator <= 0 {
		return errScalar(workbook.ErrNum)
	}
	n := math.Log(numerator/denominator) / math.Log(1+rate)
	return workbook.Number(n)
}

// fnRate solves for the periodic interest rate via Newton-Raphson, since
// unlike PMT/FV/PV/NPER the rate equation has no closed form. Grounded on
// the iterative-solver pattern the teacher uses in its statistics helpers
// (successive-approximation loops with a fixed iteration cap and tolerance).
func fnRate(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 6 {
		return errScalar(workbook.ErrValue)
	}
	nper, ok1 := toNumber(args[0].First())
	pmt, ok2 := toNumber(args[1].First())
	pv, ok3 := toNumber(args[2].First())
	if !ok1 || !ok2 || !ok3 {
		return errScalar(workbook.ErrValue)
	}
	fv := 0.0
	if len(args) >= 4 {
		v, ok := toNumber(args[3].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		fv = v
	}
	typ := 0.0
	if len(args) >= 5 {
		v, ok := toNumber(args[4].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		typ = v
	}
	guess := 0.1
	if len(args) == 6 {
		v, ok := toNumber(args[5].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		guess = v
	}

	rate := guess
	const maxIter = 40
	const tolerance = 1e-9
	for i := 0; i < maxIter; i++ {
		f, df := rateResidual(rate, nper, pmt, pv, fv, typ)
		if df == 0 {
			return errScalar(workbook.ErrNum)
		}
		next := rate - f/df
		if math.Abs(next-rate) < tolerance {
			return workbook.Number(next)
		}
		rate = next
	}
	return errScalar(workbook.ErrNum)
}

// rateResidual returns the value and derivative (w.r.t. rate) of the
// standard annuity equation, used by the Newton-Raphson iteration in
// fnRate.
func rateResidual(rate, nper, pmt, pv, fv, typ float64) (f, df float64) {
	if rate == 0 {
		f = pv + pmt*nper + fv
		df = pmt * nper * (nper - 1) / 2
		return
	}
	factor := math.Pow(1+rate, nper)
	f = pv*factor + pmt*(1+rate*typ)*(factor-1)/rate + fv
	dFactor := nper * math.Pow(1+rate, nper-1)
	df = pv*dFactor + pmt*typ*(factor-1)/rate + pmt*(1+rate*typ)*(dFactor*rate-(factor-1))/(rate*rate)
	return
}
