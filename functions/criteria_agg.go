package functions

import "github.com/xlcalc/xlcalc/workbook"

func fnSumif(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	criteriaRange := args[0].Flatten()
	pred := parseCriteria(args[1].First())
	sumRange := criteriaRange
	if len(args) == 3 {
		sumRange = args[2].Flatten()
	}
	if len(sumRange) != len(criteriaRange) {
		return errScalar(workbook.ErrValue)
	}
	sum := 0.0
	for i, c := range criteriaRange {
		if !pred(c) {
			continue
		}
		if n, ok := toNumber(sumRange[i]); ok {
			sum += n
		}
	}
	return workbook.Number(sum)
}

func fnSumifs(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args)%2 != 1 {
		return errScalar(workbook.ErrValue)
	}
	sumRange := args[0].Flatten()
	sum := 0.0
	for i := range sumRange {
		if matchesAllCriteria(args[1:], i) {
			if n, ok := toNumber(sumRange[i]); ok {
				sum += n
			}
		}
	}
	return workbook.Number(sum)
}

func fnAverageif(ctx *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	criteriaRange := args[0].Flatten()
	pred := parseCriteria(args[1].First())
	avgRange := criteriaRange
	if len(args) == 3 {
		avgRange = args[2].Flatten()
	}
	sum, count := 0.0, 0
	for i, c := range criteriaRange {
		if !pred(c) {
			continue
		}
		if n, ok := toNumber(avgRange[i]); ok {
			sum += n
			count++
		}
	}
	if count == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	return workbook.Number(sum / float64(count))
}

func fnAverageifs(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args)%2 != 1 {
		return errScalar(workbook.ErrValue)
	}
	avgRange := args[0].Flatten()
	sum, count := 0.0, 0
	for i := range avgRange {
		if matchesAllCriteria(args[1:], i) {
			if n, ok := toNumber(avgRange[i]); ok {
				sum += n
				count++
			}
		}
	}
	if count == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	return workbook.Number(sum / float64(count))
}

func fnCountif(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	rng := args[0].Flatten()
	pred := parseCriteria(args[1].First())
	count := 0
	for _, c := range rng {
		if pred(c) {
			count++
		}
	}
	return workbook.Number(float64(count))
}

func fnCountifs(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args)%2 != 0 {
		return errScalar(workbook.ErrValue)
	}
	n := len(args[0].Flatten())
	count := 0
	for i := 0; i < n; i++ {
		if matchesAllCriteria(args, i) {
			count++
		}
	}
	return workbook.Number(float64(count))
}

// matchesAllCriteria reports whether index i satisfies every (range,
// criteria) pair in pairs, which must have even length.
func matchesAllCriteria(pairs []Value, i int) bool {
	for p := 0; p+1 < len(pairs); p += 2 {
		rng := pairs[p].Flatten()
		if i >= len(rng) {
			return false
		}
		pred := parseCriteria(pairs[p+1].First())
		if !pred(rng[i]) {
			return false
		}
	}
	return true
}
