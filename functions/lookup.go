package functions

import "github.com/xlcalc/xlcalc/workbook"

func init() {
	register("VLOOKUP", fnVlookup)
	register("HLOOKUP", fnHlookup)
	register("LOOKUP", fnLookup)
	register("XLOOKUP", fnXlookup)
	register("XMATCH", fnXmatch)
	register("INDEX", fnIndex)
	register("MATCH", fnMatch)
	register("CHOOSE", fnChoose)
	register("ROWS", fnRows)
	register("COLUMNS", fnColumns)
}

// fnLookup implements the vector form of LOOKUP(lookup_value,
// lookup_vector, [result_vector]): lookup_vector must be sorted ascending,
// and the largest entry <= lookup_value wins, same approximate-match rule
// VLOOKUP's default mode uses (findLookupRow/lookupLE). The array form (a
// single 2D lookup_vector whose last row/column supplies results) is not
// implemented; callers needing that shape should use INDEX/MATCH instead.
func fnLookup(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	lookup := args[0].First()
	vector := args[1].Flatten()
	result := vector
	if len(args) == 3 {
		result = args[2].Flatten()
	}
	best := -1
	for i, v := range vector {
		if lookupLE(v, lookup) {
			best = i
		} else {
			break
		}
	}
	if best < 0 || best >= len(result) {
		return errScalar(workbook.ErrNA)
	}
	return result[best]
}

// fnXmatch implements XMATCH(lookup_value, lookup_array, [match_mode],
// [search_mode]). match_mode 0 is exact match (default); -1/1 fall back to
// the next smaller/larger entry when no exact match exists (reusing
// lookupLE, so these two modes assume an unsorted-tolerant linear scan
// rather than XMATCH's native binary search); match_mode 2 (wildcard) is
// treated as exact match, since this package's wildcard matcher
// (wildcardPredicate in criteria.go) is wired to COUNTIF/SUMIF-style
// criteria strings, not to XMATCH's pattern argument. search_mode -1
// reverses scan order for "last to first"; the binary-search modes (2, -2)
// are treated the same as their linear equivalents since correctness, not
// search performance, is this engine's concern.
func fnXmatch(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 4 {
		return errScalar(workbook.ErrValue)
	}
	lookup := args[0].First()
	arr := args[1].Flatten()
	matchMode := 0.0
	if len(args) >= 3 {
		n, ok := toNumber(args[2].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		matchMode = n
	}
	searchMode := 1.0
	if len(args) == 4 {
		n, ok := toNumber(args[3].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		searchMode = n
	}

	order := make([]int, len(arr))
	for i := range arr {
		order[i] = i
	}
	if searchMode == -1 || searchMode == -2 {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	switch matchMode {
	case -1: // exact, else next smaller
		best := -1
		for _, i := range order {
			if scalarEquals(arr[i], lookup) {
				return workbook.Number(float64(i + 1))
			}
			if lookupLE(arr[i], lookup) && (best < 0 || lookupLE(arr[best], arr[i])) {
				best = i
			}
		}
		if best >= 0 {
			return workbook.Number(float64(best + 1))
		}
	case 1: // exact, else next larger
		best := -1
		for _, i := range order {
			if scalarEquals(arr[i], lookup) {
				return workbook.Number(float64(i + 1))
			}
			if lookupLE(lookup, arr[i]) && (best < 0 || lookupLE(arr[i], arr[best])) {
				best = i
			}
		}
		if best >= 0 {
			return workbook.Number(float64(best + 1))
		}
	default: // 0 or 2: exact
		for _, i := range order {
			if scalarEquals(arr[i], lookup) {
				return workbook.Number(float64(i + 1))
			}
		}
	}
	return errScalar(workbook.ErrNA)
}

// fnXlookup implements XLOOKUP(lookup_value, lookup_array, return_array,
// [if_not_found], [match_mode], [search_mode]) on top of fnXmatch, matching
// Excel's documented "XLOOKUP finds a position, then reads it back from
// return_array" behavior.
func fnXlookup(ctx *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 6 {
		return errScalar(workbook.ErrValue)
	}
	matchArgs := []Value{args[0], args[1]}
	if len(args) >= 5 {
		matchArgs = append(matchArgs, args[4])
	}
	if len(args) == 6 {
		matchArgs = append(matchArgs, args[5])
	}
	matched := fnXmatch(ctx, matchArgs)
	if matched.IsError() {
		if len(args) >= 4 {
			return args[3].First()
		}
		return matched
	}
	idx := int(matched.Num) - 1
	ret := args[2].Flatten()
	if idx < 0 || idx >= len(ret) {
		return errScalar(workbook.ErrRef)
	}
	return ret[idx]
}

func fnVlookup(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 4 {
		return errScalar(workbook.ErrValue)
	}
	lookup := args[0].First()
	table := args[1].Grid
	if table == nil {
		return errScalar(workbook.ErrValue)
	}
	col, ok := toNumber(args[2].First())
	if !ok || int(col) < 1 {
		return errScalar(workbook.ErrValue)
	}
	exact := len(args) == 4
	var exactMatch bool
	if exact {
		b, ok := toBool(args[3].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		exactMatch = !b
	}

	row := findLookupRow(lookup, table, 0, exactMatch)
	if row < 0 {
		return errScalar(workbook.ErrNA)
	}
	c := int(col) - 1
	if c < 0 || c >= len(table[row]) {
		return errScalar(workbook.ErrRef)
	}
	return table[row][c]
}

func fnHlookup(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 3 || len(args) > 4 {
		return errScalar(workbook.ErrValue)
	}
	lookup := args[0].First()
	table := args[1].Grid
	if table == nil {
		return errScalar(workbook.ErrValue)
	}
	rowIdx, ok := toNumber(args[2].First())
	if !ok || int(rowIdx) < 1 {
		return errScalar(workbook.ErrValue)
	}
	exactMatch := false
	if len(args) == 4 {
		b, ok := toBool(args[3].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		exactMatch = !b
	}

	col := findLookupCol(lookup, table, exactMatch)
	if col < 0 {
		return errScalar(workbook.ErrNA)
	}
	r := int(rowIdx) - 1
	if r < 0 || r >= len(table) || col >= len(table[r]) {
		return errScalar(workbook.ErrRef)
	}
	return table[r][col]
}

// findLookupRow scans column 0 of table for lookup, approximate match
// (exactMatch==false) assumes an ascending-sorted column and returns the
// largest row whose value is <= lookup, matching VLOOKUP's default mode.
func findLookupRow(lookup workbook.Scalar, table [][]workbook.Scalar, col int, exactMatch bool) int {
	if exactMatch {
		for i, row := range table {
			if col < len(row) && scalarEquals(row[col], lookup) {
				return i
			}
		}
		return -1
	}
	best := -1
	for i, row := range table {
		if col >= len(row) {
			continue
		}
		if lookupLE(row[col], lookup) {
			best = i
		} else {
			break
		}
	}
	return best
}

func findLookupCol(lookup workbook.Scalar, table [][]workbook.Scalar, exactMatch bool) int {
	if len(table) == 0 {
		return -1
	}
	header := table[0]
	if exactMatch {
		for i, v := range header {
			if scalarEquals(v, lookup) {
				return i
			}
		}
		return -1
	}
	best := -1
	for i, v := range header {
		if lookupLE(v, lookup) {
			best = i
		} else {
			break
		}
	}
	return best
}

func lookupLE(candidate, lookup workbook.Scalar) bool {
	if candidate.Kind == workbook.ScalarString && lookup.Kind == workbook.ScalarString {
		return candidate.Str <= lookup.Str
	}
	cn, ok1 := toNumber(candidate)
	ln, ok2 := toNumber(lookup)
	if ok1 && ok2 {
		return cn <= ln
	}
	return false
}

func fnMatch(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	lookup := args[0].First()
	rng := args[1].Flatten()
	matchType := 1.0
	if len(args) == 3 {
		n, ok := toNumber(args[2].First())
		if !ok {
			return errScalar(workbook.ErrValue)
		}
		matchType = n
	}

	switch {
	case matchType == 0:
		for i, v := range rng {
			if scalarEquals(v, lookup) {
				return workbook.Number(float64(i + 1))
			}
		}
		return errScalar(workbook.ErrNA)
	case matchType > 0:
		best := -1
		for i, v := range rng {
			if lookupLE(v, lookup) {
				best = i
			} else {
				break
			}
		}
		if best < 0 {
			return errScalar(workbook.ErrNA)
		}
		return workbook.Number(float64(best + 1))
	default:
		best := -1
		for i, v := range rng {
			vn, ok1 := toNumber(v)
			ln, ok2 := toNumber(lookup)
			if ok1 && ok2 && vn >= ln {
				best = i
			} else if best >= 0 {
				break
			}
		}
		if best < 0 {
			return errScalar(workbook.ErrNA)
		}
		return workbook.Number(float64(best + 1))
	}
}

func fnIndex(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 || len(args) > 3 {
		return errScalar(workbook.ErrValue)
	}
	grid := args[0].Grid
	if grid == nil {
		grid = [][]workbook.Scalar{{args[0].Scalar}}
	}
	row, ok1 := toNumber(args[1].First())
	if !ok1 {
		return errScalar(workbook.ErrValue)
	}
	col := 0.0
	if len(args) == 3 {
		c, ok2 := toNumber(args[2].First())
		if !ok2 {
			return errScalar(workbook.ErrValue)
		}
		col = c
	}

	rows, cols := len(grid), 0
	if rows > 0 {
		cols = len(grid[0])
	}

	if row == 0 && col == 0 {
		return errScalar(workbook.ErrValue)
	}
	if row == 0 { // whole column request needs a single-column slice; unsupported as scalar
		if cols == 1 {
			c := int(col) - 1
			if c != 0 {
				return errScalar(workbook.ErrRef)
			}
			return errScalar(workbook.ErrValue)
		}
	}
	r := int(row) - 1
	c := int(col) - 1
	if r < 0 || r >= rows || c < 0 || c >= cols {
		return errScalar(workbook.ErrRef)
	}
	return grid[r][c]
}

func fnChoose(_ *Context, args []Value) workbook.Scalar {
	if len(args) < 2 {
		return errScalar(workbook.ErrValue)
	}
	idx, ok := toNumber(args[0].First())
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	choices := args[1:]
	i := int(idx)
	if i < 1 || i > len(choices) {
		return errScalar(workbook.ErrValue)
	}
	return choices[i-1].First()
}

func fnRows(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	r, _ := args[0].Dims()
	return workbook.Number(float64(r))
}

func fnColumns(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	_, c := args[0].Dims()
	return workbook.Number(float64(c))
}
