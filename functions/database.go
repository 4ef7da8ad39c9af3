package functions

import "github.com/xlcalc/xlcalc/workbook"

func init() {
	register("DSUM", fnDsum)
	register("DPRODUCT", fnDproduct)
	register("DAVERAGE", fnDaverage)
	register("DCOUNT", fnDcount)
	register("DMAX", fnDmax)
	register("DMIN", fnDmin)
	register("DGET", fnDget)
}

// matchingRows returns the indices of database rows (below the header row)
// that satisfy the criteria table: a header row of field names followed by
// one or more rows of per-field criteria strings, ORed across criteria
// rows and ANDed across columns within a row, exactly like Excel's
// database-function criteria range. Each field's criteria string is
// compiled via parseCriteria, reusing the same expr-lang-backed matcher
// SUMIF/COUNTIF use.
func matchingRows(database, criteria [][]workbook.Scalar, fieldCol int) []int {
	if len(database) < 1 || len(criteria) < 2 {
		return nil
	}
	dbHeader := database[0]
	colIndexByName := make(map[string]int, len(dbHeader))
	for i, h := range dbHeader {
		colIndexByName[toText(h)] = i
	}

	critHeader := criteria[0]
	var matches []int
	for r := 1; r < len(database); r++ {
		row := database[r]
		satisfiesAnyCriteriaRow := false
		for cr := 1; cr < len(criteria); cr++ {
			critRow := criteria[cr]
			satisfiesAll := true
			touchedAny := false
			for ci, fieldName := range critHeader {
				if ci >= len(critRow) {
					continue
				}
				raw := critRow[ci]
				if raw.Kind == workbook.ScalarEmpty {
					continue
				}
				colIdx, ok := colIndexByName[toText(fieldName)]
				if !ok || colIdx >= len(row) {
					satisfiesAll = false
					break
				}
				touchedAny = true
				if !parseCriteria(raw)(row[colIdx]) {
					satisfiesAll = false
					break
				}
			}
			if touchedAny && satisfiesAll {
				satisfiesAnyCriteriaRow = true
				break
			}
		}
		if satisfiesAnyCriteriaRow {
			matches = append(matches, r)
		}
	}
	_ = fieldCol
	return matches
}

// fieldColumn resolves a DSUM-style field argument (column name or 1-based
// index) to a 0-based column index in database.
func fieldColumn(field workbook.Scalar, header []workbook.Scalar) (int, bool) {
	if field.Kind == workbook.ScalarNumber {
		idx := int(field.Num) - 1
		if idx < 0 || idx >= len(header) {
			return 0, false
		}
		return idx, true
	}
	name := toText(field)
	for i, h := range header {
		if toText(h) == name {
			return i, true
		}
	}
	return 0, false
}

func dbArgs(args []Value) (database, criteria [][]workbook.Scalar, field workbook.Scalar, ok bool) {
	if len(args) != 3 {
		return nil, nil, workbook.Scalar{}, false
	}
	database = args[0].Grid
	criteria = args[2].Grid
	if database == nil || criteria == nil {
		return nil, nil, workbook.Scalar{}, false
	}
	return database, criteria, args[1].First(), true
}

func fnDsum(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	sum := 0.0
	for _, r := range matchingRows(database, criteria, col) {
		if n, ok := toNumber(database[r][col]); ok {
			sum += n
		}
	}
	return workbook.Number(sum)
}

func fnDproduct(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	product := 1.0
	for _, r := range matchingRows(database, criteria, col) {
		if n, ok := toNumber(database[r][col]); ok {
			product *= n
		}
	}
	return workbook.Number(product)
}

func fnDaverage(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	sum, count := 0.0, 0
	for _, r := range matchingRows(database, criteria, col) {
		if n, ok := toNumber(database[r][col]); ok {
			sum += n
			count++
		}
	}
	if count == 0 {
		return errScalar(workbook.ErrDiv0)
	}
	return workbook.Number(sum / float64(count))
}

func fnDcount(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	count := 0
	for _, r := range matchingRows(database, criteria, col) {
		if database[r][col].Kind == workbook.ScalarNumber {
			count++
		}
	}
	return workbook.Number(float64(count))
}

func fnDmax(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	max := 0.0
	found := false
	for _, r := range matchingRows(database, criteria, col) {
		if n, ok := toNumber(database[r][col]); ok {
			if !found || n > max {
				max = n
				found = true
			}
		}
	}
	return workbook.Number(max)
}

func fnDmin(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	min := 0.0
	found := false
	for _, r := range matchingRows(database, criteria, col) {
		if n, ok := toNumber(database[r][col]); ok {
			if !found || n < min {
				min = n
				found = true
			}
		}
	}
	return workbook.Number(min)
}

func fnDget(_ *Context, args []Value) workbook.Scalar {
	database, criteria, field, ok := dbArgs(args)
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	col, ok := fieldColumn(field, database[0])
	if !ok {
		return errScalar(workbook.ErrValue)
	}
	rows := matchingRows(database, criteria, col)
	if len(rows) == 0 {
		return errScalar(workbook.ErrValue)
	}
	if len(rows) > 1 {
		return errScalar(workbook.ErrNum)
	}
	return database[rows[0]][col]
}
