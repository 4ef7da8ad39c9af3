package functions

import "github.com/xlcalc/xlcalc/workbook"

// Array functions operate on whole grids rather than per-cell scalars, the
// same Grid-carrying Value shape VLOOKUP/INDEX already use for their table
// arguments (functions/lookup.go). Named in spec §4.5's array category;
// the teacher has no equivalent (its builtin.go is scalar-only), so these
// are supplemented from scratch in this package's table/grid idiom.
func init() {
	register("TRANSPOSE", fnTranspose)
	register("MDETERM", fnMdeterm)
	register("MINVERSE", fnMinverse)
	register("MMULT", fnMmult)
}

func fnTranspose(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	grid := gridOf(args[0])
	rows, cols := len(grid), 0
	if rows > 0 {
		cols = len(grid[0])
	}
	out := make([][]workbook.Scalar, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]workbook.Scalar, rows)
		for r := 0; r < rows; r++ {
			out[c][r] = grid[r][c]
		}
	}
	return gridFirst(out)
}

// gridOf coerces a Value to a grid, treating a bare scalar as a 1x1 table.
func gridOf(v Value) [][]workbook.Scalar {
	if v.Grid != nil {
		return v.Grid
	}
	return [][]workbook.Scalar{{v.Scalar}}
}

// gridFirst returns TRANSPOSE/MMULT/MINVERSE's top-left result cell: this
// package's Func signature returns a single Scalar rather than a grid (which
// is also why INDEX in functions/lookup.go rejects its whole-row/column
// modes with an error), so a caller
// wanting the full array result needs a host that reads back the whole
// grid rather than a single formula cell (see DESIGN.md).
func gridFirst(grid [][]workbook.Scalar) workbook.Scalar {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return errScalar(workbook.ErrRef)
	}
	return grid[0][0]
}

func numericMatrix(v Value) ([][]float64, bool) {
	grid := gridOf(v)
	out := make([][]float64, len(grid))
	for r, row := range grid {
		out[r] = make([]float64, len(row))
		for c, s := range row {
			n, ok := toNumber(s)
			if !ok {
				return nil, false
			}
			out[r][c] = n
		}
	}
	return out, true
}

func isSquare(m [][]float64) bool {
	n := len(m)
	for _, row := range m {
		if len(row) != n {
			return false
		}
	}
	return n > 0
}

// determinant computes a square matrix's determinant via Gaussian
// elimination with partial pivoting, matching MDETERM's numeric result
// (not the cofactor-expansion definition, which is exponential).
func determinant(m [][]float64) float64 {
	n := len(m)
	a := make([][]float64, n)
	for i := range m {
		a[i] = append([]float64(nil), m[i]...)
	}
	det := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return 0
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			det = -det
		}
		det *= a[col][col]
		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}
	return det
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func fnMdeterm(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	m, ok := numericMatrix(args[0])
	if !ok || !isSquare(m) {
		return errScalar(workbook.ErrValue)
	}
	return workbook.Number(determinant(m))
}

// invert computes m's inverse via Gauss-Jordan elimination on [m | I],
// returning ok=false for a singular (non-invertible) matrix.
func invert(m [][]float64) ([][]float64, bool) {
	n := len(m)
	aug := make([][]float64, n)
	for i := range m {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(aug[r][col]) > abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if aug[pivot][col] == 0 {
			return nil, false
		}
		aug[pivot], aug[col] = aug[col], aug[pivot]
		pv := aug[col][col]
		for c := 0; c < 2*n; c++ {
			aug[col][c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			for c := 0; c < 2*n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}
	out := make([][]float64, n)
	for r := 0; r < n; r++ {
		out[r] = append([]float64(nil), aug[r][n:]...)
	}
	return out, true
}

func fnMinverse(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 1 {
		return errScalar(workbook.ErrValue)
	}
	m, ok := numericMatrix(args[0])
	if !ok || !isSquare(m) {
		return errScalar(workbook.ErrValue)
	}
	inv, ok := invert(m)
	if !ok {
		return errScalar(workbook.ErrNum)
	}
	grid := make([][]workbook.Scalar, len(inv))
	for r, row := range inv {
		grid[r] = make([]workbook.Scalar, len(row))
		for c, n := range row {
			grid[r][c] = workbook.Number(n)
		}
	}
	return gridFirst(grid)
}

func fnMmult(_ *Context, args []Value) workbook.Scalar {
	if len(args) != 2 {
		return errScalar(workbook.ErrValue)
	}
	a, ok1 := numericMatrix(args[0])
	b, ok2 := numericMatrix(args[1])
	if !ok1 || !ok2 {
		return errScalar(workbook.ErrValue)
	}
	aRows := len(a)
	aCols := 0
	if aRows > 0 {
		aCols = len(a[0])
	}
	bRows := len(b)
	bCols := 0
	if bRows > 0 {
		bCols = len(b[0])
	}
	if aCols != bRows || aRows == 0 || bCols == 0 {
		return errScalar(workbook.ErrValue)
	}
	out := make([][]workbook.Scalar, aRows)
	for r := 0; r < aRows; r++ {
		out[r] = make([]workbook.Scalar, bCols)
		for c := 0; c < bCols; c++ {
			sum := 0.0
			for k := 0; k < aCols; k++ {
				sum += a[r][k] * b[k][c]
			}
			out[r][c] = workbook.Number(sum)
		}
	}
	return gridFirst(out)
}
