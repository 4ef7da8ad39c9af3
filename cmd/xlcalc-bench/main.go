// Command xlcalc-bench builds a few synthetic workbooks and times
// evaluating them, as a quick sanity check of the evaluator's caching and
// recursion behavior outside the test suite.
//
// Adapted from the teacher's performance_bench.go benchmark scenarios
// (dependency chains, wide fan-out, large range sums) onto this repo's
// workbook.Snapshot/eval.Evaluator API in place of the teacher's
// Spreadsheet/Calculate.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/xlcalc/xlcalc/eval"
	"github.com/xlcalc/xlcalc/internal/xlog"
	"github.com/xlcalc/xlcalc/workbook"
)

func main() {
	verbose := flag.Bool("v", false, "debug-level logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := xlog.New(level)

	for _, scenario := range []struct {
		name  string
		build func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar)
	}{
		{"dependency-chain", dependencyChainScenario(200)},
		{"wide-fan-out", wideFanOutScenario(1000)},
		{"large-range-sum", largeRangeSumScenario(5000)},
	} {
		rows, evaluate := scenario.build()
		snap, err := workbook.NewSnapshot([]workbook.SheetInput{{Name: "Sheet1", Rows: rows}}, nil)
		if err != nil {
			logger.Error("build snapshot failed", "scenario", scenario.name, "err", err)
			continue
		}
		start := time.Now()
		ev := eval.New(snap)
		result := evaluate(ev)
		elapsed := time.Since(start)
		logger.Info("scenario done",
			"scenario", scenario.name,
			"cells", len(rows),
			"elapsed", elapsed,
			"result", result.String(),
		)
	}
}

func dependencyChainScenario(n int) func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar) {
	return func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar) {
		rows := []workbook.CellInput{{Row: 0, Col: 0, Kind: workbook.CellLiteral, Value: workbook.Number(1)}}
		for i := 1; i < n; i++ {
			rows = append(rows, workbook.CellInput{
				Row: i, Col: 0, Kind: workbook.CellFormula,
				Expression: fmt.Sprintf("A%d+1", i),
			})
		}
		return rows, func(ev *eval.Evaluator) workbook.Scalar {
			return ev.EvaluateCell(0, n-1, 0)
		}
	}
}

func wideFanOutScenario(n int) func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar) {
	return func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar) {
		rows := []workbook.CellInput{{Row: 0, Col: 0, Kind: workbook.CellLiteral, Value: workbook.Number(100)}}
		for i := 1; i < n; i++ {
			rows = append(rows, workbook.CellInput{
				Row: i, Col: 1, Kind: workbook.CellFormula, Expression: "A1*2",
			})
		}
		return rows, func(ev *eval.Evaluator) workbook.Scalar {
			var last workbook.Scalar
			for i := 1; i < n; i++ {
				last = ev.EvaluateCell(0, i, 1)
			}
			return last
		}
	}
}

func largeRangeSumScenario(n int) func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar) {
	return func() ([]workbook.CellInput, func(*eval.Evaluator) workbook.Scalar) {
		rows := make([]workbook.CellInput, 0, n+1)
		for i := 0; i < n; i++ {
			rows = append(rows, workbook.CellInput{
				Row: i, Col: 0, Kind: workbook.CellLiteral, Value: workbook.Number(float64(i + 1)),
			})
		}
		rows = append(rows, workbook.CellInput{
			Row: n, Col: 1, Kind: workbook.CellFormula,
			Expression: fmt.Sprintf("SUM(A1:A%d)", n),
		})
		return rows, func(ev *eval.Evaluator) workbook.Scalar {
			return ev.EvaluateCell(0, n, 1)
		}
	}
}
