// Package xlog is a thin wrapper around log/slog used only by the CLI
// (cmd/xlcalc-bench); the evaluator itself is silent on its hot path, same
// as the teacher's evaluation pipeline. Grounded on the plain log.Printf
// style observed in _examples/broyeztony-karl/kernel/kernel.go, generalized
// to structured, leveled logging since the CLI reports durations and counts
// that read better as fields than as formatted strings.
package xlog

import (
	"log/slog"
	"os"
)

// New builds a text-handler logger writing to stderr at the given level.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
