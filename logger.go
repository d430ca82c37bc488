package slicepack

import (
	"log/slog"

	"github.com/slicerlab/slicepack/internal/log"
)

// SetLogger configures the logger for slicepack and all its sub-packages.
// By default slicepack produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to restore the default silent behavior.
//
// Log levels used by slicepack:
//   - [slog.LevelDebug]: per-file and per-trial diagnostics (open timings,
//     benchmark trial results, disk cache scans)
//   - [slog.LevelError]: fatal storage engine failures
func SetLogger(l *slog.Logger) {
	log.SetLogger(l)
}

// Logger returns the logger currently shared by the slicepack packages.
func Logger() *slog.Logger {
	return log.Logger()
}
