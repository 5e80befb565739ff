package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler. Verbose mode enables
// debug-level output, which also turns on HTTP exchange dumps in
// restyutil.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
