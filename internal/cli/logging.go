package cli

import (
	"io"
	"log/slog"
)

// newLogger creates the CLI logger. It writes text to w (stderr, so JSON on
// stdout stays clean) at info level, or debug level when verbose. The
// "error" key is shortened to "err".
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}
