package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
)

// Output formats understood by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a logger writing to stdout. Lambda ships stdout to CloudWatch, so
// json is the default; console is meant for the local dev server.
func New(format string, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(os.Stdout, format, level))
}

// NewHandler builds the slog.Handler for the given format. Unknown formats
// fall back to json.
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if format == FormatConsole {
		return console.NewHandler(w, &console.HandlerOptions{
			AddSource: level == slog.LevelDebug,
			Level:     level,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
