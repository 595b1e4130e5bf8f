package observability

import (
	"io"
	"log/slog"
	"strings"
)

// NewLoggerTo builds a logger that writes to w instead of stdout. The service
// uses the shared observability.NewLogger; the CLI needs stdout for the digest.
// format "text" selects the text handler; anything else logs JSON. Unknown
// levels fall back to info.
func NewLoggerTo(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}
