package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// newLogger writes colored logs to out when it is a terminal and plain
// tinted text otherwise. Error attributes are highlighted in red.
func newLogger(out io.Writer, level slog.Level) *slog.Logger {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isTerminal(f)
	}
	handler := tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}
