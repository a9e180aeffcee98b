// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a JSON slog logger writing to stdout. When file is non-empty
// the log also rotates into that file.
func New(file string) *slog.Logger {
	var w io.Writer = os.Stdout
	if file != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		})
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}
