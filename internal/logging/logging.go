// Package logging builds the service logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logger interface used throughout the service.
type Logger = logging.Logger

// Options configure New.
type Options struct {
	Level      string // debug, info, warning, error or fatal
	File       string // Optional rotating log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Suppress   bool
}

// ParseLevel maps a level name to a logging level, defaulting to info.
func ParseLevel(s string) int8 {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logging.Debug
	case "warning", "warn":
		return logging.Warning
	case "error":
		return logging.Error
	case "fatal":
		return logging.Fatal
	default:
		return logging.Info
	}
}

// New returns a JSON logger writing to stderr, and to a rotating file when
// opts.File is set. The returned closer releases the file.
func New(opts Options) (Logger, io.Closer) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		fileLog := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		w = io.MultiWriter(os.Stderr, fileLog)
		closer = fileLog
	}
	return logging.New(ParseLevel(opts.Level), w, opts.Suppress), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
