package common

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"
)

// Logger wraps log.Logger to provide a consistent interface
type Logger struct {
	log.Logger
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLogger creates a console logger on stderr with the specified level
func NewLogger(level string) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: true,
		},
	}}
}

// NewLoggerWithOutput creates a JSON logger writing to a specific output
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer:     &log.IOWriter{Writer: w},
	}}
}

// NewLoggerFromConfig builds a logger from [logging]. When quiet is set the
// console output is dropped so an interactive terminal is not overwritten.
func NewLoggerFromConfig(cfg LoggingConfig, quiet bool) *Logger {
	var writers log.MultiEntryWriter

	if cfg.HasOutput("console") && !quiet {
		if strings.EqualFold(cfg.Format, "json") {
			writers = append(writers, &log.IOWriter{Writer: os.Stderr})
		} else {
			writers = append(writers, &log.ConsoleWriter{Writer: os.Stderr, ColorOutput: true})
		}
	}

	if cfg.HasOutput("file") && cfg.FilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 20
		}
		writers = append(writers, &log.FileWriter{
			Filename:     cfg.FilePath,
			MaxSize:      int64(maxSize) * 1024 * 1024,
			MaxBackups:   cfg.MaxBackups,
			EnsureFolder: true,
			LocalTime:    true,
		})
	}

	if len(writers) == 0 {
		return NewSilentLogger()
	}

	return &Logger{Logger: log.Logger{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		Writer:     &writers,
	}}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() *Logger {
	return &Logger{Logger: log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}}
}
