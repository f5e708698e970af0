// Package logger provides a simple logging interface backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Options controls where and how much is logged.
type Options struct {
	Level string
	// Console receives human-readable output; nil means stdout.
	Console io.Writer
	// File enables a rotating file sink in addition to the console.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type logger struct {
	zl zerolog.Logger
}

// NewWithOptions creates a logger writing to the console and, when opts.File is
// set, to a lumberjack-rotated file.
func NewWithOptions(opts Options) Logger {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: "2006/01/02 15:04:05"}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   opts.Compress,
		})
	}
	return NewWithWriter(out, opts.Level)
}

// NewWithWriter creates a logger that writes JSON lines to w.
func NewWithWriter(w io.Writer, level string) Logger {
	zl := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	return &logger{zl: zl}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &logger{zl: zerolog.Nop()}
}

// ParseLevel converts a string log level to a zerolog level, defaulting to info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether levelStr names a level ParseLevel understands.
func ValidLevel(levelStr string) bool {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (l *logger) Debug(v ...interface{}) { l.zl.Debug().Msg(fmt.Sprint(v...)) }

func (l *logger) Debugf(format string, v ...interface{}) { l.zl.Debug().Msgf(format, v...) }

func (l *logger) Info(v ...interface{}) { l.zl.Info().Msg(fmt.Sprint(v...)) }

func (l *logger) Infof(format string, v ...interface{}) { l.zl.Info().Msgf(format, v...) }

func (l *logger) Warn(v ...interface{}) { l.zl.Warn().Msg(fmt.Sprint(v...)) }

func (l *logger) Warnf(format string, v ...interface{}) { l.zl.Warn().Msgf(format, v...) }

func (l *logger) Error(v ...interface{}) { l.zl.Error().Msg(fmt.Sprint(v...)) }

func (l *logger) Errorf(format string, v ...interface{}) { l.zl.Error().Msgf(format, v...) }

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
	os.Exit(1)
}
