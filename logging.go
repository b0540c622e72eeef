package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger tags every event with the component that raised it
type Logger struct {
	logger zerolog.Logger
}

// logger is replaced by setupLogging once configuration is known
var logger = NewLogger(os.Stderr, zerolog.WarnLevel)

// NewLogger writes JSON events to writer at or above level
func NewLogger(writer io.Writer, level zerolog.Level) *Logger {
	l := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{logger: l}
}

// NewConsoleLogger writes human-readable events to stderr
func NewConsoleLogger(level zerolog.Level) *Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return NewLogger(consoleWriter, level)
}

// setupLogging installs the package logger for the configured level
func setupLogging(level string) {
	logger = NewConsoleLogger(parseLogLevel(level))
}

// parseLogLevel maps a config string to a zerolog level, defaulting to info
func parseLogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info(component, message string, fields map[string]interface{}) {
	event := l.logger.Info().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Error(component string, err error, fields map[string]interface{}) {
	event := l.logger.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("operation failed")
}

func (l *Logger) Warning(component, message string, fields map[string]interface{}) {
	event := l.logger.Warn().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Debug(component, message string, fields map[string]interface{}) {
	event := l.logger.Debug().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}
