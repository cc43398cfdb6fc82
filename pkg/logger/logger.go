package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel defines the severity level for log events.
type LogLevel string

const (
	// DebugLevel indicates detailed tracing information, such as every request sent to the stats service.
	DebugLevel LogLevel = "debug"
	// InfoLevel indicates progress narration (player, season, game).
	InfoLevel LogLevel = "info"
	// WarnLevel indicates recoverable problems: a failed season query, an unresolved clip.
	WarnLevel LogLevel = "warn"
	// ErrorLevel indicates failures that abort a single item but not the run.
	ErrorLevel LogLevel = "error"
	// FatalLevel indicates errors that abort the process.
	FatalLevel LogLevel = "fatal"
)

// Format selects how log events are rendered.
type Format string

const (
	// JSONFormat writes one JSON object per event (default).
	JSONFormat Format = "json"
	// ConsoleFormat writes human readable, colorized lines.
	ConsoleFormat Format = "console"
)

// Init configures the global zerolog logger writing to stderr.
// It should be called once at application startup, after the config is loaded.
func Init(level LogLevel, format Format) error {
	return InitWithWriter(os.Stderr, level, format)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, level LogLevel, format Format) error {
	zl, err := parseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(zl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch format {
	case ConsoleFormat:
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	case JSONFormat, "":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}
	return nil
}

func parseLevel(level LogLevel) (zerolog.Level, error) {
	switch LogLevel(strings.ToLower(string(level))) {
	case DebugLevel:
		return zerolog.DebugLevel, nil
	case InfoLevel, "":
		return zerolog.InfoLevel, nil
	case WarnLevel, "warning":
		return zerolog.WarnLevel, nil
	case ErrorLevel:
		return zerolog.ErrorLevel, nil
	case FatalLevel:
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// Log is the core logging function. Use the level helpers instead of calling it directly.
func Log(level LogLevel, message, component string, data map[string]interface{}) {
	l := log.With().
		Str("component", component).
		Fields(data).
		Logger()

	switch level {
	case DebugLevel:
		l.Debug().Msg(message)
	case InfoLevel:
		l.Info().Msg(message)
	case WarnLevel:
		l.Warn().Msg(message)
	case ErrorLevel:
		l.Error().Msg(message)
	case FatalLevel:
		l.Fatal().Msg(message)
	}
}

// Debug logs a message at the Debug level with the specified component and optional data.
func Debug(message, component string, data map[string]interface{}) {
	Log(DebugLevel, message, component, data)
}

// Info logs a message at the Info level with the specified component and optional data.
func Info(message, component string, data map[string]interface{}) {
	Log(InfoLevel, message, component, data)
}

// Warn logs a message at the Warn level with the specified component and optional data.
func Warn(message, component string, data map[string]interface{}) {
	Log(WarnLevel, message, component, data)
}

// Error logs a message at the Error level with the specified component and optional data.
func Error(message, component string, data map[string]interface{}) {
	Log(ErrorLevel, message, component, data)
}

// Fatal logs a message at the Fatal level and then calls os.Exit(1).
func Fatal(message, component string, data map[string]interface{}) {
	Log(FatalLevel, message, component, data)
}

// Elapsed is a small helper for "took" fields.
func Elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
