// Package ports defines the Logger interface for logging abstraction.
package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-frame details such as saved frame paths.
	LevelDebug LogLevel = iota
	// LevelInfo is for per-video and per-batch progress.
	LevelInfo
	// LevelWarn is for conditions that do not stop processing,
	// like an empty input directory or a clamped sampling interval.
	LevelWarn
	// LevelError is for failures that abort a single video.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel.
// Unknown values fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	level, _ := LookupLogLevel(s)
	return level
}

// LookupLogLevel parses a string into a LogLevel and reports whether it was recognized.
func LookupLogLevel(s string) (LogLevel, bool) {
	switch s {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "quiet":
		return LevelQuiet, true
	default:
		return LevelInfo, false
	}
}

// Logger abstracts logging operations with multi-language support.
// A Logger is built once at process start and passed to every component.
type Logger interface {
	// Debug logs a debug message with optional format arguments.
	// The msg parameter is the message key that can be translated.
	Debug(msg string, args ...interface{})

	// Info logs an informational message with optional format arguments.
	Info(msg string, args ...interface{})

	// Warn logs a warning message with optional format arguments.
	Warn(msg string, args ...interface{})

	// Error logs an error message with optional format arguments.
	Error(msg string, args ...interface{})

	// WithComponent returns a new Logger that prefixes messages with the component name.
	WithComponent(component string) Logger
}
