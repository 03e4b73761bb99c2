package domain

import "strings"

// StylesheetStatus represents the lifecycle state of a stylesheet during a batch run.
type StylesheetStatus string

const (
	// StatusPending indicates the stylesheet is waiting to be processed.
	StatusPending StylesheetStatus = "pending"
	// StatusRunning indicates the stylesheet is being checked or compiled.
	StatusRunning StylesheetStatus = "running"
	// StatusCompiled indicates the compiler ran and the cache was rewritten.
	StatusCompiled StylesheetStatus = "compiled"
	// StatusCached indicates the cache was fresh and served as is.
	StatusCached StylesheetStatus = "cached"
	// StatusFailed indicates the stylesheet could not be compiled.
	StatusFailed StylesheetStatus = "failed"
)

// IsTerminal checks if a status is a terminal state (Compiled, Cached, Failed).
func (s StylesheetStatus) IsTerminal() bool {
	switch s {
	case StatusCompiled, StatusCached, StatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeStylesheetStatus converts a string to a StylesheetStatus, defaulting to pending if unknown.
func NormalizeStylesheetStatus(s string) StylesheetStatus {
	switch st := StylesheetStatus(strings.ToLower(s)); st {
	case StatusRunning, StatusCompiled, StatusCached, StatusFailed:
		return st
	default:
		return StatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
