package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// disabledLevel is above every level, so nothing is written
const disabledLevel = FatalLevel + 1

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// Logger writes leveled messages through a standard library logger,
// dropping any message below its minimum level
type Logger struct {
	out      *log.Logger
	minLevel int
	source   string
}

// New creates a Logger writing to w, dropping messages below minLevel
func New(w io.Writer, minLevel int) *Logger {
	return &Logger{
		out:      log.New(w, "", log.LstdFlags),
		minLevel: minLevel,
	}
}

// Default creates a Logger writing INFO and above to stderr
func Default() *Logger {
	return New(os.Stderr, InfoLevel)
}

// Discard creates a Logger which writes nothing
func Discard() *Logger {
	return &Logger{
		out:      log.New(io.Discard, "", 0),
		minLevel: disabledLevel,
	}
}

// WithSource returns a copy of this Logger which prefixes every message with a source name
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{
		out:      l.out,
		minLevel: l.minLevel,
		source:   source,
	}
}

// Enabled returns true iff messages at the given level are written
func (l *Logger) Enabled(level int) bool {
	return level >= l.minLevel
}

// Logf writes a message at the given level
func (l *Logger) Logf(level int, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if len(l.source) > 0 {
		l.out.Printf("%s: level [%s]: %s", l.source, LogLevelToString(level), msg)
		return
	}
	l.out.Printf("level [%s]: %s", LogLevelToString(level), msg)
}

// Tracef writes a TRACE message
func (l *Logger) Tracef(format string, args ...interface{}) { l.Logf(TraceLevel, format, args...) }

// Debugf writes a DEBUG message
func (l *Logger) Debugf(format string, args ...interface{}) { l.Logf(DebugLevel, format, args...) }

// Infof writes an INFO message
func (l *Logger) Infof(format string, args ...interface{}) { l.Logf(InfoLevel, format, args...) }

// Warnf writes a WARN message
func (l *Logger) Warnf(format string, args ...interface{}) { l.Logf(WarnLevel, format, args...) }

// Errorf writes an ERROR message
func (l *Logger) Errorf(format string, args ...interface{}) { l.Logf(ErrorLevel, format, args...) }
