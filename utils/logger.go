package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	out *log.Logger
	err *log.Logger
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return &Logger{
		out: log.New(os.Stdout, "", 0),
		err: log.New(os.Stderr, "", 0),
	}
}

func (l *Logger) logf(dst *log.Logger, colour, level, format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	dst.Printf(fmt.Sprintf("[%s] \033[%sm%-5s\033[0m %s\n", ts, colour, level, format), args...)
}

func (l *Logger) Info(format string, args ...any)  { l.logf(l.out, "32", "INFO", format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(l.out, "33", "WARN", format, args...) }
func (l *Logger) Error(format string, args ...any) { l.logf(l.err, "31", "ERROR", format, args...) }
func (l *Logger) Debug(format string, args ...any) { l.logf(l.out, "36", "DEBUG", format, args...) }
