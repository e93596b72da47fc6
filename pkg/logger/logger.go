package logger

import (
	"io"
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger

	debugEnabled = os.Getenv("ENVIRONMENT") == "development"
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput redirects the leveled loggers; errors go to errOut.
func SetOutput(out, errOut io.Writer) {
	InfoLogger = log.New(out, "INFO: ", flags)
	WarnLogger = log.New(out, "WARN: ", flags)
	DebugLogger = log.New(out, "DEBUG: ", flags)
	ErrorLogger = log.New(errOut, "ERROR: ", flags)
}

func SetDebug(enabled bool) {
	debugEnabled = enabled
}

func Info(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

func Warn(format string, v ...interface{}) {
	WarnLogger.Printf(format, v...)
}

func Error(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

func Debug(format string, v ...interface{}) {
	if debugEnabled {
		DebugLogger.Printf(format, v...)
	}
}

// LogOperationError records a failed lifecycle operation without failing the caller.
func LogOperationError(operation, caller string, err error) {
	Warn("Marketplace operation failed: operation=%s, caller=%s, error=%v", operation, caller, err)
}
