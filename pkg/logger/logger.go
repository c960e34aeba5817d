// Package logger is the process-wide diagnostic stream.
//
// Every line goes to the diagnostic writer (stderr unless replaced) and, when
// Init has been called, is mirrored into a log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	out     io.Writer = os.Stderr
	logFile *os.File
	global  = log.New(out, "", 0)
	verbose bool
	mu      sync.Mutex
)

// Init mirrors all log lines into the file at logPath (appending).
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	global = log.New(io.MultiWriter(out, f), "", 0)
	return nil
}

// Close closes the log file and reverts to the diagnostic writer only.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	global = log.New(out, "", 0)
}

// SetOutput replaces the diagnostic writer. Passing nil discards output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	out = w
	if logFile != nil {
		global = log.New(io.MultiWriter(out, logFile), "", 0)
		return
	}
	global = log.New(out, "", 0)
}

// SetVerbose enables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	printf("[INFO] ", format, v...)
}

// Debug logs a debug message when verbose output is enabled.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	enabled := verbose
	mu.Unlock()

	if enabled {
		printf("[DEBUG] ", format, v...)
	}
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	printf("[ERROR] ", format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	printf("[WARN] ", format, v...)
}

// GetWriter returns the current diagnostic writer.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

func printf(prefix, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	global.Printf(prefix+format, v...)
}
