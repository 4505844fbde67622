// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. It:
// - Writes logs to stdout.
// - When dir is non-empty, ensures it exists and also writes to a
//   timestamped log file inside it.
// - Configures separate loggers (Info, Warn, Error, Debug) with consistent prefixes & flags.
func InitLogger(dir string) error {
	var out io.Writer = os.Stdout

	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
		file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
		if err != nil {
			return err
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	configure(out)
	return nil
}

// configure points all four loggers at the same writer.
func configure(out io.Writer) {
	Info = log.New(out, "INFO: ", logFlags)
	Warn = log.New(out, "WARN: ", logFlags)
	Error = log.New(out, "ERROR: ", logFlags)
	Debug = log.New(out, "DEBUG: ", logFlags)
}

// SetLogLevel adjusts which loggers produce output.
// In production Debug is always discarded. Outside production the level
// string decides: "debug" keeps everything, "info" drops Debug, "warn" also
// drops Info, "error" keeps only Error.
func SetLogLevel(env, level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if env == "production" && level == "debug" {
		level = "info"
	}

	switch level {
	case "error":
		Warn.SetOutput(io.Discard)
		fallthrough
	case "warn", "warning":
		Info.SetOutput(io.Discard)
		fallthrough
	case "info", "":
		Debug.SetOutput(io.Discard)
	}
}

// init gives every package usable stdout loggers before main runs InitLogger.
func init() {
	configure(os.Stdout)
}
