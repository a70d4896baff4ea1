// internal/logging/logging.go
// Package logging configures the process-wide zap logger.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zap.NewNop()
)

// Options controls where log output goes.
type Options struct {
	// Path is the log file; empty disables file logging.
	Path string
	// Debug lowers the level to debug.
	Debug bool
	// Console mirrors log output to ConsoleTo, or os.Stderr when ConsoleTo is nil.
	Console   bool
	ConsoleTo io.Writer
}

// Init replaces the global logger. Calling it again closes the previous log file.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logger.Sync()
		_ = logFile.Close()
		logFile = nil
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if opts.Console {
		out := opts.ConsoleTo
		if out == nil {
			out = os.Stderr
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(out),
			level,
		))
	}

	if opts.Path != "" {
		if dir := filepath.Dir(opts.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			level,
		))
	}

	if len(cores) == 0 {
		logger = zap.NewNop()
	} else {
		logger = zap.New(zapcore.NewTee(cores...))
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Close flushes the logger and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.NewNop()
	zap.ReplaceGlobals(logger)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// L returns the current logger.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LogEvent writes a formatted informational message.
func LogEvent(format string, args ...any) {
	L().Info(fmt.Sprintf(format, args...))
}

// LogLoad records the outcome of a dataset load.
func LogLoad(source, digest string, rows int, cached bool, elapsed time.Duration) {
	L().Info("dataset loaded",
		zap.String("source", sourceLabel(source)),
		zap.String("digest", shortDigest(digest)),
		zap.Int("rows", rows),
		zap.Bool("cached", cached),
		zap.Duration("elapsed", elapsed),
	)
}

// LogRequest records one served HTTP request.
func LogRequest(method, path string, status int, elapsed time.Duration) {
	L().Info("request",
		zap.String("method", strings.ToUpper(strings.TrimSpace(method))),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
}

// LogPayload writes payload at debug level.
func LogPayload(event string, payload any) {
	L().Debug(event, zap.String("payload", formatPayload(payload)))
}

func sourceLabel(source string) string {
	if s := strings.TrimSpace(source); s != "" {
		return s
	}
	return "none"
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
