// Package logx is a small leveled logger writing timestamped lines to stderr.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// EnvLevel names the environment variable consulted by Configure.
const EnvLevel = "GATEWAY_LOG_LEVEL"

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32

	outMu sync.Mutex
	out   io.Writer = os.Stderr
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

func ParseLevel(v string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", v)
	}
}

func SetLevel(v string) error {
	lvl, err := ParseLevel(v)
	if err != nil {
		return err
	}
	currentLevel.Store(int32(lvl))
	return nil
}

// SetOutput redirects log lines and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := out
	out = w
	return prev
}

// Configure resolves log level from flags and env.
// Precedence: --log-level > --verbose > GATEWAY_LOG_LEVEL > default(info).
func Configure(flagLevel string, verbose bool) error {
	if strings.TrimSpace(flagLevel) != "" {
		return SetLevel(flagLevel)
	}
	if verbose {
		return SetLevel("debug")
	}
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		return SetLevel(env)
	}
	return SetLevel("info")
}

func levelEnabled(l Level) bool {
	return l >= Level(currentLevel.Load())
}

func IsDebug() bool {
	return levelEnabled(LevelDebug)
}

func logf(l Level, label, format string, args ...any) {
	if !levelEnabled(l) {
		return
	}
	ts := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	outMu.Lock()
	fmt.Fprintf(out, "%s [%s] %s\n", ts, label, msg)
	outMu.Unlock()
}

func Debugf(format string, args ...any) { logf(LevelDebug, "DEBUG", format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, "INFO", format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, "WARN", format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, "ERROR", format, args...) }
