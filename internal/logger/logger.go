// Package logger configures the process-wide zap logger for indexd.
// Components log through zap.L(); Init replaces it once at startup.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by Init.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose forces debug level regardless of the configured level.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer used by loggers built afterwards.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// New builds a logger at the given level and format.
func New(level, format string) (*zap.Logger, error) {
	mu.RLock()
	w, v := output, verbose
	mu.RUnlock()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrap(err, "logger: parse level")
	}
	if v {
		lvl = zapcore.DebugLevel
	}

	var enc zapcore.Encoder
	switch format {
	case FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(cfg)
	case FormatJSON, "":
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, eris.Errorf("logger: unknown format %q", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core, zap.AddCaller()), nil
}

// Init builds a logger and installs it as the zap global.
func Init(level, format string) error {
	l, err := New(level, format)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	return nil
}

// Sync flushes the global logger.
func Sync() {
	_ = zap.L().Sync()
}
