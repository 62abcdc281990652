// Package logging provides categorized diagnostic logging for principia,
// built on zap. Diagnostics are off by default; debug_mode in the config
// turns them on, and per-category toggles narrow them further. Console
// reporting of check results does not go through here — that is the
// driver reporter's job.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"principia/internal/config"
)

// Category names a diagnostic subsystem.
type Category string

const (
	CategoryKernel Category = "kernel" // matching, expansion, checking
	CategoryDriver Category = "driver" // form evaluation, commits
	CategoryReader Category = "reader" // surface-syntax reading
	CategoryWatch  Category = "watch"  // file watching
)

var (
	mu   sync.RWMutex
	base *zap.Logger
	cfg  config.LoggingConfig
)

// Initialize builds the shared zap logger from the logging config. Safe
// to call once at startup; before it is called every category logger is a
// no-op.
func Initialize(c config.LoggingConfig) error {
	level := zapcore.InfoLevel
	if c.Level != "" {
		if err := level.Set(c.Level); err != nil {
			return err
		}
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	mu.Lock()
	defer mu.Unlock()
	cfg = c
	base = zap.New(core)
	return nil
}

// L returns the logger for a category. Disabled categories (and runs
// without debug_mode) get a no-op logger.
func L(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if base == nil || !cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return base.Named(string(category))
}

// Sync flushes buffered log entries; call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if base != nil {
		_ = base.Sync()
	}
}
