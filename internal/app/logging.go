package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/five82/timekeep/internal/config"
)

// SetupLogging points the default slog logger at cfg.LogFile. The terminal
// belongs to the TUI, so nothing is written to stderr. The returned func
// closes the file.
func SetupLogging(cfg config.Config) (func() error, error) {
	if cfg.LogFile == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(handler))
	return file.Close, nil
}
