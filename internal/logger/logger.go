package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"

	"github.com/noahxzhu/homework-notify/internal/config"
)

// LevelCritical sits above slog.LevelError and is used for failures that stop the process.
const LevelCritical = slog.Level(12)

// New builds a logger writing colored text to stdout and JSON lines to the
// append-only log file. The returned closer releases the file.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	console := NewConsoleHandler(os.Stdout, level, cfg.NoColor)
	if cfg.File == "" {
		return slog.New(console), nopCloser{}, nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	file := slog.NewJSONHandler(f, &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: replaceLevel,
	})
	return slog.New(slogmulti.Fanout(console, file)), f, nil
}

// NewConsoleHandler is the stdout half of New, also used before the config is loaded.
func NewConsoleHandler(w io.Writer, level slog.Leveler, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		AddSource:   true,
		Level:       level,
		TimeFormat:  time.DateTime,
		NoColor:     noColor,
		ReplaceAttr: replaceLevel,
	})
}

func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "critical") {
		return LevelCritical, nil
	}
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Critical logs msg at LevelCritical with the caller as source.
func Critical(l *slog.Logger, msg string, args ...any) {
	ctx := context.Background()
	if !l.Enabled(ctx, LevelCritical) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) // skip Callers and Critical
	r := slog.NewRecord(time.Now(), LevelCritical, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if isCritical(groups, a) {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}

func isCritical(groups []string, a slog.Attr) bool {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return false
	}
	level, ok := a.Value.Any().(slog.Level)
	return ok && level >= LevelCritical
}
