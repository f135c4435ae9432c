// Package logger holds the process-wide slog logger. Packages that receive an
// injected *slog.Logger should keep using it; the package-level helpers serve
// entry points and seeding code that have none.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/oggyb/matcha/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

const textTimeLayout = "2006-01-02 15:04:05"

type Config struct {
	Level      string
	Format     Format
	Component  string
	WithSource bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	active  = Config{Level: "info", Format: FormatText}
)

// InitFromConfig initializes the global logger from the LOG_* settings.
func InitFromConfig(c *config.Config) {
	if c == nil {
		Init(nil)
		return
	}
	Init(&Config{
		Level:      c.Log.Level,
		Format:     Format(c.Log.Format),
		Component:  c.Log.Component,
		WithSource: c.Log.Source,
	})
}

// Init replaces the global logger. A nil config rebuilds it from the last
// settings.
func Init(c *Config) {
	mu.Lock()
	defer mu.Unlock()

	if c != nil {
		active = *c
	}
	current = build(active)
}

func build(c Config) *slog.Logger {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	text := !strings.EqualFold(string(c.Format), string(FormatJSON))

	opts := &slog.HandlerOptions{
		Level:     parseLevel(c.Level),
		AddSource: c.WithSource,
	}
	if text {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(textTimeLayout))
			}
			return a
		}
	}

	var h slog.Handler = slog.NewJSONHandler(out, opts)
	if text {
		h = slog.NewTextHandler(out, opts)
	}
	l := slog.New(h)
	if c.Component != "" {
		l = l.With("component", c.Component)
	}
	return l
}

// L returns the global logger, building the default one on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = build(active)
	}
	return current
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

// Named returns a child logger tagged with the subsystem it logs for, e.g.
// "grpc" or "seed".
func Named(subsystem string) *slog.Logger { return With("subsystem", subsystem) }

// GormLevel returns the configured level. SQL is echoed only at debug.
func GormLevel() slog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return parseLevel(active.Level).Level()
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
