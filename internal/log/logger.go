// Package log wraps slog with a component field and a few helpers shared by
// the commands and services.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger wraps slog.Logger with a component name. The component is kept
// apart from the other attributes so WithComponent replaces it.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

func newLogger(base *slog.Logger, component string) *Logger {
	l := &Logger{Logger: base, base: base, component: component}
	if component != "" {
		l.Logger = base.With(FieldComponent, component)
	}
	return l
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	// Output defaults to stderr so progress lines on stdout stay clean.
	Output  io.Writer
	Handler slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stderr,
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stderr
		}
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: config.Level})
	}
	return newLogger(slog.New(handler), config.Component)
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return newLogger(l.base.With(args...), l.component)
}

// WithComponent returns a new logger tagged with component in place of the
// current one
func (l *Logger) WithComponent(component string) *Logger {
	return newLogger(l.base, component)
}

// WithFields returns a new logger carrying the fields. A component field
// replaces the logger's component.
func (l *Logger) WithFields(f LogFields) *Logger {
	out := l
	if c, ok := f[FieldComponent].(string); ok {
		out = out.WithComponent(c)
	}
	rest := make([]any, 0, len(f)*2)
	for k, v := range f {
		if k == FieldComponent {
			continue
		}
		rest = append(rest, k, v)
	}
	if len(rest) == 0 {
		return out
	}
	return out.With(rest...)
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

var defaultLogger atomic.Pointer[Logger]

// SetDefault sets the default logger for the application. Plain slog calls
// go through it too.
func SetDefault(logger *Logger) {
	defaultLogger.Store(logger)
	slog.SetDefault(logger.Logger)
}

// Default returns the logger set with SetDefault, or one wrapping the slog
// default.
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return newLogger(slog.Default(), "")
}

type contextKey struct{}

// WithContext stores the logger in ctx
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or Default.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// InContext reports whether ctx carries a logger.
func InContext(ctx context.Context) bool {
	_, ok := ctx.Value(contextKey{}).(*Logger)
	return ok
}
