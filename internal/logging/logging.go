// Package logging builds the application's slog loggers from settings:
// console and rotating file outputs, JSON or human-readable lines, and
// named loggers with their own levels.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/starter-api/backend/internal/config"
)

// Named loggers used across the application.
const (
	App         = "app"
	HTTPRequest = "http.request"
	DB          = "db"
	Autoreload  = "autoreload"
)

const verboseTimeLayout = "2006-01-02 15:04:05"

// Option configures New.
type Option func(*options)

type options struct {
	console io.Writer
	attrs   []slog.Attr
}

// WithConsole replaces stdout as the console destination. Nil is ignored.
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// Registry hands out loggers that share outputs but filter by their own
// level.
type Registry struct {
	handler slog.Handler
	root    slog.Level
	levels  map[string]slog.Level
	closers []io.Closer

	mu      sync.Mutex
	loggers map[string]*slog.Logger
}

// New builds a Registry from cfg. Close it to flush the file output.
func New(cfg config.Logging, opts ...Option) (*Registry, error) {
	o := &options{console: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	root, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}

	levels := make(map[string]slog.Level, len(cfg.Loggers))
	floor := root
	for name, lvl := range cfg.Loggers {
		l, err := ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("logging.New: logger %s: %w", name, err)
		}
		levels[name] = l
		floor = min(floor, l)
	}

	r := &Registry{root: root, levels: levels, loggers: map[string]*slog.Logger{}}

	var outputs []slog.Handler
	for _, h := range cfg.Handlers {
		switch h {
		case "console":
			outputs = append(outputs, newHandler(cfg.Format, o.console, floor))
		case "file":
			lj := &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.FileMaxSizeMB,
				MaxBackups: cfg.FileMaxBackups,
				MaxAge:     cfg.FileMaxAgeDays,
				Compress:   cfg.FileCompress,
			}
			r.closers = append(r.closers, lj)
			outputs = append(outputs, newHandler(cfg.Format, lj, floor))
		default:
			return nil, fmt.Errorf("logging.New: unknown handler %q", h)
		}
	}
	if len(outputs) == 0 {
		return nil, errors.New("logging.New: no handlers configured")
	}

	var handler slog.Handler = fanout(outputs)
	if len(outputs) == 1 {
		handler = outputs[0]
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}
	r.handler = &requestIDHandler{next: handler}
	return r, nil
}

// Root returns the logger for records that belong to no named logger.
func (r *Registry) Root() *slog.Logger {
	return slog.New(&levelHandler{next: r.handler, level: r.root})
}

// Logger returns the named logger, tagged with logger=<name>. Names
// without a configured level use the root level.
func (r *Registry) Logger(name string) *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}
	level, ok := r.levels[name]
	if !ok {
		level = r.root
	}
	l := slog.New(&levelHandler{next: r.handler, level: level}).With("logger", name)
	r.loggers[name] = l
	return l
}

// Close closes file outputs.
func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}

func newHandler(format string, w io.Writer, level slog.Level) slog.Handler {
	if format == "verbose" {
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && a.Key == slog.TimeKey {
					return slog.String(slog.TimeKey, a.Value.Time().Format(verboseTimeLayout))
				}
				return a
			},
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// levelHandler drops records below level before they reach next.
type levelHandler struct {
	next  slog.Handler
	level slog.Level
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level && h.next.Enabled(ctx, l)
}

func (h *levelHandler) Handle(ctx context.Context, rec slog.Record) error {
	return h.next.Handle(ctx, rec)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{next: h.next.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{next: h.next.WithGroup(name), level: h.level}
}

// requestIDHandler adds the chi request ID to records logged with a
// request context.
type requestIDHandler struct {
	next slog.Handler
}

func (h *requestIDHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *requestIDHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id := chimiddleware.GetReqID(ctx); id != "" {
		rec.AddAttrs(slog.String("request_id", id))
	}
	return h.next.Handle(ctx, rec)
}

func (h *requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestIDHandler{next: h.next.WithAttrs(attrs)}
}

func (h *requestIDHandler) WithGroup(name string) slog.Handler {
	return &requestIDHandler{next: h.next.WithGroup(name)}
}

// fanout writes every record to all handlers that accept its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, rec.Level) {
			errs = append(errs, h.Handle(ctx, rec.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
