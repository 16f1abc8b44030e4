// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ContextHandler copies request-scoped values (request id, client address,
// route, timing) from the context into every record passing through.
type ContextHandler struct {
	handler slog.Handler
	keys    []ContextKey
}

// NewContextHandler creates a handler that enriches records with the
// request metadata the HTTP middleware stores on the context.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		handler: handler,
		keys:    defaultContextKeys(),
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := extractContextAttrs(ctx, h.keys)
	if len(attrs) == 0 {
		return h.handler.Handle(ctx, record)
	}

	enriched := record.Clone()
	enriched.AddAttrs(attrs...)
	return h.handler.Handle(ctx, enriched)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		handler: h.handler.WithAttrs(attrs),
		keys:    h.keys,
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{
		handler: h.handler.WithGroup(name),
		keys:    h.keys,
	}
}

// SamplingHandler drops a share of debug and info records. Snapshot
// saves log one line per reconciled collection, which adds up on busy
// counting nights; warnings and errors always pass.
type SamplingHandler struct {
	handler slog.Handler
	rate    float64
	mu      sync.Mutex
	rng     *rand.Rand
}

// NewSamplingHandler creates a handler that keeps roughly rate (0..1)
// of low-severity records.
func NewSamplingHandler(handler slog.Handler, rate float64) *SamplingHandler {
	return &SamplingHandler{
		handler: handler,
		rate:    rate,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *SamplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelWarn {
		return h.handler.Enabled(ctx, level)
	}

	h.mu.Lock()
	keep := h.rng.Float64() < h.rate
	h.mu.Unlock()

	return keep && h.handler.Enabled(ctx, level)
}

func (h *SamplingHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.Float64("sample_rate", h.rate))
	return h.handler.Handle(ctx, record)
}

func (h *SamplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SamplingHandler{
		handler: h.handler.WithAttrs(attrs),
		rate:    h.rate,
		rng:     h.rng,
	}
}

func (h *SamplingHandler) WithGroup(name string) slog.Handler {
	return &SamplingHandler{
		handler: h.handler.WithGroup(name),
		rate:    h.rate,
		rng:     h.rng,
	}
}

const redacted = "[redacted]"

// SanitizationHandler masks credentials before records reach any sink.
// The sensitive values this service handles are connection material:
// the Postgres and Redis passwords from the environment or Secrets
// Manager, AWS keys, and full DSNs that embed a password.
type SanitizationHandler struct {
	handler       slog.Handler
	assignPattern *regexp.Regexp
	dsnPattern    *regexp.Regexp
	secretKeys    []string
}

// NewSanitizationHandler creates a handler that redacts credential
// attributes and masks passwords embedded in messages.
func NewSanitizationHandler(handler slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{
		handler: handler,
		// key=value credential assignments in free-form messages
		assignPattern: regexp.MustCompile(`(?i)(password|pwd|secret|token|api[-_]?key|access[-_]?key)\s*[:=]\s*["']?([^"'\s]+)`),
		// userinfo passwords in postgres:// and redis:// DSNs
		dsnPattern: regexp.MustCompile(`(?i)((?:postgres(?:ql)?|redis)://[^:/\s]+):([^@\s]+)@`),
		secretKeys: []string{
			"password", "pwd", "secret", "token",
			"api_key", "access_key", "dsn", "authorization",
		},
	}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.redactString(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, clean)
}

func (h *SanitizationHandler) redactAttr(attr slog.Attr) slog.Attr {
	lowerKey := strings.ToLower(attr.Key)
	for _, secret := range h.secretKeys {
		if strings.Contains(lowerKey, secret) {
			attr.Value = slog.StringValue(redacted)
			return attr
		}
	}

	if s, ok := attr.Value.Any().(string); ok {
		attr.Value = slog.StringValue(h.redactString(s))
	}

	return attr
}

func (h *SanitizationHandler) redactString(s string) string {
	s = h.assignPattern.ReplaceAllString(s, "$1="+redacted)
	s = h.dsnPattern.ReplaceAllString(s, "$1:"+redacted+"@")
	return s
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SanitizationHandler{
		handler:       h.handler.WithAttrs(attrs),
		assignPattern: h.assignPattern,
		dsnPattern:    h.dsnPattern,
		secretKeys:    h.secretKeys,
	}
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return &SanitizationHandler{
		handler:       h.handler.WithGroup(name),
		assignPattern: h.assignPattern,
		dsnPattern:    h.dsnPattern,
		secretKeys:    h.secretKeys,
	}
}

// PrettyTextHandler renders colored single-line output for local
// development. JSON stays the format everywhere else.
type PrettyTextHandler struct {
	*slog.TextHandler
	mu sync.Mutex
	w  io.Writer
}

// NewPrettyTextHandler creates a pretty text handler.
func NewPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyTextHandler {
	return &PrettyTextHandler{
		TextHandler: slog.NewTextHandler(w, opts),
		w:           w,
	}
}

const colorReset = "\033[0m"

func (h *PrettyTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s %-7s%s %s",
		levelColor(r.Level),
		r.Time.Format("15:04:05.000"),
		strings.ToUpper(r.Level.String()),
		colorReset,
		r.Message,
	)

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " \033[36m%s=%v%s", a.Key, a.Value, colorReset)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\033[31m"
	case level >= slog.LevelWarn:
		return "\033[33m"
	case level >= slog.LevelInfo:
		return "\033[34m"
	default:
		return "\033[37m"
	}
}
