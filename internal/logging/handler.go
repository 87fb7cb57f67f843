package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colors used by Handler. A nil palette renders plain text.
type palette struct {
	time  *color.Color
	key   *color.Color
	level map[slog.Level]*color.Color
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		level: map[slog.Level]*color.Color{
			LevelTrace:      color.New(color.FgHiBlack),
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

func (p *palette) paint(c *color.Color, s string) string {
	if p == nil || c == nil {
		return s
	}
	return c.Sprint(s)
}

// Handler is a slog.Handler for terminal output: "3:04PM WARN  message k=v".
// Colors are used only when the writer supports them.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette
	prefix string // pre-rendered WithAttrs output
	groups []string
}

// NewHandler creates a terminal handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	h := &Handler{opts: *opts, out: out, mu: &sync.Mutex{}}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle renders r as a single line and writes it in one call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.colors.paint(h.colors.timeColor(), r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}

	name, bucket := levelName(r.Level)
	fmt.Fprintf(&buf, "%-5s ", h.colors.paint(h.colors.levelColor(bucket), name))
	buf.WriteString(r.Message)
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (p *palette) timeColor() *color.Color {
	if p == nil {
		return nil
	}
	return p.time
}

func (p *palette) keyColor() *color.Color {
	if p == nil {
		return nil
	}
	return p.key
}

func (p *palette) levelColor(l slog.Level) *color.Color {
	if p == nil {
		return nil
	}
	return p.level[l]
}

// levelName returns the printed name of l and the palette bucket it falls in.
func levelName(l slog.Level) (string, slog.Level) {
	switch {
	case l <= LevelTrace:
		return "TRACE", LevelTrace
	case l >= slog.LevelError:
		return l.String(), slog.LevelError
	case l >= slog.LevelWarn:
		return l.String(), slog.LevelWarn
	case l >= slog.LevelInfo:
		return l.String(), slog.LevelInfo
	default:
		return l.String(), slog.LevelDebug
	}
}

func (h *Handler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a = redactAttr(groups, a)
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, sub, ga)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	fmt.Fprintf(buf, " %s=%v", h.colors.paint(h.colors.keyColor(), key), a.Value.Any())
}

// WithAttrs returns a Handler that renders attrs on every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}
	newH := *h
	newH.prefix = h.prefix + buf.String()
	return &newH
}

// WithGroup returns a Handler whose later attribute keys are prefixed with
// name and a dot.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = append(append([]string(nil), h.groups...), name)
	return &newH
}
