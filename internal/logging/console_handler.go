package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiGray   = "\033[90m"
)

// runIDWidth is how much of a run id the console prints.
const runIDWidth = 8

// prettyHandler renders one line per record:
//
//	15:04:05.000 INFO  [job/component] message key=value ... error=... run=1a2b3c4d
//
// The job (or the command when no job is set) and the component move into
// the bracketed scope. Error attributes follow the other fields and the run
// id closes the line.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []field
	groups    []string
	addSource bool
	colorize  bool
}

type field struct {
	key   string
	value slog.Value
}

// lineParts is a record split into the sections of a console line.
type lineParts struct {
	command   string
	job       string
	component string
	runID     string
	fields    []field
	errors    []field
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource, colorize bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource, colorize: colorize}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	all := make([]field, 0, len(h.attrs)+record.NumAttrs())
	all = append(all, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		all = appendField(all, h.groups, attr)
		return true
	})
	parts := splitFields(all)

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var buf bytes.Buffer
	buf.Grow(96 + len(all)*24)
	buf.WriteString(formatClock(timestamp))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(record.Level))
	buf.WriteByte(' ')
	if scope := parts.scope(); scope != "" {
		buf.WriteByte('[')
		buf.WriteString(scope)
		buf.WriteString("] ")
	}

	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(msg)

	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil {
			buf.WriteString(" (")
			buf.WriteString(filepath.Base(src.File))
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(src.Line))
			buf.WriteByte(')')
		}
	}

	writeFields(&buf, parts.fields)
	writeFields(&buf, parts.errors)
	if parts.runID != "" {
		buf.WriteString(" run=")
		buf.WriteString(shortRunID(parts.runID))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, attr := range attrs {
		clone.attrs = appendField(clone.attrs, h.groups, attr)
	}
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	return &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		attrs:     append([]field(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
		addSource: h.addSource,
		colorize:  h.colorize,
	}
}

func (h *prettyHandler) levelLabel(level slog.Level) string {
	label, color := levelLabel(level)
	label = padLabel(label)
	if !h.colorize {
		return label
	}
	return color + label + ansiReset
}

func levelLabel(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return "ERROR", ansiRed
	case level >= slog.LevelWarn:
		return "WARN", ansiYellow
	case level >= slog.LevelInfo:
		return "INFO", ansiBlue
	default:
		return "DEBUG", ansiGray
	}
}

func padLabel(label string) string {
	if len(label) >= 5 {
		return label
	}
	return label + strings.Repeat(" ", 5-len(label))
}

// appendField flattens attr into dst, joining group names with dots. Groups
// opened earlier apply only to attributes added after them.
func appendField(dst []field, groups []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, child := range attr.Value.Group() {
			dst = appendField(dst, nested, child)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(append(append([]string(nil), groups...), key), ".")
	}
	return append(dst, field{key: key, value: attr.Value})
}

func splitFields(all []field) lineParts {
	var parts lineParts
	for _, f := range all {
		switch f.key {
		case FieldCommand:
			parts.command = attrString(f.value)
		case FieldJob:
			parts.job = attrString(f.value)
		case FieldComponent:
			if parts.component == "" {
				parts.component = attrString(f.value)
			}
		case FieldRunID:
			parts.runID = attrString(f.value)
		case "error", FieldErrorHint:
			parts.errors = append(parts.errors, f)
		default:
			parts.fields = append(parts.fields, f)
		}
	}
	return parts
}

func (p lineParts) scope() string {
	if p.job == "" {
		p.job = p.command
	}
	switch {
	case p.job != "" && p.component != "" && p.job != p.component:
		return p.job + "/" + p.component
	case p.job != "":
		return p.job
	default:
		return p.component
	}
}

func writeFields(buf *bytes.Buffer, fields []field) {
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.value))
	}
}

func shortRunID(id string) string {
	if len(id) <= runIDWidth {
		return id
	}
	return id[:runIDWidth]
}
