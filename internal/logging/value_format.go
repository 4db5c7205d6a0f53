package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

const (
	clockLayout     = "15:04:05.000"
	timestampLayout = time.RFC3339
)

func formatClock(ts time.Time) string {
	return ts.In(time.Local).Format(clockLayout)
}

// attrString returns the unquoted text of v.
func attrString(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return formatValue(v)
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(timestampLayout)
	default:
		return quote(attrString(v))
	}
}

// quote wraps s in quotes when it would not survive key=value splitting.
func quote(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r > '~' {
			return strconv.Quote(s)
		}
	}
	return s
}
