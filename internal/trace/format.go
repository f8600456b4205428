package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto   Format = iota // по расширению файла
	FormatText                 // для человека
	FormatNDJSON               // одно JSON-событие на строку
)

// ParseFormat converts a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// ResolveFormat turns FormatAuto into NDJSON for .ndjson/.jsonl paths and
// text otherwise.
func ResolveFormat(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// AppendEvent encodes ev in format and appends it, newline included, to dst.
func AppendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(dst, ev)
	}
	return appendText(dst, ev)
}

type jsonRedex struct {
	Step   int    `json:"step"`
	Binder string `json:"binder"`
	Depth  int    `json:"depth"`
}

type jsonEvent struct {
	Time     string     `json:"time"`
	Seq      uint64     `json:"seq"`
	Kind     string     `json:"kind"`
	Scope    string     `json:"scope"`
	SpanID   uint64     `json:"span_id,omitempty"`
	ParentID uint64     `json:"parent_id,omitempty"`
	Name     string     `json:"name"`
	Detail   string     `json:"detail,omitempty"`
	Redex    *jsonRedex `json:"redex,omitempty"`
	Progress *Progress  `json:"progress,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	j := jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Progress: ev.Progress,
	}
	if r := ev.Redex; r != nil {
		j.Redex = &jsonRedex{Step: r.Step, Binder: r.Binder, Depth: r.Depth}
	}
	data, err := json.Marshal(j)
	if err != nil {
		data = fmt.Appendf(nil, `{"seq":%d,"error":%q}`, ev.Seq, err.Error())
	}
	dst = append(dst, data...)
	return append(dst, '\n')
}

var kindMarks = map[Kind]string{
	KindBegin:     "→ ",
	KindEnd:       "← ",
	KindStep:      "• ",
	KindHeartbeat: "♡ ",
}

// [hh:mm:ss.micro] → eval
// [hh:mm:ss.micro]   • beta #3 \x depth=2
// [hh:mm:ss.micro] ← eval (12 steps) steps=12 max_stack=4
func appendText(dst []byte, ev *Event) []byte {
	dst = append(dst, '[')
	dst = ev.Time.AppendFormat(dst, "15:04:05.000000")
	dst = append(dst, "] "...)
	if ev.ParentID > 0 {
		dst = append(dst, "  "...)
	}
	dst = append(dst, kindMarks[ev.Kind]...)
	dst = append(dst, ev.Name...)

	if r := ev.Redex; r != nil {
		dst = append(dst, " #"...)
		dst = strconv.AppendInt(dst, int64(r.Step), 10)
		dst = append(dst, ` \`...)
		dst = append(dst, r.Binder...)
		dst = append(dst, " depth="...)
		dst = strconv.AppendInt(dst, int64(r.Depth), 10)
	}
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if p := ev.Progress; p != nil {
		dst = fmt.Appendf(dst, " steps=%d max_stack=%d", p.Steps, p.MaxStack)
		if p.Captures > 0 {
			dst = fmt.Appendf(dst, " captures=%d", p.Captures)
		}
		if ev.Kind == KindHeartbeat {
			dst = fmt.Appendf(dst, " active=%d", p.Active)
		}
	}
	return append(dst, '\n')
}
