package trace

import "time"

// Kind says what an Event marks.
type Kind uint8

const (
	KindBegin     Kind = iota + 1 // span opened
	KindEnd                       // span closed
	KindStep                      // one beta reduction
	KindHeartbeat                 // periodic progress sample
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindStep:
		return "step"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope orders events from coarse to fine.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command, heartbeats
	ScopePass                    // lex, parse, eval
	ScopeFile                    // one input of a batch
	ScopeStep                    // single beta step
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeStep:
		return "step"
	default:
		return "unknown"
	}
}

// Redex describes the beta step behind a KindStep event.
type Redex struct {
	Step   int    // номер шага внутри одного вычисления, с 1
	Binder string // параметр сработавшей функции
	Depth  int    // глубина стека продолжений в момент шага
}

// Progress is a snapshot of reduction work, attached to eval span ends and
// heartbeats.
type Progress struct {
	Steps    int64 `json:"steps"`
	MaxStack int64 `json:"max_stack"`
	Captures int64 `json:"captures,omitempty"`
	Active   int64 `json:"active,omitempty"` // вычисления в работе, только у heartbeat
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "lex", "parse", "eval", "file:prog.lc", "beta", "heartbeat"
	Detail   string
	Redex    *Redex    // только KindStep
	Progress *Progress // конец eval и heartbeat
}
