package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

func emit(t Tracer, ev Event) {
	ev.Time = time.Now()
	ev.Seq = seq.Add(1)
	t.Emit(&ev)
}

// Span is an open begin/end pair. A nil *Span is valid and does nothing,
// which is what Begin returns when the tracer filters the scope out.
type Span struct {
	tracer   Tracer
	id       uint64
	parent   uint64
	scope    Scope
	name     string
	started  time.Time
	progress *Progress
}

// Begin emits the opening event of a span under parent (0 for a root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Wants(t, scope) {
		return nil
	}
	s := &Span{tracer: t, id: spanIDs.Add(1), parent: parent, scope: scope, name: name, started: time.Now()}
	emit(t, Event{Kind: KindBegin, Scope: scope, SpanID: s.id, ParentID: parent, Name: name})
	return s
}

// WithProgress attaches reduction totals to the closing event.
func (s *Span) WithProgress(p Progress) *Span {
	if s != nil {
		s.progress = &p
	}
	return s
}

// End emits the closing event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	emit(s.tracer, Event{
		Kind: KindEnd, Scope: s.scope, SpanID: s.id, ParentID: s.parent,
		Name: s.name, Detail: detail, Progress: s.progress,
	})
	return time.Since(s.started)
}

// ID returns the span id, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Step records one fired redex under the eval span parent.
func Step(t Tracer, parent uint64, r Redex) {
	if !Wants(t, ScopeStep) {
		return
	}
	emit(t, Event{Kind: KindStep, Scope: ScopeStep, ParentID: parent, Name: "beta", Redex: &r})
}
