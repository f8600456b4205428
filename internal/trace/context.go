package trace

import "context"

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
	meterKey
)

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithSpan makes s the parent of spans begun from the returned context.
// A nil span leaves ctx unchanged.
func WithSpan(ctx context.Context, s *Span) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, spanKey, s.id)
}

// CurrentSpan returns the id of the enclosing span, 0 at the root.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey).(uint64); ok {
			return id
		}
	}
	return 0
}

// WithMeter lets evaluations under ctx report their progress to m.
func WithMeter(ctx context.Context, m *Meter) context.Context {
	return context.WithValue(ctx, meterKey, m)
}

// MeterFromContext returns the meter in ctx or nil.
func MeterFromContext(ctx context.Context) *Meter {
	if ctx != nil {
		if m, ok := ctx.Value(meterKey).(*Meter); ok {
			return m
		}
	}
	return nil
}
