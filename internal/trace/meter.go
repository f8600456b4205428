package trace

import "sync/atomic"

// Meter accumulates reduction work of every evaluation sharing it. All
// methods accept a nil receiver.
type Meter struct {
	steps    atomic.Int64
	captures atomic.Int64
	maxStack atomic.Int64
	active   atomic.Int64
}

// Enter marks the start of an evaluation.
func (m *Meter) Enter() {
	if m != nil {
		m.active.Add(1)
	}
}

// Leave marks the end of an evaluation.
func (m *Meter) Leave() {
	if m != nil {
		m.active.Add(-1)
	}
}

// Step counts one beta step taken at continuation depth with captured
// name captures.
func (m *Meter) Step(depth, captured int) {
	if m == nil {
		return
	}
	m.steps.Add(1)
	if captured > 0 {
		m.captures.Add(int64(captured))
	}
	d := int64(depth)
	for {
		cur := m.maxStack.Load()
		if d <= cur || m.maxStack.CompareAndSwap(cur, d) {
			return
		}
	}
}

// Snapshot reads the counters.
func (m *Meter) Snapshot() Progress {
	if m == nil {
		return Progress{}
	}
	return Progress{
		Steps:    m.steps.Load(),
		MaxStack: m.maxStack.Load(),
		Captures: m.captures.Load(),
		Active:   m.active.Load(),
	}
}
