package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat samples a Meter at a fixed interval. Steps that keep growing
// with no eval span ending usually mean a term without normal form.
type Heartbeat struct {
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartHeartbeat emits a heartbeat event every interval until Stop. It
// returns nil when t is off or interval is not positive.
func StartHeartbeat(t Tracer, m *Meter, interval time.Duration) *Heartbeat {
	if t == nil || t.Level() == LevelOff || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{})}
	h.wg.Add(1)
	go h.run(t, m, interval)
	return h
}

func (h *Heartbeat) run(t Tracer, m *Meter, interval time.Duration) {
	defer h.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var beat int
	var lastSteps int64
	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			beat++
			p := m.Snapshot()
			rate := float64(p.Steps-lastSteps) / now.Sub(last).Seconds()
			lastSteps, last = p.Steps, now
			emit(t, Event{
				Kind:     KindHeartbeat,
				Scope:    ScopeDriver,
				Name:     "heartbeat",
				Detail:   fmt.Sprintf("#%d, %.0f steps/s", beat, rate),
				Progress: &p,
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the heartbeat and waits for the goroutine. Safe to call twice
// and on nil.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.wg.Wait()
}
