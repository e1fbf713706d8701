package gate

import (
	"sort"
	"sync"
)

// Tracker keeps the set of live gates for inspection.
type Tracker struct {
	mu    sync.RWMutex
	seq   uint64
	gates map[*Gate]uint64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker { return &Tracker{gates: make(map[*Gate]uint64)} }

func (t *Tracker) add(g *Gate) {
	t.mu.Lock()
	t.seq++
	t.gates[g] = t.seq
	t.mu.Unlock()
}

func (t *Tracker) remove(g *Gate) {
	t.mu.Lock()
	delete(t.gates, g)
	t.mu.Unlock()
}

// List returns the live gates in creation order.
func (t *Tracker) List() []*Gate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Gate, 0, len(t.gates))
	for g := range t.gates {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return t.gates[out[i]] < t.gates[out[j]] })
	return out
}

// Len returns the number of live gates.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.gates)
}
