package logging

import "sync"

// Throttle limits how many records a key may emit per window of ticks.
// Contacts repeat every tick while a body rests against a wall, so
// per-contact logging goes through a Throttle.
type Throttle struct {
	maxPerWindow int
	window       uint64
	keys         map[uint64]*keyBudget
	mu           sync.Mutex
}

// keyBudget tracks the records left for one key in the current window
type keyBudget struct {
	remaining   int
	windowStart uint64
}

// NewThrottle allows maxPerWindow records per key in every window ticks.
func NewThrottle(maxPerWindow int, window uint64) *Throttle {
	if window == 0 {
		window = 1
	}
	return &Throttle{
		maxPerWindow: maxPerWindow,
		window:       window,
		keys:         make(map[uint64]*keyBudget),
	}
}

// Allow reports whether key may log at tick, consuming one record if so.
func (t *Throttle) Allow(key, tick uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := tick - tick%t.window
	budget, ok := t.keys[key]
	if !ok || budget.windowStart != start {
		budget = &keyBudget{remaining: t.maxPerWindow, windowStart: start}
		t.keys[key] = budget
	}

	if budget.remaining > 0 {
		budget.remaining--
		return true
	}
	return false
}

// Prune drops keys whose window ended before tick.
func (t *Throttle) Prune(tick uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := tick - tick%t.window
	for key, budget := range t.keys {
		if budget.windowStart < start {
			delete(t.keys, key)
		}
	}
}

// Forget drops the budget of key, e.g. when its entity is removed.
func (t *Throttle) Forget(key uint64) {
	t.mu.Lock()
	delete(t.keys, key)
	t.mu.Unlock()
}
