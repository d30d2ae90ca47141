package schedule

import "time"

type manualEntry struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// Manual is a virtual clock. Callbacks never run on their own.
type Manual struct {
	now     time.Duration
	seq     uint64
	pending []*manualEntry
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) After(d time.Duration, fn func()) func() {
	m.seq++
	e := &manualEntry{at: m.now + max(d, 0), seq: m.seq, fn: fn}
	m.pending = append(m.pending, e)
	return func() { e.cancelled = true }
}

// Now reports the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration { return m.now }

// Pending reports the number of scheduled, uncancelled callbacks.
func (m *Manual) Pending() int {
	n := 0
	for _, e := range m.pending {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// RunNext jumps to the earliest pending callback and runs it.
func (m *Manual) RunNext() bool {
	e := m.popEarliest(-1)
	if e == nil {
		return false
	}
	m.now = e.at
	e.fn()
	return true
}

// Advance moves the clock forward by d, running every callback that falls due,
// including callbacks scheduled by callbacks. It returns the number run.
func (m *Manual) Advance(d time.Duration) int {
	deadline := m.now + d
	n := 0
	for {
		e := m.popEarliest(deadline)
		if e == nil {
			break
		}
		m.now = e.at
		e.fn()
		n++
	}
	m.now = deadline
	return n
}

// RunUntilIdle runs callbacks until none are pending or limit is reached.
func (m *Manual) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && m.RunNext() {
		n++
	}
	return n
}

// popEarliest removes and returns the earliest live entry due at or before
// deadline. A negative deadline means no limit.
func (m *Manual) popEarliest(deadline time.Duration) *manualEntry {
	best := -1
	live := m.pending[:0]
	for _, e := range m.pending {
		if e.cancelled {
			continue
		}
		live = append(live, e)
	}
	m.pending = live
	for i, e := range m.pending {
		if deadline >= 0 && e.at > deadline {
			continue
		}
		if best < 0 || e.at < m.pending[best].at || (e.at == m.pending[best].at && e.seq < m.pending[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	e := m.pending[best]
	m.pending = append(m.pending[:best], m.pending[best+1:]...)
	return e
}
