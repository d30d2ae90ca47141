package schedule

import (
	"testing"
	"time"
)

func TestTea_AfterQueuesCommandAndHandleRunsCallback(t *testing.T) {
	s := NewTea()
	ran := 0
	s.After(time.Millisecond, func() { ran++ })

	if s.Flush() == nil {
		t.Fatalf("expected a queued command")
	}
	if s.Flush() != nil {
		t.Fatalf("flush must drain the queue")
	}

	if !s.Handle(FireMsg{ID: 1, src: s}) {
		t.Fatalf("expected message consumed")
	}
	if ran != 1 {
		t.Fatalf("ran=%d, want 1", ran)
	}
	s.Handle(FireMsg{ID: 1, src: s})
	if ran != 1 {
		t.Fatalf("callback ran twice")
	}
}

func TestTea_CancelledTimerIsConsumedWithoutRunning(t *testing.T) {
	s := NewTea()
	ran := false
	cancel := s.After(time.Millisecond, func() { ran = true })
	cancel()

	if got := s.Pending(); got != 0 {
		t.Fatalf("pending=%d, want 0", got)
	}
	if !s.Handle(FireMsg{ID: 1, src: s}) {
		t.Fatalf("expected message consumed")
	}
	if ran {
		t.Fatalf("cancelled callback ran")
	}
}

func TestTea_IgnoresForeignMessages(t *testing.T) {
	a, b := NewTea(), NewTea()
	b.After(time.Millisecond, func() {})
	if a.Handle(FireMsg{ID: 1, src: b}) {
		t.Fatalf("scheduler consumed another scheduler's timer")
	}
	if a.Handle("not a timer") {
		t.Fatalf("scheduler consumed an unrelated message")
	}
}
