package component

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerManagerOneShotFiresOnce(t *testing.T) {
	tm := NewTimerManager()
	defer tm.StopAll()

	var fired atomic.Int32
	done := make(chan struct{})
	tm.Start(10*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	}, false)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("one-shot job never fired")
	}

	time.Sleep(30 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired %d times, want exactly 1", got)
	}
}

func TestTimerManagerCyclicFiresRepeatedly(t *testing.T) {
	tm := NewTimerManager()
	defer tm.StopAll()

	var fired atomic.Int32
	id := tm.Start(5*time.Millisecond, func() { fired.Add(1) }, true)

	time.Sleep(60 * time.Millisecond)
	tm.Stop(id)

	if got := fired.Load(); got < 3 {
		t.Fatalf("fired only %d times in 60ms at a 5ms period", got)
	}
}

func TestTimerManagerStopIsNoopOnUnknownID(t *testing.T) {
	tm := NewTimerManager()
	defer tm.StopAll()
	tm.Stop(999) // must not panic
}

func TestTimerManagerIsRunning(t *testing.T) {
	tm := NewTimerManager()
	defer tm.StopAll()

	id := tm.Start(time.Hour, func() {}, false)
	if !tm.IsRunning(id) {
		t.Fatal("expected job to be running right after Start")
	}
	tm.Stop(id)
	if tm.IsRunning(id) {
		t.Fatal("expected job to be stopped after Stop")
	}
}

func TestTimerManagerInvalidJobID(t *testing.T) {
	tm := NewTimerManager()
	defer tm.StopAll()
	if tm.InvalidJobID() != InvalidTimerID {
		t.Fatalf("InvalidJobID() = %d, want %d", tm.InvalidJobID(), InvalidTimerID)
	}
	if tm.IsRunning(tm.InvalidJobID()) {
		t.Fatal("the invalid id must never report as running")
	}
}

func TestTimerManagerStopAllStopsFutureStarts(t *testing.T) {
	tm := NewTimerManager()
	tm.StopAll()

	id := tm.Start(time.Millisecond, func() {}, false)
	if id != InvalidTimerID {
		t.Fatalf("Start after StopAll returned %d, want InvalidTimerID", id)
	}
}

func TestTimerManagerRestartRearmsFromNow(t *testing.T) {
	tm := NewTimerManager()
	defer tm.StopAll()

	fired := make(chan struct{}, 1)
	id := tm.Start(30*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, false)

	time.Sleep(20 * time.Millisecond)
	tm.Restart(id) // pushes the deadline out by another 30ms from here

	select {
	case <-fired:
		t.Fatal("job fired before the restarted deadline")
	case <-time.After(15 * time.Millisecond):
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("job never fired after restart")
	}
}
