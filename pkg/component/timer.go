package component

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"compflow/pkg/glog"
)

// Timer is a component-facing façade over a TimerManager job. It is not
// itself bound to any component at construction: Start binds it to
// whichever component is active on the calling goroutine at that moment,
// capturing that component's TimerManager and a weak handle to the
// component itself. If Start is called with no active component, it
// silently does nothing, matching the rest of the runtime's "off the
// component thread" failure mode.
//
// Start's expiry callback runs on the TimerManager's own pool goroutine,
// not on the owning component's thread, and Stop/Running/SetCyclic must be
// safe to call from inside that callback as well as from any other
// goroutine. id and cyclic are therefore atomics rather than plain fields,
// and mgr/owner are guarded by mu instead of read through the closure's
// shared Timer pointer — Start snapshots both into local values the
// closure captures directly.
//
// Timer 持有 manager 的强引用、组件的弱引用，这样即使组件先于定时器死掉，
// manager 仍然活着足以完成取消；而定时器的存在绝不会阻止组件被回收。
type Timer struct {
	mu     sync.Mutex
	owner  weak.Pointer[Component]
	mgr    *TimerManager
	id     atomic.Int64
	cyclic atomic.Bool
}

// NewTimer creates an unbound, unstarted timer façade.
func NewTimer() *Timer {
	t := &Timer{}
	runtime.SetFinalizer(t, (*Timer).finalize)
	return t
}

func (t *Timer) finalize() {
	t.Stop()
}

// Start binds the timer to the currently active component and schedules
// callback to fire after duration. Cyclicity is whatever SetCyclic most
// recently established (one-shot by default). Any previously scheduled
// job on this façade is stopped first.
func (t *Timer) Start(duration time.Duration, callback Task) {
	if callback == nil {
		glog.Warn(ErrTimerCallbackNil().Error())
		return
	}
	c := ActiveComponent()
	if c == nil {
		glog.Warn(ErrNoActiveComponent.Error())
		return
	}
	t.Stop()

	mgr := c.timerManager()
	owner := weak.Make(c)
	cyclic := t.cyclic.Load()

	t.mu.Lock()
	t.mgr = mgr
	t.owner = owner
	t.mu.Unlock()

	id := mgr.Start(duration, func() {
		o := owner.Value()
		curID := t.id.Load()
		cyclic := t.cyclic.Load()
		if o == nil {
			if cyclic {
				mgr.Stop(curID)
			}
			t.id.Store(InvalidTimerID)
			return
		}
		_ = o.PostMessage(&TimeoutMessage{TimerID: curID, Callback: callback})
		if !cyclic {
			t.id.Store(InvalidTimerID)
		}
	}, cyclic)
	t.id.Store(id)
}

// Stop cancels the façade's current job, if any. No-op if nothing is
// scheduled. Safe to call from inside the timer's own callback.
func (t *Timer) Stop() {
	id := t.id.Load()
	if id == InvalidTimerID {
		return
	}
	t.mu.Lock()
	mgr := t.mgr
	t.mu.Unlock()
	if mgr == nil {
		return
	}
	mgr.Stop(id)
	t.id.Store(InvalidTimerID)
}

// Restart re-arms the current job with its original duration, from now.
func (t *Timer) Restart() {
	id := t.id.Load()
	if id == InvalidTimerID {
		return
	}
	t.mu.Lock()
	mgr := t.mgr
	t.mu.Unlock()
	if mgr == nil {
		return
	}
	mgr.Restart(id)
}

// SetCyclic toggles cyclicity. If a job is currently active it is
// propagated to the manager immediately; otherwise it takes effect on
// the next Start.
func (t *Timer) SetCyclic(cyclic bool) {
	t.cyclic.Store(cyclic)
	id := t.id.Load()
	if id == InvalidTimerID {
		return
	}
	t.mu.Lock()
	mgr := t.mgr
	t.mu.Unlock()
	if mgr == nil {
		return
	}
	mgr.SetCyclic(id, cyclic)
}

// Running reports whether the façade currently has a job scheduled.
func (t *Timer) Running() bool {
	t.mu.Lock()
	mgr := t.mgr
	t.mu.Unlock()
	if mgr == nil {
		return false
	}
	return mgr.IsRunning(t.id.Load())
}
