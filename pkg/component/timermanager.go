package component

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/RussellLuo/timingwheel"
	"github.com/duke-git/lancet/v2/maputil"
	"github.com/panjf2000/ants/v2"

	"compflow/pkg/glog"
)

// InvalidTimerID 是"没有任务"的哨兵值，与 TimerManager.InvalidJobID() 等价。
const InvalidTimerID int64 = 0

const defaultCallbackPoolSize = 256

type timerJob struct {
	id       int64
	duration time.Duration
	cyclic   atomic.Bool
	callback func()
	wheel    *timingwheel.Timer
}

// TimerManager 是挂在单个组件上的 (duration, callback, cyclic) 调度器。
// 它拥有自己的 timing wheel 和一个有界的 goroutine 池：到期回调运行在
// 管理器自己的线程上，绝不会运行在任何组件线程上——那是 Timer 外观（façade）
// 的职责，见 timer.go。一个管理器可以被多个在同一组件上启动的 Timer 共享。
type TimerManager struct {
	wheel   *timingwheel.TimingWheel
	pool    *ants.Pool
	jobs    *maputil.ConcurrentMap[int64, *timerJob]
	nextID  atomic.Int64
	armMu   sync.Mutex // 序列化单个 job 的 re-arm，避免 restart 和到期竞争同一个 wheel timer
	stopped atomic.Bool
}

// NewTimerManager 创建一个独立的定时器管理器，内部 timing wheel 以
// 1ms 为最小精度、3600 个槽位（第一层覆盖 3.6 秒，更长的时长由溢出的上层时间轮承接）。
func NewTimerManager() *TimerManager {
	pool, _ := ants.NewPool(defaultCallbackPoolSize)
	tm := &TimerManager{
		wheel: timingwheel.NewTimingWheel(time.Millisecond, 3600),
		pool:  pool,
		jobs:  maputil.NewConcurrentMap[int64, *timerJob](16),
	}
	tm.wheel.Start()
	return tm
}

// InvalidJobID 返回"没有任务"的哨兵 id。
func (tm *TimerManager) InvalidJobID() int64 {
	return InvalidTimerID
}

// Start 注册一个新任务并返回新分配的 id。duration 为毫秒级精度的时长；
// cyclic 为真时每隔 duration 触发一次直到被停止，否则只触发一次。
func (tm *TimerManager) Start(duration time.Duration, callback func(), cyclic bool) int64 {
	if callback == nil || tm.stopped.Load() {
		return InvalidTimerID
	}
	id := tm.nextID.Add(1)
	job := &timerJob{id: id, duration: duration, callback: callback}
	job.cyclic.Store(cyclic)
	tm.jobs.Set(id, job)
	tm.arm(job)
	return id
}

func (tm *TimerManager) arm(job *timerJob) {
	job.wheel = tm.wheel.AfterFunc(job.duration, func() {
		tm.fire(job)
	})
}

// fire 在 timing wheel 的 goroutine 上被调用；真正的用户回调通过一个
// 有界 ants 池执行，避免到期风暴时无限制地派生 goroutine。
func (tm *TimerManager) fire(job *timerJob) {
	if tm.stopped.Load() {
		return
	}
	if _, ok := tm.jobs.Get(job.id); !ok {
		return // 在到期前一瞬间被 stop 掉了
	}

	cyclic := job.cyclic.Load()
	if !cyclic {
		tm.jobs.Delete(job.id)
	}

	_ = tm.pool.Submit(func() {
		defer func() { _ = recover() }()
		job.callback()
	})

	if cyclic {
		tm.armMu.Lock()
		if _, ok := tm.jobs.Get(job.id); ok && !tm.stopped.Load() {
			tm.arm(job)
		}
		tm.armMu.Unlock()
	}
}

// Stop 取消 id 对应的任务；id 无效或任务已完成时是空操作。
// 可以安全地从任务自己的回调内部调用。
func (tm *TimerManager) Stop(id int64) {
	if id == InvalidTimerID {
		return
	}
	job, ok := tm.jobs.Get(id)
	if !ok {
		glog.Debug(ErrTimerJobNotFound(id).Error())
		return
	}
	tm.jobs.Delete(id)
	tm.armMu.Lock()
	if job.wheel != nil {
		job.wheel.Stop()
	}
	tm.armMu.Unlock()
}

// Restart 用原来的 duration，从现在开始重新装配 id 对应的任务。
func (tm *TimerManager) Restart(id int64) {
	job, ok := tm.jobs.Get(id)
	if !ok {
		glog.Debug(ErrTimerJobNotFound(id).Error())
		return
	}
	tm.armMu.Lock()
	defer tm.armMu.Unlock()
	if job.wheel != nil {
		job.wheel.Stop()
	}
	tm.arm(job)
}

// SetCyclic 翻转一个已存在任务的周期性。
func (tm *TimerManager) SetCyclic(id int64, cyclic bool) {
	job, ok := tm.jobs.Get(id)
	if !ok {
		return
	}
	job.cyclic.Store(cyclic)
}

// IsRunning 报告 id 对应的任务当前是否仍在调度中。
func (tm *TimerManager) IsRunning(id int64) bool {
	if id == InvalidTimerID {
		return false
	}
	_, ok := tm.jobs.Get(id)
	return ok
}

// StopAll 终止该管理器，取消所有任务；此后对该管理器的所有操作均为空操作。
func (tm *TimerManager) StopAll() {
	if !tm.stopped.CompareAndSwap(false, true) {
		return
	}
	var ids []int64
	tm.jobs.Range(func(id int64, job *timerJob) bool {
		ids = append(ids, id)
		if job.wheel != nil {
			job.wheel.Stop()
		}
		return true
	})
	for _, id := range ids {
		tm.jobs.Delete(id)
	}
	tm.wheel.Stop()
	tm.pool.Release()
}
