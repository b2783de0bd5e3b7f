package component

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"compflow/pkg/glog"
	"compflow/pkg/lib"
	"compflow/pkg/lib/grs"
	"compflow/pkg/lib/stopper"
)

// LaunchMode 决定 Run 的消息循环跑在哪个 goroutine 上。
type LaunchMode int

const (
	// Sync 让调用 Run 的那个 goroutine 直接变成组件的工作线程，Run 会
	// 一直阻塞直到组件被 Stop。
	Sync LaunchMode = iota
	// Async 让 Run 派生一个新的专属 goroutine 跑消息循环，自身立刻返回。
	Async
)

// Component 是一个独立的消息处理单元：一个有序的收件箱、一张
// MessageType -> Handler 的分派表，以及（按需懒创建的）定时器管理器。
// 同一时刻只有一个 goroutine 在跑它的消息循环，无论是调用者自己的线程
// (Sync) 还是专门派生的线程 (Async)；处理器、onEntry/onExit 钩子和定时器
// 回调始终且只在这个线程上执行。
type Component struct {
	opts     Options
	queue    *MessageQueue
	handlers *HandlerRegistry
	stopper  stopper.Stopper

	timersOnce sync.Once
	timers     *TimerManager

	runCalled atomic.Bool
	running   atomic.Bool
	workerID  atomic.Int64
	done      chan struct{}

	onEntry Task
	onExit  Task
}

// New 创建一个尚未运行的组件，已经装好内建消息（TimeoutMessage、
// CallbackExcMsg）的处理器。
func New(opts ...Option) *Component {
	o := loadOptions(opts...)
	c := &Component{
		opts:     o,
		queue:    newMessageQueue(),
		handlers: newHandlerRegistry(),
		done:     make(chan struct{}),
	}
	c.RegisterMessageHandler(timeoutMessageType, HandlerFn(func(msg Message) {
		m := msg.(*TimeoutMessage)
		if m.Callback != nil {
			m.Callback()
		}
	}))
	c.RegisterMessageHandler(callbackExcMsgType, HandlerFn(func(msg Message) {
		m := msg.(*CallbackExcMsg)
		if m.Callback != nil {
			m.Callback()
		}
	}))
	return c
}

// Name 返回组件的名称。
func (c *Component) Name() string { return c.opts.name }

// OnEntry 注册一个在消息循环开始之前、第一条消息被处理之前调用一次的钩子。
// 必须在 Run 之前调用。
func (c *Component) OnEntry(fn Task) { c.onEntry = fn }

// OnExit 注册一个在队列排空、消息循环即将退出之前调用一次的钩子。
// 必须在 Run 之前调用。
func (c *Component) OnExit(fn Task) { c.onExit = fn }

// RegisterMessageHandler 为 typ 安装处理器，替换任何既有的注册。
// 可以在 Run 之前或者组件自己的线程上随时调用；从组件之外的线程在
// 运行期调用是允许的，但新注册的可见时间点不做保证先于正在处理中的消息。
func (c *Component) RegisterMessageHandler(typ MessageType, h Handler) {
	c.handlers.Register(typ, h)
}

// PostMessage 把 msg 投递到组件的收件箱，可以从任何 goroutine 调用，
// 包括组件自己的线程（用于自投递）。组件已经 Stop 之后返回 ErrQueueClosed；
// msg 为 nil 是程序员错误，记录日志后返回 ErrMessageIsNil。
func (c *Component) PostMessage(msg Message) error {
	return c.queue.Push(msg)
}

// Call 把 fn 封送到组件自己的线程上执行并同步等待其返回值，是 PostMessage
// 单纯投递之外的补充：用于"调用组件、取得结果"这种请求/响应场景。
// timeout 到期仍未被处理会返回 ErrWaiterTimeout；此时 fn 可能仍会在之后
// 的某个时刻于组件线程上执行完毕，调用方应当把这种情况当作"结果已经不重要了"。
func (c *Component) Call(timeout time.Duration, fn func() interface{}) (interface{}, error) {
	w := lib.NewChanWaiter[interface{}](timeout)
	if err := c.PostMessage(&CallbackExcMsg{Callback: func() {
		w.Done(fn())
	}}); err != nil {
		return nil, err
	}
	return w.Wait()
}

// timerManager 返回该组件的定时器管理器，首次调用时惰性创建。
func (c *Component) timerManager() *TimerManager {
	c.timersOnce.Do(func() {
		c.timers = NewTimerManager()
	})
	return c.timers
}

// GetTimerManager 是 timerManager 的导出入口，供组件外部代码（比如测试）
// 直接在该组件上安排定时器，不需要先把自己放到该组件的线程上。
func (c *Component) GetTimerManager() *TimerManager {
	return c.timerManager()
}

// Run 启动消息循环。Sync 模式下会阻塞直到 Stop 排空队列；Async 模式下
// 派生专属 goroutine 后立即返回，但保证在返回之前该 goroutine 已经绑定好
// ActiveComponent，这样紧接着的 Stop 调用永远能观察到一个已经启动的工作线程。
// 对同一个组件重复调用 Run 返回 ErrAlreadyRunning。
func (c *Component) Run(mode LaunchMode) error {
	if !c.runCalled.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	c.running.Store(true)

	if c.opts.register {
		Register(c.opts.name, c)
	}

	if mode == Sync {
		c.workerID.Store(goroutineID())
		bindActiveComponent(c)
		c.loop()
		return nil
	}

	started := make(chan struct{})
	go func() {
		c.workerID.Store(goroutineID())
		bindActiveComponent(c)
		close(started)
		c.loop()
	}()
	<-started
	return nil
}

func (c *Component) loop() {
	// Deferred in this order so they run in the reverse order at exit:
	// running.Store(false) and unbindActiveComponent must both complete
	// before close(c.done) wakes any goroutine blocked in Stop, otherwise
	// Stop could return while IsRunning still reports true or the worker's
	// active-component binding is still live.
	defer close(c.done)
	defer unbindActiveComponent()
	defer c.running.Store(false)

	if c.onEntry != nil {
		grs.Try(c.onEntry, c.hookPanicHandler("onEntry"))
	}

	for {
		msg, ok := c.queue.Wait()
		if !ok {
			break
		}
		if msg == nil {
			glog.Warn(ErrMessageIsNil.Error(), zap.String("component", c.opts.name))
			continue
		}
		c.dispatch(msg)
	}

	if c.onExit != nil {
		grs.Try(c.onExit, c.hookPanicHandler("onExit"))
	}

	if c.timers != nil {
		c.timers.StopAll()
	}

	if c.opts.register {
		Unregister(c.opts.name)
	}
}

func (c *Component) dispatch(msg Message) {
	typ := MessageTypeOf(msg)
	h, ok := c.handlers.Lookup(typ)
	if !ok {
		glog.Warn("component: no handler registered", zap.String("component", c.opts.name), zap.String("type", typ.String()))
		return
	}
	grs.Try(func() {
		h.HandleMessage(msg)
	}, func(r any) {
		glog.Error(ErrHandlerPanic(typ, r).Error(),
			zap.String("component", c.opts.name),
			zap.String("stack", string(debug.Stack())),
		)
	})
}

func (c *Component) hookPanicHandler(hook string) func(any) {
	return func(r any) {
		glog.Error("component: hook panicked",
			zap.String("component", c.opts.name),
			zap.String("hook", hook),
			zap.Any("recovered", r),
			zap.String("stack", string(debug.Stack())),
		)
	}
}

// IsRunning 报告组件的消息循环当前是否在跑。
func (c *Component) IsRunning() bool {
	return c.running.Load()
}

// Stop 关闭收件箱，使消息循环在排空已入队消息后退出。关闭队列只做一次
// （由 CAS 赢家负责；定时器管理器由消息循环在排空退出时停止），但每一个从组件自己工作线程之外调用
// Stop 的 goroutine 都必须阻塞直到工作线程彻底退出（已被 join）——哪怕
// 它不是第一个调用 Stop 的——否则并发调用者会在循环还在排空时就提前返回。
// 如果调用方恰好就是组件自己的工作线程（比如某个处理器里调用了 Stop 来
// 自停），Stop 只关闭队列就返回，不会自己等待自己退出——那会死锁。
func (c *Component) Stop() error {
	if c.stopper.Stop() {
		c.queue.Close()
	}

	if !c.runCalled.Load() {
		return nil
	}
	if goroutineID() == c.workerID.Load() {
		return nil
	}
	<-c.done
	return nil
}
