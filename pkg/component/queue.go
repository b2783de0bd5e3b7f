package component

import (
	"sync"
	"sync/atomic"

	"compflow/pkg/lib"

	"compflow/pkg/glog"
)

type queueState int32

const (
	queueOpen queueState = iota
	queueClosed
)

// MessageQueue 是单消费者的有序 FIFO，有 Open/Closed 两种状态，Closed 是终态。
// 入队路径复用 lib.Mpsc 的无锁多生产者链表，阻塞等待和关闭信号则由一个
// 条件变量承担——Mpsc 本身没有"等待直到有数据或关闭"的原语，而这恰恰是
// 单消费者 wait() 最核心的需求，所以两者在这里分工合作。
type MessageQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	buf   *lib.Mpsc
	state atomic.Int32
}

func newMessageQueue() *MessageQueue {
	q := &MessageQueue{buf: lib.NewMpsc()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push 在队尾入队。队列已关闭时返回 ErrQueueClosed，消息被丢弃。
// msg 为 nil 是程序员错误：记录一条日志后返回 ErrMessageIsNil，同样不入队。
// 对并发 push 和单个并发 waiter 都是线程安全的。
func (q *MessageQueue) Push(msg Message) error {
	if queueState(q.state.Load()) == queueClosed {
		return ErrQueueClosed
	}
	if msg == nil {
		glog.Warn(ErrMessageIsNil.Error())
		return ErrMessageIsNil
	}
	q.buf.Push(msg)
	q.mu.Lock()
	q.cond.Signal()
	q.mu.Unlock()
	return nil
}

// Wait 阻塞直到队列中有消息（弹出队头，返回 true），
// 或者队列已关闭且已排空（返回 false）。虚假唤醒被内部吸收。
// 只应有一个消费者调用 Wait。
func (q *MessageQueue) Wait() (Message, bool) {
	q.mu.Lock()
	for {
		if v := q.buf.Pop(); v != nil {
			q.mu.Unlock()
			return v.(Message), true
		}
		if queueState(q.state.Load()) == queueClosed {
			q.mu.Unlock()
			return nil, false
		}
		q.cond.Wait()
	}
}

// Close 是幂等的：把队列从 Open 转为 Closed，唤醒所有等待者。
// 排空之后，等待者会看到 false。
func (q *MessageQueue) Close() {
	if !q.state.CompareAndSwap(int32(queueOpen), int32(queueClosed)) {
		return
	}
	q.mu.Lock()
	q.cond.Broadcast()
	q.mu.Unlock()
}
