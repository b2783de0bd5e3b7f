package component

import (
	"errors"
	"fmt"
)

// 生命周期相关错误
var (
	// ErrQueueClosed 队列已关闭，push 被拒绝
	ErrQueueClosed = errors.New("component: message queue is closed")
	// ErrAlreadyRunning run 被重复调用
	ErrAlreadyRunning = errors.New("component: already running")
	// ErrMessageIsNil push 或弹出的消息为 nil
	ErrMessageIsNil = errors.New("component: message is nil")
)

// ErrHandlerPanic 描述一次被捕获的处理器异常，仅用于日志记录，
// 从不跨越 API 边界返回给投递者。
func ErrHandlerPanic(msgType MessageType, recovered interface{}) error {
	return fmt.Errorf("component: handler for %s panicked: %v", msgType, recovered)
}

// ErrTimerCallbackNil start 时回调为空
func ErrTimerCallbackNil() error {
	return errors.New("component: timer callback is nil")
}

// ErrTimerJobNotFound 操作一个不存在或已完成的定时器任务
func ErrTimerJobNotFound(id int64) error {
	return fmt.Errorf("component: timer job %d not found", id)
}

// ErrNoActiveComponent 在非组件线程上调用了只能在组件线程上使用的 API
var ErrNoActiveComponent = errors.New("component: no active component on this goroutine")
