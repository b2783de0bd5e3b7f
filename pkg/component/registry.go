package component

import (
	"github.com/duke-git/lancet/v2/maputil"
)

// HandlerFn 是处理器的函数形式：收到消息后在组件线程上被调用一次。
// HandlerFn 实现了 Handler，因此任何期望 Handler 的地方都可以直接传一个函数，
// 这与标准库 http.HandlerFunc 对 http.Handler 的适配方式相同。
type HandlerFn func(msg Message)

func (f HandlerFn) HandleMessage(msg Message) { f(msg) }

// Handler 是处理器的对象形式：实现单一方法的"处理能力"。
type Handler interface {
	HandleMessage(msg Message)
}

// HandlerRegistry 是 MessageType -> Handler 的映射表。
// 键唯一，后注册者覆盖先注册者；可从任意 goroutine 写入，只在组件循环内读取。
type HandlerRegistry struct {
	handlers *maputil.ConcurrentMap[MessageType, Handler]
}

func newHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: maputil.NewConcurrentMap[MessageType, Handler](16),
	}
}

// Register 安装或替换 typ 的处理器。h 为空时是空操作。
func (r *HandlerRegistry) Register(typ MessageType, h Handler) {
	if h == nil {
		return
	}
	r.handlers.Set(typ, h)
}

// Lookup 返回 typ 当前处理器的一份拷贝（接口值本身就是拷贝），
// 调用方可以在释放锁之后再调用它，避免处理器执行期间阻塞重新注册。
func (r *HandlerRegistry) Lookup(typ MessageType) (Handler, bool) {
	return r.handlers.Get(typ)
}
