package component

import (
	"bytes"
	"runtime"
	"strconv"
	"weak"

	"github.com/duke-git/lancet/v2/maputil"
)

// activeComponents 把正在运行某个组件消息循环的 goroutine 绑定到该组件，
// 是 Go 里对"线程局部存储"最接近的等价物：Go 没有导出的 goroutine 局部存储
// API，但每个 Async 组件终其一生独占一个 goroutine 来跑 loop()，因此用
// goroutine id 当 key 的表可以忠实地扮演同样的角色。
var activeComponents = maputil.NewConcurrentMap[int64, *Component](16)

// goroutineID 通过解析 runtime.Stack 总是打印在最前面的
// "goroutine N [state]:" 这一行取得当前 goroutine 的 id。
// 标准库没有公开的等价 API；这是社区里唯一可移植的做法。
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	idx := bytes.IndexByte(b, ' ')
	if idx < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(b[:idx]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func bindActiveComponent(c *Component) {
	activeComponents.Set(goroutineID(), c)
}

func unbindActiveComponent() {
	activeComponents.Delete(goroutineID())
}

// ActiveComponent 返回当前 goroutine 上正在运行的组件，如果调用方不在任何
// 组件的工作线程上则返回 nil。处理器、onEntry/onExit 钩子和定时器回调都可以
// 用它找到"我自己"，而不需要显式把组件指针一层层传下去。这是
// getActiveSharedPtr 的等价物。
func ActiveComponent() *Component {
	c, _ := activeComponents.Get(goroutineID())
	return c
}

// ActiveComponentWeak 是 ActiveComponent 的弱引用版本
// （getActiveWeakPtr 的等价物），供不想无意中延长组件生命周期的调用方使用。
// 不在组件线程上时返回的句柄其 Value() 恒为 nil。
func ActiveComponentWeak() weak.Pointer[Component] {
	c := ActiveComponent()
	if c == nil {
		return weak.Pointer[Component]{}
	}
	return weak.Make(c)
}

// GetTimerManager 返回当前活跃组件的定时器管理器，首次调用时惰性创建。
// 不在组件线程上时返回 nil。是 timerManager 的静态（非方法）等价形式。
func GetTimerManager() *TimerManager {
	c := ActiveComponent()
	if c == nil {
		return nil
	}
	return c.timerManager()
}
