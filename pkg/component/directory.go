package component

import (
	"weak"

	"github.com/duke-git/lancet/v2/maputil"
)

// directory 是按名字查找组件的补充能力：核心只保证 weak/strong 句柄的
// 传递，但一个真实系统里经常需要"给我名叫 X 的组件"而不是一路传指针。
var directory = maputil.NewConcurrentMap[string, weak.Pointer[Component]](16)

// Register 把 c 以 name 登记到包级目录里，同名登记会互相覆盖。
func Register(name string, c *Component) {
	if name == "" || c == nil {
		return
	}
	directory.Set(name, weak.Make(c))
}

// Unregister 从目录里移除 name，对不存在的名字是空操作。
func Unregister(name string) {
	directory.Delete(name)
}

// Lookup 按名字找组件。如果组件已经被回收，目录里残留的弱引用会返回 nil，
// ok 仍然是 false，调用方不需要区分"从未注册"和"已经死亡"两种情况。
func Lookup(name string) (*Component, bool) {
	wp, ok := directory.Get(name)
	if !ok {
		return nil, false
	}
	c := wp.Value()
	if c == nil {
		directory.Delete(name)
		return nil, false
	}
	return c, true
}
