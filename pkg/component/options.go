package component

import "github.com/google/uuid"

// Options 保存 New 的可配置项，全部有合理的默认值。
type Options struct {
	name     string
	register bool
}

// Option 以函数式选项的方式配置一个组件，沿用本仓库一贯的 WithXxx 约定。
type Option func(*Options)

// WithName 显式指定组件名称，用于日志、Lookup 和诊断。
// 未指定时会分配一个随机名字。
func WithName(name string) Option {
	return func(o *Options) { o.name = name }
}

// WithDirectoryRegistration 让组件在 Run 时自动把自己注册到包级目录，
// Stop 时自动注销，这样同进程里的其它组件可以用 Lookup 按名字找到它。
func WithDirectoryRegistration() Option {
	return func(o *Options) { o.register = true }
}

func loadOptions(opts ...Option) Options {
	o := Options{name: "component-" + uuid.NewString()[:8]}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
