package component

import "reflect"

// MessageType 是进程内稳定、可比较的消息身份标识。
// 同一具体消息变体的所有实例共享同一个 MessageType，底层是一个
// 包限定的类型名字符串，因此可安全作为 map 的 key 使用。
type MessageType struct {
	name string
}

func (t MessageType) String() string {
	return t.name
}

// IsZero 报告该 MessageType 是否未被赋值（即零值）
func (t MessageType) IsZero() bool {
	return t.name == ""
}

// Message 是所有消息变体都要实现的接口：暴露自身的类型身份。
// Message 一旦投递到队列即被视为不可变：生产者创建、队列持有一个强引用、
// 处理器收到一个强引用，处理器返回后生命周期结束。
type Message interface {
	MessageType() MessageType
}

// MessageTypeOf 是 idof(messageInstance)：从一个活的消息实例取得其类型身份。
func MessageTypeOf(msg Message) MessageType {
	if msg == nil {
		return MessageType{}
	}
	return msg.MessageType()
}

// MessageTypeFor 是 idof<ConcreteType>()：不需要构造实例即可取得某个具体
// 消息类型 T 的身份，供消息变体在包初始化时计算自己的静态描述符。
//
//	var PingType = component.MessageTypeFor[*Ping]()
//	func (p *Ping) MessageType() component.MessageType { return PingType }
func MessageTypeFor[T any]() MessageType {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return MessageType{name: t.PkgPath() + "." + t.Name()}
}

// Task 是可以投递到组件并在其线程上执行的任意回调，常用于
// "在组件 X 上执行这段代码" 的场景。
type Task func()

// TimeoutMessage 将一次定时器到期封送到组件线程上的内建消息。
// 其默认处理器调用 Callback()。
type TimeoutMessage struct {
	TimerID  int64
	Callback Task
}

var timeoutMessageType = MessageTypeFor[*TimeoutMessage]()

func (m *TimeoutMessage) MessageType() MessageType { return timeoutMessageType }

// CallbackExcMsg 将任意可调用对象封送到组件线程上的内建消息。
// 其默认处理器调用 Callback()，是 "在组件 X 上执行" 模式的通用载体。
type CallbackExcMsg struct {
	Callback Task
}

var callbackExcMsgType = MessageTypeFor[*CallbackExcMsg]()

func (m *CallbackExcMsg) MessageType() MessageType { return callbackExcMsgType }
