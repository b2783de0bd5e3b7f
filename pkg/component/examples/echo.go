// Package examples contains small, runnable message variants used by the
// component package's own tests and by cmd/compflow-demo. They are not
// part of the core: the core never imports this package.
package examples

import (
	"github.com/vmihailenco/msgpack/v5"

	"compflow/pkg/component"
)

// Ping is the simplest possible message: no payload, just an identity.
type Ping struct{}

var pingType = component.MessageTypeFor[*Ping]()

func (p *Ping) MessageType() component.MessageType { return pingType }

// Boom is a message whose handler is expected to panic, used to exercise
// the loop's catch-all recovery.
type Boom struct{}

var boomType = component.MessageTypeFor[*Boom]()

func (b *Boom) MessageType() component.MessageType { return boomType }

// Mystery has no handler registered anywhere on purpose, to exercise the
// "missing handler" warning path.
type Mystery struct{}

var mysteryType = component.MessageTypeFor[*Mystery]()

func (m *Mystery) MessageType() component.MessageType { return mysteryType }

// Forward carries a target component so a handler on one component can
// post onward to another, crossing component boundaries.
type Forward struct {
	To *component.Component
}

var forwardType = component.MessageTypeFor[*Forward]()

func (f *Forward) MessageType() component.MessageType { return forwardType }

// EchoPayload is a message-carrying payload meant to demonstrate that a
// Message variant's data can be serialized for crossing a transport the
// core knows nothing about (a named pipe, a socket, anything); the core
// itself never serializes anything.
type EchoPayload struct {
	Text string `msgpack:"text"`
	Seq  int64  `msgpack:"seq"`
}

// Echo wraps an EchoPayload as a Message.
type Echo struct {
	Payload EchoPayload
}

var echoType = component.MessageTypeFor[*Echo]()

func (e *Echo) MessageType() component.MessageType { return echoType }

// EncodeEcho packs an EchoPayload with msgpack, for handing to whatever
// transport moves it off this process.
func EncodeEcho(p EchoPayload) ([]byte, error) {
	return msgpack.Marshal(p)
}

// DecodeEcho is the inverse of EncodeEcho.
func DecodeEcho(data []byte) (EchoPayload, error) {
	var p EchoPayload
	err := msgpack.Unmarshal(data, &p)
	return p, err
}
