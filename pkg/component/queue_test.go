package component

import (
	"testing"
	"time"
)

type testMsg struct{ n int }

var testMsgType = MessageTypeFor[*testMsg]()

func (m *testMsg) MessageType() MessageType { return testMsgType }

func TestMessageQueueFIFO(t *testing.T) {
	q := newMessageQueue()
	for i := 0; i < 5; i++ {
		if err := q.Push(&testMsg{n: i}); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		msg, ok := q.Wait()
		if !ok {
			t.Fatalf("wait %d: queue reported closed early", i)
		}
		if got := msg.(*testMsg).n; got != i {
			t.Fatalf("wait %d: got %d, want %d", i, got, i)
		}
	}
}

func TestMessageQueueWaitBlocksUntilPush(t *testing.T) {
	q := newMessageQueue()
	result := make(chan Message, 1)
	go func() {
		msg, ok := q.Wait()
		if !ok {
			close(result)
			return
		}
		result <- msg
	}()

	time.Sleep(20 * time.Millisecond)
	_ = q.Push(&testMsg{n: 7})

	select {
	case msg := <-result:
		if msg.(*testMsg).n != 7 {
			t.Fatalf("got %d, want 7", msg.(*testMsg).n)
		}
	case <-time.After(time.Second):
		t.Fatal("wait never woke up after push")
	}
}

func TestMessageQueueCloseDrainsThenFalse(t *testing.T) {
	q := newMessageQueue()
	_ = q.Push(&testMsg{n: 1})
	_ = q.Push(&testMsg{n: 2})
	q.Close()

	for i := 1; i <= 2; i++ {
		msg, ok := q.Wait()
		if !ok {
			t.Fatalf("drain %d: expected a message, queue already reported closed", i)
		}
		if got := msg.(*testMsg).n; got != i {
			t.Fatalf("drain %d: got %d, want %d", i, got, i)
		}
	}
	if _, ok := q.Wait(); ok {
		t.Fatal("expected wait to report false once drained")
	}
}

func TestMessageQueuePushAfterCloseRejected(t *testing.T) {
	q := newMessageQueue()
	q.Close()
	if err := q.Push(&testMsg{n: 1}); err != ErrQueueClosed {
		t.Fatalf("got %v, want ErrQueueClosed", err)
	}
}

func TestMessageQueueCloseIsIdempotent(t *testing.T) {
	q := newMessageQueue()
	q.Close()
	q.Close() // must not panic or double-broadcast into a bad state
	if _, ok := q.Wait(); ok {
		t.Fatal("expected wait to report false on a closed, empty queue")
	}
}

func TestMessageQueuePushNilRejected(t *testing.T) {
	q := newMessageQueue()
	if err := q.Push(nil); err != ErrMessageIsNil {
		t.Fatalf("got %v, want ErrMessageIsNil", err)
	}
	if v := q.buf.Pop(); v != nil {
		t.Fatal("a nil message must never reach the underlying buffer")
	}
}
