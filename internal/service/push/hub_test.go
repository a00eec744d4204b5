package push

import (
	"sync"
	"testing"
)

func TestPushDeliversToRegisteredClient(t *testing.T) {
	h := NewHub("node-test", nil)
	c := &Client{send: make(chan []byte, 1), userID: "7"}
	h.clients["7"] = c

	if !h.Push("7", []byte("hello")) {
		t.Fatal("expected push to a registered client to succeed")
	}
	if got := string(<-c.send); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if h.Push("unknown", []byte("x")) {
		t.Fatal("expected push to an unknown user to be dropped")
	}
}

func TestPushSafeAgainstConcurrentDisconnect(t *testing.T) {
	h := NewHub("node-test", nil)

	// Push 与注销路径（写锁下 delete + close）并发执行不得 panic
	for i := 0; i < 5000; i++ {
		c := &Client{send: make(chan []byte, 1), userID: "7"}
		h.clients["7"] = c

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Push("7", []byte("x"))
		}()
		go func() {
			defer wg.Done()
			h.lock.Lock()
			delete(h.clients, "7")
			close(c.send)
			h.lock.Unlock()
		}()
		wg.Wait()
	}
}
