package social_sdk

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

// 下行通知通道：注册后按 userID 定向推送，注销后静默丢弃。
// hub 循环只消费 register/unregister，推送方（SendToUser）始终在调用方
// goroutine 上运行，不会反向阻塞 hub。
func TestWsServerSendToUser(t *testing.T) {
	h := NewWsServer()
	go h.Run()

	c := &Client{hub: h, send: make(chan []byte, 4), UserID: 7}
	h.register <- c
	waitFor(t, func() bool { return h.OnlineCount() == 1 }, "client 未注册")

	h.SendToUser(7, []byte(`{"type":"notification"}`))
	select {
	case msg := <-c.send:
		if string(msg) != `{"type":"notification"}` {
			t.Fatalf("msg = %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("未收到定向推送")
	}

	// 其他用户收不到
	h.SendToUser(8, []byte(`x`))
	if len(c.send) != 0 {
		t.Fatal("串号推送")
	}

	h.unregister <- c
	waitFor(t, func() bool { return h.OnlineCount() == 0 }, "client 未注销")

	// 注销后推送静默丢弃，不 panic 不阻塞
	h.SendToUser(7, []byte(`y`))
}
