package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe(7)
	defer cancel()

	hub.Publish(Event{RunID: "r1", ClientID: 7, Stage: StageEnrich, Current: 1, Total: 3})

	select {
	case ev := <-events:
		assert.Equal(t, "r1", ev.RunID)
		assert.Equal(t, StageEnrich, ev.Stage)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("事件未送达")
	}
}

func TestHubIsolatesClients(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe(7)
	defer cancel()

	hub.Publish(Event{ClientID: 8, Stage: StageDone})

	select {
	case <-events:
		t.Fatal("收到了其他客户的事件")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe(7)

	cancel()
	// 重复取消安全
	cancel()

	_, open := <-events
	assert.False(t, open)

	// 取消后发布不会panic
	hub.Publish(Event{ClientID: 7, Stage: StageDone})
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe(7)
	defer cancel()

	// 超出缓冲容量也不阻塞发布方
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(Event{ClientID: 7, Stage: StageEnrich, Current: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("慢订阅者阻塞了发布")
	}

	// 缓冲内的事件仍可消费
	assert.NotZero(t, len(events))
}
