package progress

import (
	"sync"
	"time"
)

// 采集阶段标识
const (
	StageResolve  = "resolve"  // 解析客户实体
	StageSearch   = "search"   // 搜索工单ID
	StageEnrich   = "enrich"   // 逐工单富化
	StagePersist  = "persist"  // 落库
	StageDone     = "done"     // 采集成功
	StageFailed   = "failed"   // 采集失败
)

// Event 采集进度事件，供WebSocket推送与CLI进度条消费
type Event struct {
	RunID     string    `json:"run_id"`
	ClientID  int64     `json:"client_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Current   int       `json:"current"` // 已处理工单数
	Total     int       `json:"total"`   // 待处理工单总数
	Timestamp time.Time `json:"timestamp"`
}

// Hub 按客户ID扇出进度事件的内存集线器
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[chan Event]struct{}
}

// NewHub 创建进度集线器
func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[chan Event]struct{})}
}

// Subscribe 订阅某客户的进度事件，返回取消函数
func (h *Hub) Subscribe(clientID int64) (<-chan Event, func()) {
	ch := make(chan Event, 64)

	h.mu.Lock()
	if h.subs[clientID] == nil {
		h.subs[clientID] = make(map[chan Event]struct{})
	}
	h.subs[clientID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[clientID]; ok {
			if _, exists := set[ch]; exists {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, clientID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish 发布进度事件，慢订阅者直接丢弃，不阻塞采集
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ev.ClientID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// 全局集线器：服务端与CLI共用一套进度通道
var (
	defaultHub     *Hub
	defaultHubOnce sync.Once
)

// GetHub 获取全局进度集线器
func GetHub() *Hub {
	defaultHubOnce.Do(func() {
		defaultHub = NewHub()
	})
	return defaultHub
}
