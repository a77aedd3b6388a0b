package models

import "time"

// 采集运行状态
const (
	PullStatusSuccess = "success"
	PullStatusFailed  = "failed"
)

// PullLog 采集运行日志，每次采集一条
type PullLog struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RunID    string `gorm:"size:36;not null;uniqueIndex" json:"run_id"`
	ClientID int64  `gorm:"not null;index" json:"client_id"`

	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int       `json:"duration"` // 耗时(秒)

	// 采集结果
	Status             string `gorm:"size:20;not null" json:"status"` // success/failed
	PagesFetched       int    `json:"pages_fetched"`                  // 工单搜索翻页数
	TicketsFetched     int    `json:"tickets_fetched"`                // 采集的工单数
	TicketsSkipped     int    `json:"tickets_skipped"`                // 窗口外被剔除的工单数
	ConversationsCount int    `json:"conversations_count"`
	TimeEntriesCount   int    `json:"time_entries_count"`
	RatingsCount       int    `json:"ratings_count"`

	ErrorMessage string `gorm:"type:text" json:"error_message"`

	CreatedAt time.Time `json:"created_at"`
}
