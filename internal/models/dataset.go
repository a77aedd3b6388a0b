package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClientDataset 客户数据集持久化记录
// 以客户ID为键，每次成功采集整体覆盖；失败的采集不落库，上次数据保持可用
type ClientDataset struct {
	ID          uint           `gorm:"primarykey" json:"-"`
	ClientID    int64          `gorm:"not null;uniqueIndex" json:"client_id"`
	ClientName  string         `gorm:"size:200" json:"client_name"`
	FetchedAs   string         `gorm:"size:20" json:"fetched_as"` // company/department
	WindowStart time.Time      `gorm:"not null" json:"window_start"`
	WindowEnd   time.Time      `gorm:"not null" json:"window_end"`
	TicketCount int            `json:"ticket_count"`
	Document    datatypes.JSON `gorm:"type:jsonb;not null" json:"-"` // DatasetDocument
	RetrievedAt time.Time      `json:"retrieved_at"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
