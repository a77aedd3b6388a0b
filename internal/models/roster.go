package models

import "time"

// RosterEntry 客户花名册条目
// 每次重建时整表替换，RetrievedAs 记录本次用哪个实体端点取到数据
type RosterEntry struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	ClientID    int64     `gorm:"not null;uniqueIndex" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	RetrievedAs string    `gorm:"size:20;not null" json:"retrieved_as"` // company/department
	RetrievedAt time.Time `json:"retrieved_at"`
	CreatedAt   time.Time `json:"-"`
}
