package models

import "time"

// ClientKind 客户在上游的分组类型
type ClientKind string

const (
	KindCompany    ClientKind = "company"
	KindDepartment ClientKind = "department"
)

// ClientRecord 客户描述记录，由实体解析器抓取后不再变更
type ClientRecord struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Kind          ClientKind        `json:"kind"`
	CustomFields  map[string]string `json:"custom_fields,omitempty"`
	Domains       []string          `json:"domains,omitempty"`
	HeadName      *string           `json:"head_name,omitempty"`
	PrimeUserName *string           `json:"prime_user_name,omitempty"`
}

// TicketStats 上游随工单返回的嵌套统计
type TicketStats struct {
	FirstRespondedAt *time.Time `json:"first_responded_at,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
}

// Message 工单会话消息，按上游分页返回顺序保存，不重排
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
	Private   bool      `json:"private"`
}

// TimeEntry 工时记录
type TimeEntry struct {
	ID              int64     `json:"id"`
	AgentID         int64     `json:"agent_id"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds int64     `json:"duration_seconds"`
	Billable        bool      `json:"billable"`
}

// SatisfactionRating 满意度评价，上游404视为无评价
type SatisfactionRating struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Feedback  *string   `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset 工单关联资产
type Asset struct {
	DisplayID int64  `json:"display_id"`
	Name      string `json:"name"`
}

// TicketRecord 富化后的完整工单记录
// 上游可选字段一律用指针建模，缺失与零值不混淆
type TicketRecord struct {
	ID           int64                  `json:"id"`
	Subject      string                 `json:"subject"`
	Status       int                    `json:"status"`
	StatusText   string                 `json:"status_text"`
	Priority     int                    `json:"priority"`
	PriorityText string                 `json:"priority_text"`
	Type         *string                `json:"type,omitempty"`
	Category     *string                `json:"category,omitempty"`
	RequesterID  *int64                 `json:"requester_id,omitempty"`
	DepartmentID *int64                 `json:"department_id,omitempty"`
	Assets       []Asset                `json:"assets,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at,omitempty"`
	ResolvedAt   *time.Time             `json:"resolved_at,omitempty"`
	ClosedAt     *time.Time             `json:"closed_at,omitempty"`
	Stats        *TicketStats           `json:"stats,omitempty"`
	CustomFields map[string]interface{} `json:"custom_fields,omitempty"`

	Conversations []Message           `json:"conversations,omitempty"`
	TimeEntries   []TimeEntry         `json:"time_entries,omitempty"`
	Satisfaction  *SatisfactionRating `json:"satisfaction,omitempty"`
}

// DatasetDocument 单客户单次采集的完整数据集文档（jsonb持久化）
type DatasetDocument struct {
	Client      ClientRecord   `json:"client"`
	Window      DateWindow     `json:"window"`
	RetrievedAt time.Time      `json:"retrieved_at"`
	Tickets     []TicketRecord `json:"tickets"`
}
