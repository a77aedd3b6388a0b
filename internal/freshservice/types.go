package freshservice

import (
	"fmt"
	"time"

	"integoreport/internal/models"
)

// ========== 上游响应结构 ==========

// rawEntity 公司/部门实体的原始记录
type rawEntity struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Domains       []string               `json:"domains"`
	HeadName      *string                `json:"head_name"`
	PrimeUserName *string                `json:"prime_user_name"`
	CustomFields  map[string]interface{} `json:"custom_fields"`
}

type companyEnvelope struct {
	Company *rawEntity `json:"company"`
}

type departmentEnvelope struct {
	Department *rawEntity `json:"department"`
}

type companyListEnvelope struct {
	Companies []rawEntity `json:"companies"`
}

type departmentListEnvelope struct {
	Departments []rawEntity `json:"departments"`
}

// ticketStub 工单搜索返回的摘要条目，只取ID，详情单独拉取
type ticketStub struct {
	ID int64 `json:"id"`
}

type ticketListEnvelope struct {
	Tickets []ticketStub `json:"tickets"`
}

type rawTicketStats struct {
	FirstRespondedAt *time.Time `json:"first_responded_at"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	ClosedAt         *time.Time `json:"closed_at"`
}

type rawAsset struct {
	DisplayID int64  `json:"display_id"`
	Name      string `json:"name"`
}

// rawTicket 工单详情，可选字段用指针避免缺失与零值混淆
type rawTicket struct {
	ID           int64                  `json:"id"`
	Subject      string                 `json:"subject"`
	Status       *int                   `json:"status"`
	Priority     *int                   `json:"priority"`
	Type         *string                `json:"type"`
	Category     *string                `json:"category"`
	RequesterID  *int64                 `json:"requester_id"`
	DepartmentID *int64                 `json:"department_id"`
	Assets       []rawAsset             `json:"assets"`
	Tags         []string               `json:"tags"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at"`
	ResolvedAt   *time.Time             `json:"resolved_at"`
	ClosedAt     *time.Time             `json:"closed_at"`
	Stats        *rawTicketStats        `json:"stats"`
	CustomFields map[string]interface{} `json:"custom_fields"`
}

type ticketEnvelope struct {
	Ticket *rawTicket `json:"ticket"`
}

type rawConversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
	Private   bool      `json:"private"`
}

type conversationsEnvelope struct {
	Conversations []rawConversation `json:"conversations"`
}

type rawTimeEntry struct {
	ID               int64     `json:"id"`
	AgentID          int64     `json:"agent_id"`
	CreatedAt        time.Time `json:"created_at"`
	TimeSpentSeconds int64     `json:"time_spent_seconds"`
	Billable         bool      `json:"billable"`
}

type timeEntriesEnvelope struct {
	TimeEntries []rawTimeEntry `json:"time_entries"`
}

type rawRating struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Feedback  *string   `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

type ratingsEnvelope struct {
	SatisfactionRatings []rawRating `json:"satisfaction_ratings"`
}

// ========== 转换为领域模型 ==========

func (e *rawEntity) toClientRecord(kind models.ClientKind) *models.ClientRecord {
	return &models.ClientRecord{
		ID:            e.ID,
		Name:          e.Name,
		Kind:          kind,
		CustomFields:  stringifyCustomFields(e.CustomFields),
		Domains:       e.Domains,
		HeadName:      e.HeadName,
		PrimeUserName: e.PrimeUserName,
	}
}

// stringifyCustomFields 自定义字段统一为字符串映射，nil值表示缺失直接丢弃
func stringifyCustomFields(fields map[string]interface{}) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = fmt.Sprintf("%t", val)
		case float64:
			out[k] = fmt.Sprintf("%v", val)
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

func (t *rawTicket) toTicketRecord() *models.TicketRecord {
	record := &models.TicketRecord{
		ID:           t.ID,
		Subject:      t.Subject,
		Type:         t.Type,
		Category:     t.Category,
		RequesterID:  t.RequesterID,
		DepartmentID: t.DepartmentID,
		Tags:         t.Tags,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		ResolvedAt:   t.ResolvedAt,
		ClosedAt:     t.ClosedAt,
		CustomFields: t.CustomFields,
	}

	// 状态/优先级：码与文案都保留，缺失字段映射为未知文案
	if t.Status != nil {
		record.Status = *t.Status
		record.StatusText = StatusText(*t.Status)
	} else {
		record.StatusText = "Unknown (No Status ID)"
	}
	if t.Priority != nil {
		record.Priority = *t.Priority
		record.PriorityText = PriorityText(*t.Priority)
	} else {
		record.PriorityText = "Unknown (No Priority ID)"
	}

	if t.Stats != nil {
		record.Stats = &models.TicketStats{
			FirstRespondedAt: t.Stats.FirstRespondedAt,
			ResolvedAt:       t.Stats.ResolvedAt,
			ClosedAt:         t.Stats.ClosedAt,
		}
	}

	for _, a := range t.Assets {
		record.Assets = append(record.Assets, models.Asset{DisplayID: a.DisplayID, Name: a.Name})
	}

	return record
}

func (c *rawConversation) toMessage() models.Message {
	return models.Message{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		Body:      c.Body,
		Private:   c.Private,
	}
}

func (t *rawTimeEntry) toTimeEntry() models.TimeEntry {
	return models.TimeEntry{
		ID:              t.ID,
		AgentID:         t.AgentID,
		CreatedAt:       t.CreatedAt,
		DurationSeconds: t.TimeSpentSeconds,
		Billable:        t.Billable,
	}
}

func (r *rawRating) toSatisfactionRating() *models.SatisfactionRating {
	return &models.SatisfactionRating{
		ID:        r.ID,
		Rating:    r.Rating,
		Feedback:  r.Feedback,
		CreatedAt: r.CreatedAt,
	}
}
