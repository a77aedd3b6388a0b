package report

import (
	"testing"
	"time"

	"integoreport/internal/freshservice"
	"integoreport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func makeTicket(id int64, status, priority int, created time.Time) models.TicketRecord {
	return models.TicketRecord{
		ID:           id,
		Status:       status,
		StatusText:   freshservice.StatusText(status),
		Priority:     priority,
		PriorityText: freshservice.PriorityText(priority),
		CreatedAt:    created,
	}
}

func TestSummarizeEmptyDataset(t *testing.T) {
	doc := &models.DatasetDocument{}
	stats := Summarize(doc)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.OpenCount)
	assert.Zero(t, stats.ClosedCount)
	// 分桶映射始终初始化，序列化结果稳定
	assert.NotNil(t, stats.ByType)
	assert.NotNil(t, stats.ByPriority)
	assert.NotNil(t, stats.ByCategory)
	// 无样本时平均值未定义，不是0
	assert.Nil(t, stats.AvgResolutionSeconds)
	assert.Nil(t, stats.AvgFirstResponseSeconds)
	assert.Nil(t, stats.SatisfactionPositivePct)
	assert.Nil(t, stats.FirstReplySLA.Percent())
}

func TestSummarizeEndToEnd(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)

	closed := makeTicket(1, freshservice.StatusClosed, 3, created)
	closed.Type = strPtr("Incident")
	closed.ResolvedAt = timePtr(created.Add(time.Hour))
	closed.Stats = &models.TicketStats{FirstRespondedAt: timePtr(created.Add(30 * time.Minute))}
	closed.Satisfaction = &models.SatisfactionRating{ID: 1, Rating: 5}

	open1 := makeTicket(2, freshservice.StatusOpen, 1, created)
	open1.Type = strPtr("Incident")
	open1.Satisfaction = &models.SatisfactionRating{ID: 2, Rating: 2}

	open2 := makeTicket(3, freshservice.StatusPending, 2, created)
	open2.CustomFields = map[string]interface{}{"proactive_case": true}

	doc := &models.DatasetDocument{Tickets: []models.TicketRecord{closed, open1, open2}}
	stats := Summarize(doc)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ClosedCount)
	assert.Equal(t, 2, stats.OpenCount)
	// 开单数与关单数构成全集分割
	assert.Equal(t, stats.Total, stats.OpenCount+stats.ClosedCount)

	assert.Equal(t, map[string]int{"Incident": 2, "N/A": 1}, stats.ByType)
	assert.Equal(t, map[string]int{"High": 1, "Low": 1, "Medium": 1}, stats.ByPriority)
	assert.Equal(t, 1, stats.ProactiveCount)

	require.NotNil(t, stats.AvgResolutionSeconds)
	assert.InDelta(t, 3600.0, *stats.AvgResolutionSeconds, 0.001)
	require.NotNil(t, stats.AvgFirstResponseSeconds)
	assert.InDelta(t, 1800.0, *stats.AvgFirstResponseSeconds, 0.001)

	// High优先级：响应目标2小时、解决目标14天，均达成
	assert.Equal(t, SLAStats{Met: 1, Applicable: 1}, stats.FirstReplySLA)
	assert.Equal(t, SLAStats{Met: 1, Applicable: 1}, stats.ResolutionSLA)

	assert.Equal(t, 2, stats.SatisfactionCount)
	require.NotNil(t, stats.SatisfactionPositivePct)
	assert.InDelta(t, 50.0, *stats.SatisfactionPositivePct, 0.001)
}

func TestSummarizeIsPureAndIdempotent(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	ticket := makeTicket(1, freshservice.StatusResolved, 4, created)
	ticket.ResolvedAt = timePtr(created.Add(2 * time.Hour))
	doc := &models.DatasetDocument{Tickets: []models.TicketRecord{ticket}}

	first := Summarize(doc)
	second := Summarize(doc)

	assert.Equal(t, first, second)
	// 输入未被修改
	assert.Equal(t, freshservice.StatusResolved, doc.Tickets[0].Status)
	require.NotNil(t, doc.Tickets[0].ResolvedAt)
}

func TestResolvedTimeFallbackChain(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)

	// 工单无resolved_at，取嵌套统计中的值
	ticket := makeTicket(1, freshservice.StatusClosed, 2, created)
	ticket.Stats = &models.TicketStats{ResolvedAt: timePtr(created.Add(time.Hour))}
	secs := resolutionSeconds(&ticket)
	require.NotNil(t, secs)
	assert.InDelta(t, 3600.0, *secs, 0.001)

	// 都没有时回退到关单时间
	ticket2 := makeTicket(2, freshservice.StatusClosed, 2, created)
	ticket2.ClosedAt = timePtr(created.Add(2 * time.Hour))
	secs = resolutionSeconds(&ticket2)
	require.NotNil(t, secs)
	assert.InDelta(t, 7200.0, *secs, 0.001)
}

func TestResolutionSecondsRejectsInvertedTimestamps(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	ticket := makeTicket(1, freshservice.StatusClosed, 2, created)
	ticket.ResolvedAt = timePtr(created.Add(-time.Hour))

	assert.Nil(t, resolutionSeconds(&ticket))
}

func TestSummarizeMissedSLA(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)

	// Urgent响应目标30分钟，1小时才响应算未达成
	ticket := makeTicket(1, freshservice.StatusOpen, 4, created)
	ticket.Stats = &models.TicketStats{FirstRespondedAt: timePtr(created.Add(time.Hour))}

	doc := &models.DatasetDocument{Tickets: []models.TicketRecord{ticket}}
	stats := Summarize(doc)

	assert.Equal(t, SLAStats{Met: 0, Applicable: 1}, stats.FirstReplySLA)
	require.NotNil(t, stats.FirstReplySLA.Percent())
	assert.InDelta(t, 0.0, *stats.FirstReplySLA.Percent(), 0.001)
}

func TestSummarizeUnknownPriorityExcludedFromSLA(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	ticket := makeTicket(1, freshservice.StatusClosed, 99, created)
	ticket.ResolvedAt = timePtr(created.Add(time.Hour))
	ticket.Stats = &models.TicketStats{FirstRespondedAt: timePtr(created.Add(time.Minute))}

	doc := &models.DatasetDocument{Tickets: []models.TicketRecord{ticket}}
	stats := Summarize(doc)

	// 未知优先级照常计入分桶，但不参与SLA
	assert.Equal(t, map[string]int{"Priority ID 99": 1}, stats.ByPriority)
	assert.Zero(t, stats.FirstReplySLA.Applicable)
	assert.Zero(t, stats.ResolutionSLA.Applicable)
}
