package report

import (
	"time"

	"integoreport/internal/freshservice"
	"integoreport/internal/models"
)

// SLAStats SLA达成统计
type SLAStats struct {
	Met        int `json:"met"`
	Applicable int `json:"applicable"`
}

// Percent 达成率（百分比），无适用工单时为nil而不是0
func (s SLAStats) Percent() *float64 {
	if s.Applicable == 0 {
		return nil
	}
	p := float64(s.Met) / float64(s.Applicable) * 100
	return &p
}

// SummaryStats 数据集的汇总统计
// 纯派生值：永远可由数据集重新计算，不作为数据源持久化
// 平均值类指标在无样本时为nil（未定义），调用方必须区分"无数据"与"零时长"
type SummaryStats struct {
	Total       int `json:"total"`
	OpenCount   int `json:"open_count"`
	ClosedCount int `json:"closed_count"`

	ByType     map[string]int `json:"by_type"`
	ByPriority map[string]int `json:"by_priority"`
	ByCategory map[string]int `json:"by_category"`

	ProactiveCount int `json:"proactive_count"`

	AvgResolutionSeconds    *float64 `json:"avg_resolution_seconds"`
	AvgFirstResponseSeconds *float64 `json:"avg_first_response_seconds"`

	FirstReplySLA SLAStats `json:"first_reply_sla"`
	ResolutionSLA SLAStats `json:"resolution_sla"`

	SatisfactionCount       int      `json:"satisfaction_count"`
	SatisfactionPositivePct *float64 `json:"satisfaction_positive_pct"`
}

// Summarize 从数据集派生汇总统计
// 纯函数：无I/O、不修改输入、相同输入结果恒等；空数据集合法，产出全零统计
func Summarize(doc *models.DatasetDocument) *SummaryStats {
	stats := &SummaryStats{
		ByType:     make(map[string]int),
		ByPriority: make(map[string]int),
		ByCategory: make(map[string]int),
	}

	var totalResolution float64
	var resolutionCount int
	var totalFirstResponse float64
	var firstResponseCount int
	var positiveRatings int

	for i := range doc.Tickets {
		t := &doc.Tickets[i]
		stats.Total++

		stats.ByType[orNA(t.Type)]++
		stats.ByPriority[t.PriorityText]++
		stats.ByCategory[orNA(t.Category)]++

		if isProactive(t) {
			stats.ProactiveCount++
		}

		if isClosed(t) {
			stats.ClosedCount++
		}

		sla, hasSLA := slaFor(t.PriorityText)

		if secs := resolutionSeconds(t); secs != nil {
			totalResolution += *secs
			resolutionCount++
			if hasSLA {
				stats.ResolutionSLA.Applicable++
				if *secs <= float64(sla.ResolveSeconds) {
					stats.ResolutionSLA.Met++
				}
			}
		}

		if secs := firstResponseSeconds(t); secs != nil {
			totalFirstResponse += *secs
			firstResponseCount++
			if hasSLA {
				stats.FirstReplySLA.Applicable++
				if *secs <= float64(sla.ReplySeconds) {
					stats.FirstReplySLA.Met++
				}
			}
		}

		if t.Satisfaction != nil {
			stats.SatisfactionCount++
			if t.Satisfaction.Rating >= 4 {
				positiveRatings++
			}
		}
	}

	stats.OpenCount = stats.Total - stats.ClosedCount

	if resolutionCount > 0 {
		avg := totalResolution / float64(resolutionCount)
		stats.AvgResolutionSeconds = &avg
	}
	if firstResponseCount > 0 {
		avg := totalFirstResponse / float64(firstResponseCount)
		stats.AvgFirstResponseSeconds = &avg
	}
	if stats.SatisfactionCount > 0 {
		pct := float64(positiveRatings) / float64(stats.SatisfactionCount) * 100
		stats.SatisfactionPositivePct = &pct
	}

	return stats
}

// isClosed 状态为Resolved或Closed视为关单
func isClosed(t *models.TicketRecord) bool {
	return t.Status == freshservice.StatusResolved || t.Status == freshservice.StatusClosed
}

// resolvedTime 解决时间：工单字段优先，其次嵌套统计，最后关单时间
func resolvedTime(t *models.TicketRecord) *time.Time {
	if t.ResolvedAt != nil {
		return t.ResolvedAt
	}
	if t.Stats != nil && t.Stats.ResolvedAt != nil {
		return t.Stats.ResolvedAt
	}
	if t.ClosedAt != nil {
		return t.ClosedAt
	}
	if t.Stats != nil && t.Stats.ClosedAt != nil {
		return t.Stats.ClosedAt
	}
	return nil
}

// resolutionSeconds 解决耗时（秒），创建/解决时间任一缺失或顺序颠倒时为nil
func resolutionSeconds(t *models.TicketRecord) *float64 {
	resolved := resolvedTime(t)
	if resolved == nil || t.CreatedAt.IsZero() || resolved.Before(t.CreatedAt) {
		return nil
	}
	secs := resolved.Sub(t.CreatedAt).Seconds()
	return &secs
}

// firstResponseSeconds 首次响应耗时（秒）
func firstResponseSeconds(t *models.TicketRecord) *float64 {
	if t.Stats == nil || t.Stats.FirstRespondedAt == nil {
		return nil
	}
	fr := *t.Stats.FirstRespondedAt
	if t.CreatedAt.IsZero() || fr.Before(t.CreatedAt) {
		return nil
	}
	secs := fr.Sub(t.CreatedAt).Seconds()
	return &secs
}

// isProactive 主动服务工单（自定义字段proactive_case）
func isProactive(t *models.TicketRecord) bool {
	v, ok := t.CustomFields["proactive_case"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
