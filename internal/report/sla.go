package report

import "integoreport/internal/models"

// slaDef 某优先级的SLA目标（秒）
type slaDef struct {
	ReplySeconds   int64 // 首次响应目标
	ResolveSeconds int64 // 解决目标
}

// 各优先级SLA目标表
// Urgent: 30分钟响应/7天解决；High: 2小时/14天；Medium: 3小时/21天；Low: 4小时/30天
var slaDefinitions = map[string]slaDef{
	"Urgent": {ReplySeconds: 30 * 60, ResolveSeconds: 7 * 24 * 3600},
	"High":   {ReplySeconds: 2 * 3600, ResolveSeconds: 14 * 24 * 3600},
	"Medium": {ReplySeconds: 3 * 3600, ResolveSeconds: 21 * 24 * 3600},
	"Low":    {ReplySeconds: 4 * 3600, ResolveSeconds: 30 * 24 * 3600},
}

// slaFor 按优先级文本取SLA定义，未知优先级不参与SLA统计
func slaFor(priorityText string) (slaDef, bool) {
	def, ok := slaDefinitions[priorityText]
	return def, ok
}

// FirstReplyStatus 单工单的首次响应SLA状态文本，供报告表格展示
// Met/Missed按目标判定；无响应记录为No Reply；无SLA定义为N/A
func FirstReplyStatus(t *models.TicketRecord) string {
	sla, ok := slaFor(t.PriorityText)
	if !ok {
		return "N/A"
	}
	secs := firstResponseSeconds(t)
	if secs == nil {
		return "No Reply"
	}
	if *secs <= float64(sla.ReplySeconds) {
		return "Met"
	}
	return "Missed"
}
