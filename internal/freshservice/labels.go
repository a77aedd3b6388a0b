package freshservice

import "fmt"

// 上游状态码常量（聚合统计按这两个判定关单）
const (
	StatusOpen     = 2
	StatusPending  = 3
	StatusResolved = 4
	StatusClosed   = 5
)

// 状态码到文案的固定映射
var statusLabels = map[int]string{
	2:  "Open",
	3:  "Pending",
	4:  "Resolved",
	5:  "Closed",
	8:  "Scheduled",
	9:  "Waiting on Customer",
	10: "Waiting on Third Party",
	13: "Under Investigation",
	23: "On Hold",
	26: "Waiting on Agent",
}

// 优先级码到文案的固定映射
var priorityLabels = map[int]string{
	1: "Low",
	2: "Medium",
	3: "High",
	4: "Urgent",
}

// StatusText 状态码转文案，未知码透传原始码而不报错，新增状态码只降级不崩溃
func StatusText(code int) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Status ID %d", code)
}

// PriorityText 优先级码转文案，未知码透传原始码
func PriorityText(code int) string {
	if label, ok := priorityLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Priority ID %d", code)
}
