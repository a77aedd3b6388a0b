package report

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration 把秒数格式化为"1d 2h 3m"形式，负数为N/A，不足一分钟为"< 1m"
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		return "N/A"
	}
	total := int64(seconds)
	if total == 0 {
		return "0m"
	}

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "< 1m"
	}
	return strings.Join(parts, " ")
}

// FormatDurationPtr 指针版本，nil表示无数据
func FormatDurationPtr(seconds *float64) string {
	if seconds == nil {
		return "N/A"
	}
	return FormatDuration(*seconds)
}

// FormatPercentPtr 百分比格式化，nil表示无适用样本
func FormatPercentPtr(pct *float64) string {
	if pct == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *pct)
}

// formatDatetime 报告中的时间展示格式
func formatDatetime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// truncate 截断长文本，超出部分以省略号收尾
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// SatisfactionEmoji 满意度评分的表情展示
func SatisfactionEmoji(rating int) string {
	switch {
	case rating >= 5:
		return "😀"
	case rating == 4:
		return "🙂"
	case rating == 3:
		return "😐"
	case rating == 2:
		return "🙁"
	default:
		return "😠"
	}
}
