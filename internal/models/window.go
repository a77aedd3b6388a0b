package models

import (
	"fmt"
	"time"
)

// DateWindow 报告时间窗口，左闭右开 [Start, End)
// 边界约定：created_at == Start 的工单包含在内，created_at == End 的排除。
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

const windowDateLayout = "2006-01-02"

// PreviousMonth 计算上一个完整自然月的窗口（UTC）
// 例如 now 为 2025-08-23 时返回 [2025-07-01, 2025-08-01)
func PreviousMonth(now time.Time) DateWindow {
	now = now.UTC()
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateWindow{
		Start: firstOfCurrent.AddDate(0, -1, 0),
		End:   firstOfCurrent,
	}
}

// ParseWindow 解析显式覆盖窗口，start为包含起始日，end为排除结束日
func ParseWindow(start, end string) (DateWindow, error) {
	s, err := time.ParseInLocation(windowDateLayout, start, time.UTC)
	if err != nil {
		return DateWindow{}, fmt.Errorf("起始日期格式错误（应为YYYY-MM-DD）: %v", err)
	}
	e, err := time.ParseInLocation(windowDateLayout, end, time.UTC)
	if err != nil {
		return DateWindow{}, fmt.Errorf("结束日期格式错误（应为YYYY-MM-DD）: %v", err)
	}
	if !e.After(s) {
		return DateWindow{}, fmt.Errorf("结束日期 %s 必须晚于起始日期 %s", end, start)
	}
	return DateWindow{Start: s, End: e}, nil
}

// Contains 判断时间是否落在窗口内
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w DateWindow) String() string {
	return fmt.Sprintf("%s ~ %s", w.Start.Format(windowDateLayout), w.End.Format(windowDateLayout))
}
