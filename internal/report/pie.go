package report

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"strings"
)

// 饼图配色，按切片顺序循环使用
var pieColors = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

type pieSlice struct {
	Label string
	Count int
}

// sortedSlices 饼图切片稳定排序：计数降序，同计数按标签升序
func sortedSlices(data map[string]int) []pieSlice {
	slices := make([]pieSlice, 0, len(data))
	for label, count := range data {
		if count > 0 {
			slices = append(slices, pieSlice{Label: label, Count: count})
		}
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}

// SVGPieChart 生成内联SVG饼图，报告内嵌展示，不依赖外部图表库
func SVGPieChart(title string, data map[string]int) template.HTML {
	slices := sortedSlices(data)

	total := 0
	for _, s := range slices {
		total += s.Count
	}

	var b strings.Builder
	b.WriteString(`<div class="chart">`)
	fmt.Fprintf(&b, `<div class="chart-title">%s</div>`, template.HTMLEscapeString(title))

	if total == 0 {
		b.WriteString(`<div class="chart-empty">No data</div></div>`)
		return template.HTML(b.String())
	}

	const (
		size   = 180.0
		cx     = 90.0
		cy     = 90.0
		radius = 80.0
	)
	fmt.Fprintf(&b, `<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`, size, size, size, size)

	if len(slices) == 1 {
		// 单切片无法画弧，退化为整圆
		fmt.Fprintf(&b, `<circle cx="%.0f" cy="%.0f" r="%.0f" fill="%s"/>`, cx, cy, radius, pieColors[0])
	} else {
		angle := -math.Pi / 2 // 从12点方向开始
		for i, s := range slices {
			frac := float64(s.Count) / float64(total)
			end := angle + frac*2*math.Pi

			x1 := cx + radius*math.Cos(angle)
			y1 := cy + radius*math.Sin(angle)
			x2 := cx + radius*math.Cos(end)
			y2 := cy + radius*math.Sin(end)
			largeArc := 0
			if frac > 0.5 {
				largeArc = 1
			}

			fmt.Fprintf(&b,
				`<path d="M%.1f,%.1f L%.1f,%.1f A%.0f,%.0f 0 %d,1 %.1f,%.1f Z" fill="%s"/>`,
				cx, cy, x1, y1, radius, radius, largeArc, x2, y2,
				pieColors[i%len(pieColors)])
			angle = end
		}
	}
	b.WriteString(`</svg>`)

	b.WriteString(`<ul class="legend">`)
	for i, s := range slices {
		pct := float64(s.Count) / float64(total) * 100
		fmt.Fprintf(&b,
			`<li><span class="swatch" style="background:%s"></span>%s: %d (%.1f%%)</li>`,
			pieColors[i%len(pieColors)],
			template.HTMLEscapeString(s.Label), s.Count, pct)
	}
	b.WriteString(`</ul></div>`)

	return template.HTML(b.String())
}

// SLAPie 用达成/未达成两段画SLA饼图
func SLAPie(title string, sla SLAStats) template.HTML {
	data := map[string]int{}
	if sla.Applicable > 0 {
		data["Met"] = sla.Met
		data["Missed"] = sla.Applicable - sla.Met
	}
	return SVGPieChart(title, data)
}
