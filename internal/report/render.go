package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"integoreport/internal/models"
)

// ticketRow 报告表格的单行展示数据，渲染前预先格式化
type ticketRow struct {
	ID         int64
	Subject    string
	StatusText string
	Priority   string
	Created    string
	Resolved   string
	Duration   string
	ReplySLA   string
	Rating     string
}

// renderData 模板渲染的顶层数据
type renderData struct {
	ClientName  string
	WindowLabel string
	GeneratedAt string

	Stats                *SummaryStats
	AvgResolutionText    string
	AvgFirstResponseText string
	SatisfactionText     string

	FirstReplyPie template.HTML
	ResolutionPie template.HTML
	TypePie       template.HTML
	PriorityPie   template.HTML
	CategoryPie   template.HTML

	Rows []ticketRow
}

// Render 把数据集和统计渲染为自包含的HTML报告
// 输出为单文件：样式与图表全部内联，离线可打开
func Render(doc *models.DatasetDocument, stats *SummaryStats) (string, error) {
	tickets := make([]models.TicketRecord, len(doc.Tickets))
	copy(tickets, doc.Tickets)
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID > tickets[j].ID })

	rows := make([]ticketRow, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		rating := ""
		if t.Satisfaction != nil {
			rating = SatisfactionEmoji(t.Satisfaction.Rating)
		}
		rows = append(rows, ticketRow{
			ID:         t.ID,
			Subject:    truncate(t.Subject, 60),
			StatusText: t.StatusText,
			Priority:   t.PriorityText,
			Created:    formatDatetime(&t.CreatedAt),
			Resolved:   formatDatetime(resolvedTime(t)),
			Duration:   FormatDurationPtr(resolutionSeconds(t)),
			ReplySLA:   FirstReplyStatus(t),
			Rating:     rating,
		})
	}

	satisfactionText := "N/A"
	if stats.SatisfactionPositivePct != nil {
		satisfactionText = fmt.Sprintf("%s (%d ratings)",
			FormatPercentPtr(stats.SatisfactionPositivePct), stats.SatisfactionCount)
	}

	data := renderData{
		ClientName:  doc.Client.Name,
		WindowLabel: doc.Window.String(),
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),

		Stats:                stats,
		AvgResolutionText:    FormatDurationPtr(stats.AvgResolutionSeconds),
		AvgFirstResponseText: FormatDurationPtr(stats.AvgFirstResponseSeconds),
		SatisfactionText:     satisfactionText,

		FirstReplyPie: SLAPie("First Reply SLA", stats.FirstReplySLA),
		ResolutionPie: SLAPie("Resolution SLA", stats.ResolutionSLA),
		TypePie:       SVGPieChart("By Type", stats.ByType),
		PriorityPie:   SVGPieChart("By Priority", stats.ByPriority),
		CategoryPie:   SVGPieChart("By Category", stats.ByCategory),

		Rows: rows,
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("渲染报告模板失败: %v", err)
	}
	return b.String(), nil
}

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Service Report - {{.ClientName}}</title>
<style>
  body { font-family: "Segoe UI", Arial, sans-serif; margin: 0; background: #f4f6f8; color: #2d3436; }
  .container { max-width: 1100px; margin: 0 auto; padding: 24px; }
  header { background: #273c75; color: #fff; padding: 28px 24px; }
  header h1 { margin: 0 0 4px; font-size: 24px; }
  header .period { opacity: .85; font-size: 14px; }
  .kpis { display: flex; flex-wrap: wrap; gap: 16px; margin: 24px 0; }
  .kpi { background: #fff; border-radius: 8px; padding: 16px 20px; flex: 1 1 140px;
         box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .kpi .value { font-size: 28px; font-weight: 600; }
  .kpi .label { font-size: 12px; color: #636e72; text-transform: uppercase; letter-spacing: .05em; }
  .charts { display: flex; flex-wrap: wrap; gap: 16px; margin: 24px 0; }
  .chart { background: #fff; border-radius: 8px; padding: 16px; flex: 1 1 240px;
           box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .chart-title { font-weight: 600; margin-bottom: 8px; }
  .chart-empty { color: #636e72; font-size: 13px; padding: 24px 0; }
  .legend { list-style: none; margin: 8px 0 0; padding: 0; font-size: 13px; }
  .legend li { margin: 2px 0; }
  .swatch { display: inline-block; width: 10px; height: 10px; border-radius: 2px; margin-right: 6px; }
  table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px;
          overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); font-size: 13px; }
  th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #eceff1; }
  th { background: #f0f3f7; font-size: 12px; text-transform: uppercase; letter-spacing: .05em; }
  tr:last-child td { border-bottom: none; }
  .sla-Met { color: #27ae60; font-weight: 600; }
  .sla-Missed { color: #c0392b; font-weight: 600; }
  footer { text-align: center; color: #636e72; font-size: 12px; padding: 24px 0; }
</style>
</head>
<body>
<header>
  <div class="container">
    <h1>{{.ClientName}}</h1>
    <div class="period">Service Report · {{.WindowLabel}}</div>
  </div>
</header>
<div class="container">
  <div class="kpis">
    <div class="kpi"><div class="value">{{.Stats.Total}}</div><div class="label">Total Tickets</div></div>
    <div class="kpi"><div class="value">{{.Stats.ClosedCount}}</div><div class="label">Closed</div></div>
    <div class="kpi"><div class="value">{{.Stats.OpenCount}}</div><div class="label">Open</div></div>
    <div class="kpi"><div class="value">{{.Stats.ProactiveCount}}</div><div class="label">Proactive</div></div>
    <div class="kpi"><div class="value">{{.AvgFirstResponseText}}</div><div class="label">Avg First Reply</div></div>
    <div class="kpi"><div class="value">{{.AvgResolutionText}}</div><div class="label">Avg Resolution</div></div>
    <div class="kpi"><div class="value">{{.SatisfactionText}}</div><div class="label">Satisfaction</div></div>
  </div>

  <div class="charts">
    {{.FirstReplyPie}}
    {{.ResolutionPie}}
  </div>
  <div class="charts">
    {{.TypePie}}
    {{.PriorityPie}}
    {{.CategoryPie}}
  </div>

  <h2>Tickets</h2>
  <table>
    <thead>
      <tr>
        <th>ID</th><th>Subject</th><th>Status</th><th>Priority</th>
        <th>Created</th><th>Resolved</th><th>Duration</th><th>First Reply</th><th>CSAT</th>
      </tr>
    </thead>
    <tbody>
      {{range .Rows}}
      <tr>
        <td>{{.ID}}</td>
        <td>{{.Subject}}</td>
        <td>{{.StatusText}}</td>
        <td>{{.Priority}}</td>
        <td>{{.Created}}</td>
        <td>{{.Resolved}}</td>
        <td>{{.Duration}}</td>
        <td class="sla-{{.ReplySLA}}">{{.ReplySLA}}</td>
        <td>{{.Rating}}</td>
      </tr>
      {{else}}
      <tr><td colspan="9">No tickets in this period</td></tr>
      {{end}}
    </tbody>
  </table>
</div>
<footer>Generated {{.GeneratedAt}}</footer>
</body>
</html>
`
