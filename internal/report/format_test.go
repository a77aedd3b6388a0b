package report

import (
	"strings"
	"testing"
	"time"

	"integoreport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{-1, "N/A"},
		{0, "0m"},
		{30, "< 1m"},
		{60, "1m"},
		{3600, "1h"},
		{3660, "1h 1m"},
		{90061, "1d 1h 1m"},
		{7 * 86400, "7d"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.seconds), "seconds=%v", c.seconds)
	}
}

func TestFormatDurationPtr(t *testing.T) {
	assert.Equal(t, "N/A", FormatDurationPtr(nil))
	v := 3600.0
	assert.Equal(t, "1h", FormatDurationPtr(&v))
}

func TestFormatPercentPtr(t *testing.T) {
	assert.Equal(t, "N/A", FormatPercentPtr(nil))
	v := 87.5
	assert.Equal(t, "87.5%", FormatPercentPtr(&v))
}

func TestFirstReplyStatus(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)

	urgent := models.TicketRecord{PriorityText: "Urgent", CreatedAt: created,
		Stats: &models.TicketStats{FirstRespondedAt: timePtr(created.Add(10 * time.Minute))}}
	assert.Equal(t, "Met", FirstReplyStatus(&urgent))

	urgent.Stats.FirstRespondedAt = timePtr(created.Add(time.Hour))
	assert.Equal(t, "Missed", FirstReplyStatus(&urgent))

	noReply := models.TicketRecord{PriorityText: "Low", CreatedAt: created}
	assert.Equal(t, "No Reply", FirstReplyStatus(&noReply))

	unknown := models.TicketRecord{PriorityText: "Priority ID 99", CreatedAt: created}
	assert.Equal(t, "N/A", FirstReplyStatus(&unknown))
}

func TestSVGPieChart(t *testing.T) {
	html := string(SVGPieChart("By Type", map[string]int{"Incident": 3, "Request": 1}))

	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "By Type")
	assert.Contains(t, html, "Incident: 3 (75.0%)")
	assert.Contains(t, html, "Request: 1 (25.0%)")
	// 计数降序排列
	assert.Less(t, strings.Index(html, "Incident"), strings.Index(html, "Request"))
}

func TestSVGPieChartEmpty(t *testing.T) {
	html := string(SVGPieChart("By Type", map[string]int{}))
	assert.Contains(t, html, "No data")
	assert.NotContains(t, html, "<svg")
}

func TestSVGPieChartSingleSlice(t *testing.T) {
	// 单切片退化为整圆
	html := string(SVGPieChart("By Type", map[string]int{"Incident": 5}))
	assert.Contains(t, html, "<circle")
	assert.Contains(t, html, "Incident: 5 (100.0%)")
}

func TestRenderProducesSelfContainedHTML(t *testing.T) {
	created := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	ticket := makeTicket(55, 5, 3, created)
	ticket.Subject = "Printer <down>"
	ticket.ResolvedAt = timePtr(created.Add(time.Hour))

	doc := &models.DatasetDocument{
		Client: models.ClientRecord{ID: 7, Name: "Acme Corp", Kind: models.KindCompany},
		Window: models.DateWindow{
			Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		Tickets: []models.TicketRecord{ticket},
	}

	html, err := Render(doc, Summarize(doc))
	require.NoError(t, err)

	assert.Contains(t, html, "Acme Corp")
	assert.Contains(t, html, "2025-07-01 ~ 2025-08-01")
	assert.Contains(t, html, "55")
	// 主题内容经过HTML转义
	assert.Contains(t, html, "Printer &lt;down&gt;")
	assert.NotContains(t, html, "Printer <down>")
	// 自包含：无外链脚本与样式
	assert.NotContains(t, html, "<script src=")
	assert.NotContains(t, html, "<link rel=")
}

func TestRenderEmptyDataset(t *testing.T) {
	doc := &models.DatasetDocument{
		Client: models.ClientRecord{ID: 7, Name: "Acme Corp"},
		Window: models.DateWindow{
			Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	html, err := Render(doc, Summarize(doc))
	require.NoError(t, err)
	assert.Contains(t, html, "No tickets in this period")
}
