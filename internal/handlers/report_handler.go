package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"integoreport/internal/freshservice"
	"integoreport/internal/models"
	"integoreport/internal/progress"
	"integoreport/internal/services"
	"integoreport/pkg/config"
	"integoreport/pkg/logger"
	"integoreport/pkg/pagination"
	"integoreport/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

func init() {
	// 注册实体类型提示的自定义校验
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("clientkind", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || s == string(models.KindCompany) || s == string(models.KindDepartment)
		})
	}
}

// ReportHandler 报告采集与查询接口
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler 创建报告处理器
func NewReportHandler() *ReportHandler {
	return &ReportHandler{reportService: services.NewReportService()}
}

// collectRequest 采集请求体，全部可选
// start/end必须成对出现，缺省时取上一个自然月
type collectRequest struct {
	Start string `json:"start" binding:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" binding:"omitempty,datetime=2006-01-02"`
	Type  string `json:"type" binding:"omitempty,clientkind"`
}

// Collect 同步执行单客户采集
// POST /api/v1/reports/:clientID/collect
func (h *ReportHandler) Collect(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	// 请求体可选；chunked请求的ContentLength为-1，统一尝试绑定，空体按缺省处理
	var req collectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	if (req.Start == "") != (req.End == "") {
		response.BadRequest(c, "start和end必须成对提供")
		return
	}

	opts := services.CollectOptions{Hint: models.ClientKind(req.Type)}
	if req.Start != "" {
		window, err := models.ParseWindow(req.Start, req.End)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		opts.Window = &window
	}

	fs, err := freshservice.New(&config.GetConfig().Freshservice)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	result, err := services.NewCollectorService(fs).Collect(clientID, opts)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	response.SuccessWithMessage(c, "采集完成", result)
}

// Summary 查询客户汇总统计
// GET /api/v1/reports/:clientID/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	stats, err := h.reportService.Summarize(clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "该客户尚未采集数据")
			return
		}
		response.ServerError(c, "统计计算失败: "+err.Error())
		return
	}
	response.Success(c, stats)
}

// HTML 渲染客户的HTML报告
// GET /api/v1/reports/:clientID/html
func (h *ReportHandler) HTML(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	html, err := h.reportService.RenderHTML(clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "该客户尚未采集数据")
			return
		}
		response.ServerError(c, "报告渲染失败: "+err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Logs 分页查询客户的采集日志
// GET /api/v1/reports/:clientID/logs
func (h *ReportHandler) Logs(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	params := pagination.ParsePageParams(c)
	logs, total, err := h.reportService.ListPullLogs(clientID, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询采集日志失败: "+err.Error())
		return
	}
	response.SuccessWithPage(c, logs, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// websocket写超时
const progressWriteWait = 10 * time.Second

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origins := config.GetConfig().CORS.AllowOrigins
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	},
}

// Progress 订阅客户采集进度的WebSocket流
// GET /api/v1/reports/:clientID/progress
// 推送到done/failed事件后关闭连接
func (h *ReportHandler) Progress(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	conn, err := progressUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Warnf("进度WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := progress.GetHub().Subscribe(clientID)
	defer cancel()

	// 读循环只为感知客户端断开
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
			if ev.Stage == progress.StageDone || ev.Stage == progress.StageFailed {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}
}
