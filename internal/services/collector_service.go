package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"integoreport/internal/database"
	"integoreport/internal/freshservice"
	"integoreport/internal/models"
	"integoreport/internal/progress"
	"integoreport/pkg/config"
	"integoreport/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectorService 单客户数据采集服务
// 采集要么完整成功并整体覆盖数据集，要么完全不落库，不存在半成品数据
type CollectorService struct {
	db  *gorm.DB
	fs  *freshservice.Client
	hub *progress.Hub
}

// NewCollectorService 创建采集服务
func NewCollectorService(fs *freshservice.Client) *CollectorService {
	return &CollectorService{
		db:  database.GetDB(),
		fs:  fs,
		hub: progress.GetHub(),
	}
}

// CollectOptions 采集可选参数
type CollectOptions struct {
	Hint   models.ClientKind  // 实体类型提示，空则公司优先探测
	Window *models.DateWindow // 覆盖窗口，空则取上一个自然月
}

// CollectResult 单次采集结果摘要
type CollectResult struct {
	RunID       string             `json:"run_id"`
	Client      models.ClientRecord `json:"client"`
	Window      models.DateWindow  `json:"window"`
	TicketCount int                `json:"ticket_count"`
	Skipped     int                `json:"skipped"`
	DurationSec int                `json:"duration_sec"`
}

// Collect 执行单客户采集：解析实体、搜索工单、逐单富化、整体落库
// 任何一步失败都不写数据集，只记一条失败的采集日志
func (c *CollectorService) Collect(clientID int64, opts CollectOptions) (*CollectResult, error) {
	runID := uuid.New().String()
	log := logger.WithRun(runID)

	window := models.PreviousMonth(time.Now())
	if opts.Window != nil {
		window = *opts.Window
	}

	start := time.Now()
	pullLog := &models.PullLog{
		RunID:       runID,
		ClientID:    clientID,
		WindowStart: window.Start,
		WindowEnd:   window.End,
		StartTime:   start,
		Status:      models.PullStatusFailed,
	}

	log.Infof("开始采集客户 %d，窗口 %s", clientID, window)

	fail := func(stage string, err error) (*CollectResult, error) {
		log.Errorf("采集客户 %d 失败（%s）: %v", clientID, stage, err)
		pullLog.ErrorMessage = err.Error()
		c.finishLog(pullLog, start)
		c.publish(runID, clientID, progress.StageFailed, err.Error(), 0, 0)
		return nil, err
	}

	// 阶段1：解析客户实体
	c.publish(runID, clientID, progress.StageResolve, "解析客户实体", 0, 0)
	record, err := c.fs.ResolveClient(clientID, opts.Hint)
	if err != nil {
		return fail(progress.StageResolve, err)
	}
	log.Infof("客户 %d 解析为 %s: %s", clientID, record.Kind, record.Name)

	// 阶段2：搜索窗口内工单ID
	c.publish(runID, clientID, progress.StageSearch, "搜索工单", 0, 0)
	ids, pages, err := c.fs.SearchTicketIDs(clientID, window)
	if err != nil {
		return fail(progress.StageSearch, err)
	}
	pullLog.PagesFetched = pages
	log.Infof("窗口内共 %d 个工单（%d 页）", len(ids), pages)

	// 阶段3：逐工单富化
	tickets := make([]models.TicketRecord, 0, len(ids))
	skipped := 0
	for i, ticketID := range ids {
		if i > 0 && c.fs.TicketDelay() > 0 {
			time.Sleep(c.fs.TicketDelay())
		}

		detail, err := c.fs.GetTicketDetail(ticketID)
		if err != nil {
			return fail(progress.StageEnrich, err)
		}

		// 搜索结果可能混入窗口边缘之外的工单，以详情中的创建时间为准剔除
		if !window.Contains(detail.CreatedAt) {
			log.Warnf("工单 %d 创建时间 %s 不在窗口内，剔除", ticketID, detail.CreatedAt.Format(time.RFC3339))
			skipped++
			continue
		}

		conversations, err := c.fs.GetConversations(ticketID)
		if err != nil {
			return fail(progress.StageEnrich, err)
		}
		entries, err := c.fs.GetTimeEntries(ticketID)
		if err != nil {
			return fail(progress.StageEnrich, err)
		}
		rating, err := c.fs.GetSatisfactionRating(ticketID)
		if err != nil {
			return fail(progress.StageEnrich, err)
		}

		detail.Conversations = conversations
		detail.TimeEntries = entries
		detail.Satisfaction = rating
		tickets = append(tickets, *detail)

		pullLog.ConversationsCount += len(conversations)
		pullLog.TimeEntriesCount += len(entries)
		if rating != nil {
			pullLog.RatingsCount++
		}

		c.publish(runID, clientID, progress.StageEnrich,
			fmt.Sprintf("工单 %d 富化完成", ticketID), i+1, len(ids))
	}

	// 阶段4：整体落库
	c.publish(runID, clientID, progress.StagePersist, "写入数据集", len(ids), len(ids))
	doc := models.DatasetDocument{
		Client:      *record,
		Window:      window,
		RetrievedAt: time.Now().UTC(),
		Tickets:     tickets,
	}
	if err := c.persist(&doc); err != nil {
		return fail(progress.StagePersist, err)
	}

	c.invalidateSummaryCache(clientID)

	pullLog.Status = models.PullStatusSuccess
	pullLog.TicketsFetched = len(tickets)
	pullLog.TicketsSkipped = skipped
	pullLog.ErrorMessage = ""
	c.finishLog(pullLog, start)

	result := &CollectResult{
		RunID:       runID,
		Client:      *record,
		Window:      window,
		TicketCount: len(tickets),
		Skipped:     skipped,
		DurationSec: pullLog.Duration,
	}
	log.Infof("客户 %d 采集完成：%d 个工单，剔除 %d，耗时 %d 秒",
		clientID, result.TicketCount, skipped, result.DurationSec)
	c.publish(runID, clientID, progress.StageDone,
		fmt.Sprintf("采集完成，共 %d 个工单", len(tickets)), len(ids), len(ids))
	return result, nil
}

// persist 数据集整体覆盖写入：按客户ID冲突时更新全部业务列
func (c *CollectorService) persist(doc *models.DatasetDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化数据集失败: %v", err)
	}

	row := models.ClientDataset{
		ClientID:    doc.Client.ID,
		ClientName:  doc.Client.Name,
		FetchedAs:   string(doc.Client.Kind),
		WindowStart: doc.Window.Start,
		WindowEnd:   doc.Window.End,
		TicketCount: len(doc.Tickets),
		Document:    datatypes.JSON(payload),
		RetrievedAt: doc.RetrievedAt,
	}

	return c.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"client_name", "fetched_as", "window_start", "window_end",
			"ticket_count", "document", "retrieved_at", "updated_at",
		}),
	}).Create(&row).Error
}

// invalidateSummaryCache 采集成功后清除该客户的统计缓存
func (c *CollectorService) invalidateSummaryCache(clientID int64) {
	rdb := database.GetRedisCache()
	if rdb == nil {
		return
	}
	key := config.GetConfig().Redis.Prefix + ":summary:" + strconv.FormatInt(clientID, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Del(ctx, key).Err(); err != nil {
		logger.GetLogger().Warnf("清除统计缓存失败: %v", err)
	}
}

// finishLog 补全并写入采集日志，日志写失败只告警不影响采集结果
func (c *CollectorService) finishLog(pullLog *models.PullLog, start time.Time) {
	pullLog.EndTime = time.Now()
	pullLog.Duration = int(pullLog.EndTime.Sub(start).Seconds())
	if err := c.db.Create(pullLog).Error; err != nil {
		logger.GetLogger().Warnf("写入采集日志失败: %v", err)
	}
}

func (c *CollectorService) publish(runID string, clientID int64, stage, message string, current, total int) {
	c.hub.Publish(progress.Event{
		RunID:    runID,
		ClientID: clientID,
		Stage:    stage,
		Message:  message,
		Current:  current,
		Total:    total,
	})
}
