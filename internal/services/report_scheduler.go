package services

import (
	"time"

	"integoreport/internal/freshservice"
	"integoreport/internal/models"
	"integoreport/pkg/config"
	"integoreport/pkg/logger"

	"github.com/robfig/cron/v3"
)

// 定时采集中相邻客户之间的间隔，分摊上游压力
const clientGapDelay = 2 * time.Second

// ReportScheduler 每月定时采集调度器
type ReportScheduler struct {
	cron *cron.Cron
}

// NewReportScheduler 创建调度器
func NewReportScheduler() *ReportScheduler {
	return &ReportScheduler{cron: cron.New()}
}

// Start 按配置注册每月采集任务，未启用时直接返回
func (s *ReportScheduler) Start(cfg *config.Config) error {
	log := logger.GetLogger()
	if !cfg.Schedule.Enabled {
		log.Info("Scheduled collection disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(cfg.Schedule.Cron, s.runMonthlyCollection); err != nil {
		return err
	}
	s.cron.Start()
	log.Infof("Scheduled collection enabled: %s", cfg.Schedule.Cron)
	return nil
}

// Stop 停止调度器，等待在途任务结束
func (s *ReportScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// runMonthlyCollection 整册采集：先重建花名册，再逐客户采集上月数据
// 单个客户失败只记日志继续，不中断整轮
func (s *ReportScheduler) runMonthlyCollection() {
	log := logger.GetLogger()
	log.Info("月度定时采集开始")

	cfg := config.GetConfig()
	fs, err := freshservice.New(&cfg.Freshservice)
	if err != nil {
		log.Errorf("月度采集中止，上游客户端初始化失败: %v", err)
		return
	}

	entries, err := NewRosterService().BuildRoster(fs)
	if err != nil {
		log.Errorf("月度采集中止，花名册重建失败: %v", err)
		return
	}

	collector := NewCollectorService(fs)
	window := models.PreviousMonth(time.Now())
	succeeded, failed := 0, 0

	for i, entry := range entries {
		if i > 0 {
			time.Sleep(clientGapDelay)
		}
		_, err := collector.Collect(entry.ClientID, CollectOptions{
			Hint:   models.ClientKind(entry.RetrievedAs),
			Window: &window,
		})
		if err != nil {
			failed++
			continue
		}
		succeeded++
	}

	log.Infof("月度定时采集结束：成功 %d，失败 %d", succeeded, failed)
}
