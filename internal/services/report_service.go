package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"integoreport/internal/database"
	"integoreport/internal/models"
	"integoreport/internal/report"
	"integoreport/pkg/config"
	"integoreport/pkg/logger"

	"gorm.io/gorm"
)

// ReportService 报告查询与渲染服务
type ReportService struct {
	db *gorm.DB
}

// NewReportService 创建报告服务
func NewReportService() *ReportService {
	return &ReportService{db: database.GetDB()}
}

// GetDataset 读取客户数据集，未采集过返回gorm.ErrRecordNotFound
func (s *ReportService) GetDataset(clientID int64) (*models.ClientDataset, *models.DatasetDocument, error) {
	var row models.ClientDataset
	if err := s.db.Where("client_id = ?", clientID).First(&row).Error; err != nil {
		return nil, nil, err
	}

	var doc models.DatasetDocument
	if err := json.Unmarshal(row.Document, &doc); err != nil {
		return nil, nil, fmt.Errorf("数据集文档解析失败: %v", err)
	}
	return &row, &doc, nil
}

// Summarize 计算客户的汇总统计
// 启用Redis时走缓存，缓存随采集成功失效；缓存层异常一律降级为直接计算
func (s *ReportService) Summarize(clientID int64) (*report.SummaryStats, error) {
	rdb := database.GetRedisCache()
	key := summaryCacheKey(clientID)

	if rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		data, err := rdb.Get(ctx, key).Bytes()
		cancel()
		if err == nil {
			var cached report.SummaryStats
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	_, doc, err := s.GetDataset(clientID)
	if err != nil {
		return nil, err
	}
	stats := report.Summarize(doc)

	if rdb != nil {
		if data, err := json.Marshal(stats); err == nil {
			ttl := time.Duration(config.GetConfig().Redis.TTL) * time.Minute
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
				logger.GetLogger().Warnf("写入统计缓存失败: %v", err)
			}
			cancel()
		}
	}
	return stats, nil
}

// RenderHTML 渲染客户的自包含HTML报告
func (s *ReportService) RenderHTML(clientID int64) (string, error) {
	_, doc, err := s.GetDataset(clientID)
	if err != nil {
		return "", err
	}
	return report.Render(doc, report.Summarize(doc))
}

// ListPullLogs 分页查询采集日志，clientID为0时查全部，按开始时间倒序
func (s *ReportService) ListPullLogs(clientID int64, page, pageSize int) ([]models.PullLog, int64, error) {
	query := s.db.Model(&models.PullLog{})
	if clientID > 0 {
		query = query.Where("client_id = ?", clientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.PullLog
	offset := (page - 1) * pageSize
	if err := query.Order("start_time DESC").Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func summaryCacheKey(clientID int64) string {
	return config.GetConfig().Redis.Prefix + ":summary:" + strconv.FormatInt(clientID, 10)
}
