package services

import (
	"time"

	"integoreport/internal/database"
	"integoreport/internal/freshservice"
	"integoreport/internal/models"
	"integoreport/pkg/logger"

	"gorm.io/gorm"
)

// RosterService 客户花名册服务
type RosterService struct {
	db *gorm.DB
}

// NewRosterService 创建花名册服务
func NewRosterService() *RosterService {
	return &RosterService{db: database.GetDB()}
}

// BuildRoster 从上游重建花名册：枚举全部可见客户后整表替换
// 枚举失败不动现有花名册，保持上次结果可用
func (s *RosterService) BuildRoster(fs *freshservice.Client) ([]models.RosterEntry, error) {
	log := logger.GetLogger()

	clients, kind, err := fs.ListClients()
	if err != nil {
		log.Errorf("枚举上游客户失败: %v", err)
		return nil, err
	}
	log.Infof("上游返回 %d 个客户（%s）", len(clients), kind)

	now := time.Now().UTC()
	entries := make([]models.RosterEntry, 0, len(clients))
	for _, c := range clients {
		entries = append(entries, models.RosterEntry{
			ClientID:    c.ID,
			Name:        c.Name,
			RetrievedAs: string(kind),
			RetrievedAt: now,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.RosterEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		log.Errorf("花名册落库失败: %v", err)
		return nil, err
	}

	log.Infof("花名册重建完成，共 %d 条", len(entries))
	return entries, nil
}

// RosterItem 花名册查询结果，附带该客户最近一次采集的摘要
type RosterItem struct {
	models.RosterEntry
	LastRetrievedAt *time.Time `json:"last_retrieved_at,omitempty"`
	TicketCount     *int       `json:"ticket_count,omitempty"`
}

// GetRoster 分页查询花名册，按名称排序
func (s *RosterService) GetRoster(page, pageSize int) ([]RosterItem, int64, error) {
	var total int64
	if err := s.db.Model(&models.RosterEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.RosterEntry
	offset := (page - 1) * pageSize
	if err := s.db.Order("name ASC").Offset(offset).Limit(pageSize).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	items := make([]RosterItem, 0, len(entries))
	if len(entries) == 0 {
		return items, total, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ClientID)
	}

	var datasets []models.ClientDataset
	if err := s.db.Select("client_id", "retrieved_at", "ticket_count").
		Where("client_id IN ?", ids).Find(&datasets).Error; err != nil {
		return nil, 0, err
	}
	byClient := make(map[int64]models.ClientDataset, len(datasets))
	for _, d := range datasets {
		byClient[d.ClientID] = d
	}

	for _, e := range entries {
		item := RosterItem{RosterEntry: e}
		if d, ok := byClient[e.ClientID]; ok {
			retrievedAt := d.RetrievedAt
			count := d.TicketCount
			item.LastRetrievedAt = &retrievedAt
			item.TicketCount = &count
		}
		items = append(items, item)
	}
	return items, total, nil
}
