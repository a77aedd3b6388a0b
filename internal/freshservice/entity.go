package freshservice

import (
	"fmt"
	"net/url"
	"strconv"

	"integoreport/internal/models"
	"integoreport/pkg/logger"
)

// getCompany 按公司端点查询实体，不存在返回nil（供兜底逻辑判断）
func (c *Client) getCompany(id int64) (*models.ClientRecord, error) {
	var env companyEnvelope
	path := fmt.Sprintf("/api/v2/companies/%d", id)
	found, err := c.getJSON(path, nil, true, "获取公司", strconv.FormatInt(id, 10), &env)
	if err != nil {
		return nil, err
	}
	if !found || env.Company == nil {
		return nil, nil
	}
	return env.Company.toClientRecord(models.KindCompany), nil
}

// getDepartment 按部门端点查询实体，不存在返回nil
func (c *Client) getDepartment(id int64) (*models.ClientRecord, error) {
	var env departmentEnvelope
	path := fmt.Sprintf("/api/v2/departments/%d", id)
	found, err := c.getJSON(path, nil, true, "获取部门", strconv.FormatInt(id, 10), &env)
	if err != nil {
		return nil, err
	}
	if !found || env.Department == nil {
		return nil, nil
	}
	return env.Department.toClientRecord(models.KindDepartment), nil
}

// ResolveClient 解析客户实体
// 有类型提示直接查询对应端点；无提示时公司优先、部门兜底（探测顺序固定）
// 两个端点都查不到返回NotFound错误
func (c *Client) ResolveClient(id int64, hint models.ClientKind) (*models.ClientRecord, error) {
	entity := strconv.FormatInt(id, 10)

	switch hint {
	case models.KindCompany:
		record, err := c.getCompany(id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, newError(KindNotFound, "解析客户", entity, 404, nil)
		}
		return record, nil
	case models.KindDepartment:
		record, err := c.getDepartment(id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, newError(KindNotFound, "解析客户", entity, 404, nil)
		}
		return record, nil
	}

	record, err := c.getCompany(id)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	logger.GetLogger().Infof("客户 %d 不是公司实体，回退尝试部门端点", id)
	record, err = c.getDepartment(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, newError(KindNotFound, "解析客户", entity, 404, nil)
	}
	return record, nil
}

// listCompanies 全量拉取公司列表，第一页404视为无公司配置（部分部署未启用公司分组）
func (c *Client) listCompanies() ([]rawEntity, error) {
	var all []rawEntity
	_, err := c.collectPages(c.pageSize, c.maxListPages, c.subDelay, func(page int) (int, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.pageSize))

		var env companyListEnvelope
		found, err := c.getJSON("/api/v2/companies", params, page == 1, "公司列表", "", &env)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, nil
		}
		all = append(all, env.Companies...)
		return len(env.Companies), nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// listDepartments 全量拉取部门列表
func (c *Client) listDepartments() ([]rawEntity, error) {
	var all []rawEntity
	_, err := c.collectPages(c.pageSize, c.maxListPages, c.subDelay, func(page int) (int, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.pageSize))

		var env departmentListEnvelope
		found, err := c.getJSON("/api/v2/departments", params, page == 1, "部门列表", "", &env)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, nil
		}
		all = append(all, env.Departments...)
		return len(env.Departments), nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// RosterClient 花名册条目的统一形态（公司/部门字段已归一）
type RosterClient struct {
	ID   int64
	Name string
}

// ListClients 枚举凭证可见的全部客户
// 公司列表为空（或端点404）时回退部门列表，回退决策每次运行独立作出，不缓存
func (c *Client) ListClients() ([]RosterClient, models.ClientKind, error) {
	log := logger.GetLogger()

	entities, err := c.listCompanies()
	if err != nil {
		return nil, "", err
	}
	kind := models.KindCompany

	if len(entities) == 0 {
		log.Info("公司列表为空，回退拉取部门列表")
		entities, err = c.listDepartments()
		if err != nil {
			return nil, "", err
		}
		kind = models.KindDepartment
	}

	clients := make([]RosterClient, 0, len(entities))
	for _, e := range entities {
		if e.ID == 0 || e.Name == "" {
			log.Warnf("跳过缺少ID或名称的实体: %+v", e)
			continue
		}
		clients = append(clients, RosterClient{ID: e.ID, Name: e.Name})
	}
	return clients, kind, nil
}
