package freshservice

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"integoreport/internal/models"
)

// 详情拉取时一次性嵌入的关联字段，把往返次数压到O(工单数)
const ticketIncludes = "stats,requester,assets,department,requested_for,tags"

// SearchTicketIDs 按客户分组与时间窗口搜索工单ID
// 窗口左闭右开：created_at >= Start 且 created_at < End
// 上游按 department_id 归组工单（公司实体同样如此），按返回页序累积
func (c *Client) SearchTicketIDs(clientID int64, window models.DateWindow) (ids []int64, pages int, err error) {
	query := fmt.Sprintf("(department_id:%d) AND (created_at:>='%s' AND created_at:<'%s')",
		clientID,
		window.Start.UTC().Format(time.RFC3339),
		window.End.UTC().Format(time.RFC3339))

	pages, err = c.collectPages(c.ticketPageSize, c.maxTicketPages, 0, func(page int) (int, error) {
		params := url.Values{}
		params.Set("query", `"`+query+`"`)
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.ticketPageSize))

		var env ticketListEnvelope
		if _, err := c.getJSON("/api/v2/tickets/filter", params, false, "搜索工单", strconv.FormatInt(clientID, 10), &env); err != nil {
			return 0, err
		}
		for _, stub := range env.Tickets {
			ids = append(ids, stub.ID)
		}
		return len(env.Tickets), nil
	})
	if err != nil {
		return nil, pages, err
	}
	return ids, pages, nil
}

// GetTicketDetail 拉取工单详情（含嵌入字段），并解析状态/优先级文案
func (c *Client) GetTicketDetail(ticketID int64) (*models.TicketRecord, error) {
	entity := "ticket " + strconv.FormatInt(ticketID, 10)
	params := url.Values{}
	params.Set("include", ticketIncludes)

	var env ticketEnvelope
	path := fmt.Sprintf("/api/v2/tickets/%d", ticketID)
	if _, err := c.getJSON(path, params, false, "获取工单详情", entity, &env); err != nil {
		return nil, err
	}
	if env.Ticket == nil {
		return nil, newError(KindUpstream, "获取工单详情", entity, 0, fmt.Errorf("响应缺少ticket字段"))
	}
	return env.Ticket.toTicketRecord(), nil
}

// GetConversations 全量拉取工单会话，保持上游分页返回顺序
func (c *Client) GetConversations(ticketID int64) ([]models.Message, error) {
	entity := "ticket " + strconv.FormatInt(ticketID, 10)
	var messages []models.Message

	_, err := c.collectPages(c.pageSize, c.maxTicketPages, c.subDelay, func(page int) (int, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.pageSize))

		var env conversationsEnvelope
		path := fmt.Sprintf("/api/v2/tickets/%d/conversations", ticketID)
		if _, err := c.getJSON(path, params, false, "获取工单会话", entity, &env); err != nil {
			return 0, err
		}
		for i := range env.Conversations {
			messages = append(messages, env.Conversations[i].toMessage())
		}
		return len(env.Conversations), nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetTimeEntries 全量拉取工单工时记录
func (c *Client) GetTimeEntries(ticketID int64) ([]models.TimeEntry, error) {
	entity := "ticket " + strconv.FormatInt(ticketID, 10)
	var entries []models.TimeEntry

	_, err := c.collectPages(c.pageSize, c.maxTicketPages, c.subDelay, func(page int) (int, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.pageSize))

		var env timeEntriesEnvelope
		path := fmt.Sprintf("/api/v2/tickets/%d/time_entries", ticketID)
		if _, err := c.getJSON(path, params, false, "获取工时记录", entity, &env); err != nil {
			return 0, err
		}
		for i := range env.TimeEntries {
			entries = append(entries, env.TimeEntries[i].toTimeEntry())
		}
		return len(env.TimeEntries), nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetSatisfactionRating 拉取满意度评价
// 上游404或空列表都表示未评价，返回nil不报错；其他失败为硬错误
func (c *Client) GetSatisfactionRating(ticketID int64) (*models.SatisfactionRating, error) {
	entity := "ticket " + strconv.FormatInt(ticketID, 10)
	if c.subDelay > 0 {
		time.Sleep(c.subDelay)
	}

	var env ratingsEnvelope
	path := fmt.Sprintf("/api/v2/tickets/%d/satisfaction_ratings", ticketID)
	found, err := c.getJSON(path, nil, true, "获取满意度评价", entity, &env)
	if err != nil {
		return nil, err
	}
	if !found || len(env.SatisfactionRatings) == 0 {
		return nil, nil
	}
	// 多条评价取第一条（上游按时间倒序返回最新一条在前）
	return env.SatisfactionRatings[0].toSatisfactionRating(), nil
}
