package freshservice

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"integoreport/pkg/config"
	"integoreport/pkg/logger"
)

// 429限流重试上限：这是对上游限流协议的遵从，不是错误重试
const maxRateLimitWaits = 3

// Client 上游工单系统的REST客户端
// 单次运行内串行请求，不并发，避免触碰未公开的限流阈值
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	pageSize       int
	ticketPageSize int
	ticketDelay    time.Duration
	subDelay       time.Duration
	maxTicketPages int
	maxListPages   int
}

// New 创建上游客户端，凭证缺失立即返回配置错误，不发起任何网络请求
func New(cfg *config.FreshserviceConfig) (*Client, error) {
	if cfg.Domain == "" {
		return nil, newError(KindConfig, "初始化客户端", "", 0, fmt.Errorf("未配置上游域名"))
	}
	apiKey, err := cfg.Credential()
	if err != nil {
		return nil, newError(KindConfig, "初始化客户端", "", 0, err)
	}

	baseURL := cfg.Domain
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30
	}

	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
		pageSize:       cfg.PageSize,
		ticketPageSize: cfg.TicketPageSize,
		ticketDelay:    time.Duration(cfg.TicketDelayMs) * time.Millisecond,
		subDelay:       time.Duration(cfg.SubDelayMs) * time.Millisecond,
		maxTicketPages: cfg.MaxTicketPages,
		maxListPages:   cfg.MaxListPages,
	}
	if c.pageSize <= 0 {
		c.pageSize = 30
	}
	if c.ticketPageSize <= 0 {
		c.ticketPageSize = 30
	}
	if c.maxTicketPages <= 0 {
		c.maxTicketPages = 100
	}
	if c.maxListPages <= 0 {
		c.maxListPages = 200
	}
	return c, nil
}

// TicketDelay 逐工单处理间隔，采集器在两个工单之间等待
func (c *Client) TicketDelay() time.Duration {
	return c.ticketDelay
}

// get 发起认证GET请求并做错误分类
// 返回 found=false 仅在 allow404 且上游返回404时出现
func (c *Client) get(path string, params url.Values, allow404 bool, op, entity string) (body []byte, found bool, err error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequest(http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, false, newError(KindUpstream, op, entity, 0, err)
		}
		req.SetBasicAuth(c.apiKey, "X")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, false, newError(KindUpstream, op, entity, 0, err)
		}

		// 限流：按Retry-After等待后重发，超过上限按上游异常处理
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= maxRateLimitWaits {
				return nil, false, newError(KindUpstream, op, entity, resp.StatusCode,
					fmt.Errorf("限流等待 %d 次后仍被拒绝", maxRateLimitWaits))
			}
			wait := 5
			if v := resp.Header.Get("Retry-After"); v != "" {
				if parsed, perr := strconv.Atoi(v); perr == nil && parsed > 0 {
					wait = parsed
				}
			}
			logger.GetLogger().Warnf("上游限流，等待 %d 秒后重试: %s", wait, fullURL)
			time.Sleep(time.Duration(wait) * time.Second)
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, false, newError(KindAuth, op, entity, resp.StatusCode, nil)
		case resp.StatusCode == http.StatusNotFound:
			if allow404 {
				return nil, false, nil
			}
			return nil, false, newError(KindNotFound, op, entity, resp.StatusCode, nil)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, false, newError(KindUpstream, op, entity, resp.StatusCode,
				fmt.Errorf("响应体: %s", snippet(data)))
		}

		if readErr != nil {
			return nil, false, newError(KindUpstream, op, entity, resp.StatusCode, readErr)
		}
		return data, true, nil
	}
}

// getJSON 请求并反序列化，响应体非法归类为上游异常
func (c *Client) getJSON(path string, params url.Values, allow404 bool, op, entity string, out interface{}) (bool, error) {
	body, found, err := c.get(path, params, allow404, op, entity)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, newError(KindUpstream, op, entity, 0, fmt.Errorf("响应解析失败: %v", err))
	}
	return true, nil
}

// collectPages 逐页拉取，某页条数小于每页大小（含空页）即终止
// 返回实际拉取的页数
func (c *Client) collectPages(perPage, maxPages int, delay time.Duration, fetch func(page int) (int, error)) (int, error) {
	pages := 0
	for page := 1; ; page++ {
		if delay > 0 {
			time.Sleep(delay)
		}
		n, err := fetch(page)
		if err != nil {
			return pages, err
		}
		pages++
		if n < perPage {
			break
		}
		if page >= maxPages {
			logger.GetLogger().Warnf("翻页达到上限 %d 页，停止拉取", maxPages)
			break
		}
	}
	return pages, nil
}

// snippet 截断响应体用于日志，按字符截断避免切坏多字节序列
func snippet(data []byte) string {
	const limit = 200
	runes := []rune(string(data))
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return string(data)
}
