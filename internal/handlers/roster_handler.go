package handlers

import (
	"fmt"

	"integoreport/internal/freshservice"
	"integoreport/internal/services"
	"integoreport/pkg/config"
	"integoreport/pkg/pagination"
	"integoreport/pkg/response"

	"github.com/gin-gonic/gin"
)

// RosterHandler 客户花名册接口
type RosterHandler struct {
	rosterService *services.RosterService
}

// NewRosterHandler 创建花名册处理器
func NewRosterHandler() *RosterHandler {
	return &RosterHandler{rosterService: services.NewRosterService()}
}

// List 分页查询花名册
// GET /api/v1/clients
func (h *RosterHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	items, total, err := h.rosterService.GetRoster(params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询花名册失败: "+err.Error())
		return
	}
	response.SuccessWithPage(c, items, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Refresh 从上游重建花名册
// POST /api/v1/clients/refresh
func (h *RosterHandler) Refresh(c *gin.Context) {
	fs, err := freshservice.New(&config.GetConfig().Freshservice)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	entries, err := h.rosterService.BuildRoster(fs)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	response.SuccessWithMessage(c,
		fmt.Sprintf("花名册已刷新，共 %d 个客户", len(entries)),
		gin.H{"count": len(entries)})
}
