package handlers

import (
	"strconv"

	"integoreport/internal/freshservice"
	"integoreport/pkg/errors"
	"integoreport/pkg/response"

	"github.com/gin-gonic/gin"
)

// parseClientID 解析路径中的客户ID
func parseClientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("clientID"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "客户ID必须是正整数")
		return 0, false
	}
	return id, true
}

// respondUpstreamError 按上游错误分类映射为统一响应
func respondUpstreamError(c *gin.Context, err error) {
	switch {
	case freshservice.IsAuth(err):
		response.Error(c, errors.CodeUnauthorized, "上游凭证无效或权限不足")
	case freshservice.IsNotFound(err):
		response.NotFound(c, err.Error())
	case freshservice.IsConfig(err):
		response.ServerError(c, err.Error())
	case freshservice.IsUpstream(err):
		response.UpstreamError(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
