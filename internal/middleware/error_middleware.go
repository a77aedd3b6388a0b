package middleware

import (
	"runtime/debug"

	"integoreport/pkg/logger"
	"integoreport/pkg/response"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 统一panic恢复中间件，崩溃转为统一错误响应
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.GetLogger().Errorf("请求处理panic: %v\n%s", err, debug.Stack())
				response.ServerError(c, "服务器内部错误")
				c.Abort()
			}
		}()
		c.Next()
	}
}
