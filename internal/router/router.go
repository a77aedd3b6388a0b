package router

import (
	"net/http"
	"time"

	"integoreport/internal/handlers"
	"integoreport/internal/middleware"
	"integoreport/pkg/config"
	"integoreport/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(&cfg.CORS))

	// 健康检查
	r.GET("/health", healthCheck)
	r.GET("/ping", ping)

	rosterHandler := handlers.NewRosterHandler()
	reportHandler := handlers.NewReportHandler()

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// ========== 客户花名册 ==========
		api.GET("/clients", rosterHandler.List)
		api.POST("/clients/refresh", rosterHandler.Refresh)

		// ========== 报告采集与查询 ==========
		reports := api.Group("/reports")
		{
			reports.POST("/:clientID/collect", reportHandler.Collect)
			reports.GET("/:clientID/summary", reportHandler.Summary)
			reports.GET("/:clientID/html", reportHandler.HTML)
			reports.GET("/:clientID/logs", reportHandler.Logs)
			reports.GET("/:clientID/progress", reportHandler.Progress)
		}
	}

	return r
}

func healthCheck(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
