package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"integoreport/internal/database"
	"integoreport/internal/router"
	"integoreport/internal/services"
	"integoreport/pkg/config"
	"integoreport/pkg/logger"
)

func main() {
	// 加载配置
	cfg := config.GetConfig()

	// 初始化日志
	if err := logger.Initialize(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	appLogger := logger.GetLogger()
	appLogger.Info("Starting IntegoReport server...")

	// 初始化数据库
	if err := database.Initialize(cfg); err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()
	appLogger.Info("Database connected successfully")

	// 执行数据库迁移
	if err := database.Migrate(); err != nil {
		appLogger.Fatalf("Failed to migrate database: %v", err)
	}

	// 启动定时采集调度器
	scheduler := services.NewReportScheduler()
	if err := scheduler.Start(cfg); err != nil {
		appLogger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// 配置路由
	r := router.SetupRouter(cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		appLogger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}

	database.CloseRedisCache()
	appLogger.Info("Server exited")
}
