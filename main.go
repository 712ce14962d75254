// @title EduCore 后端 API
// @version 1.0
// @description 学习平台后端：作业、评估、学习进度、文件上传与学习助手。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"edu_core_backend/internal/app"
	"edu_core_backend/internal/config"
	"edu_core_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

//go:generate swag init -g main.go -o docs --parseInternal

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to start application", zap.Error(err))
	}
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	if err := application.Run(); err != nil {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}
}
