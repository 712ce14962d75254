// Package testutil 提供测试用的内存数据库与配置
package testutil

import (
	"edu_core_backend/internal/config"
	"edu_core_backend/pkg/database"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 打开一个独立的内存 SQLite 并完成迁移。单连接保证同一测试内看到同一个库。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Config 测试配置：本地存储指向临时目录，bcrypt 使用最低成本
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test"},
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
		Auth: config.AuthConfig{
			BcryptCost:        4,
			MaxPasswordLength: 4096,
		},
		Storage: config.StorageConfig{
			Type:        "local",
			LocalPath:   t.TempDir(),
			MaxUploadMB: 5,
		},
	}
}
