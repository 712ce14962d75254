package database

import (
	"edu_core_backend/internal/config"
	"edu_core_backend/internal/model"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Models 参与自动迁移的实体，顺序保证外键依赖先建表
var Models = []interface{}{
	&model.User{},
	&model.Assignment{},
	&model.Submission{},
	&model.StudentProgress{},
	&model.Assessment{},
	&model.UserFile{},
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverMySQL:
		// 读已提交足够：单次逻辑更新不跨多行不变量
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local&transaction_isolation=%%27READ-COMMITTED%%27",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(cfg.Path + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, mode string, log *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	log.Info("Database migration completed")
	return nil
}
