// 创建或提升超级管理员，并可选导入示例作业
//
// 用法: go run scripts/create_superuser.go -email admin@example.com -password '...' [-seed scripts/seed.yaml]

package main

import (
	"context"
	"edu_core_backend/internal/config"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/service"
	"edu_core_backend/pkg/database"
	"edu_core_backend/pkg/logger"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Assignments []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		ModuleName  string `yaml:"module_name"`
		DueInDays   int    `yaml:"due_in_days"`
	} `yaml:"assignments"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	email := flag.String("email", "", "管理员邮箱")
	password := flag.String("password", os.Getenv("EDU_SUPERUSER_PASSWORD"), "管理员密码")
	seedPath := flag.String("seed", "", "示例数据 YAML（可选）")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("必须提供 -email 和 -password")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	zl := logger.InitLogger(cfg)
	defer zl.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, zl)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db, zl); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	ctx := context.Background()
	authSvc := service.NewAuthService(repository.NewUserRepository(db), cfg, nil, zl)
	user, err := authSvc.EnsureSuperuser(ctx, *email, *password)
	if err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}
	zl.Info("superuser ready", zap.String("user_id", user.ID), zap.String("email", user.Email))

	if *seedPath == "" {
		return
	}

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		log.Fatalf("无法读取示例数据: %v", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("解析示例数据失败: %v", err)
	}

	assignmentSvc := service.NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		zl,
	)
	for _, a := range seed.Assignments {
		req := service.CreateAssignmentRequest{
			Title:       a.Title,
			Description: optional(a.Description),
			ModuleName:  optional(a.ModuleName),
		}
		if a.DueInDays > 0 {
			due := time.Now().AddDate(0, 0, a.DueInDays)
			req.DueDate = &due
		}
		if _, err := assignmentSvc.Create(ctx, req); err != nil {
			log.Fatalf("导入作业 %q 失败: %v", a.Title, err)
		}
	}
	log.Printf("完成！导入 %d 个作业", len(seed.Assignments))
}
