package repository

import (
	"context"
	"edu_core_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// ListByUser 返回该用户全部进度行（可能包含同一模块的重复行）
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.StudentProgress, error) {
	var rows []model.StudentProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&rows).Error
	return rows, err
}

// FindOldest 查找 (user, module) 的最早一行；moduleName 为 nil 时匹配未指定模块的行
func (r *ProgressRepository) FindOldest(ctx context.Context, userID string, moduleName *string) (*model.StudentProgress, error) {
	var p model.StudentProgress
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if moduleName == nil {
		query = query.Where("module_name IS NULL")
	} else {
		query = query.Where("module_name = ?", *moduleName)
	}
	err := query.Order("created_at asc, id asc").First(&p).Error
	return &p, err
}

func (r *ProgressRepository) Create(ctx context.Context, p *model.StudentProgress) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *ProgressRepository) Save(ctx context.Context, p *model.StudentProgress) error {
	return r.DB.WithContext(ctx).Save(p).Error
}
