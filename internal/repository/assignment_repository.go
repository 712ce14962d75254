package repository

import (
	"context"
	"edu_core_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) ListAll(ctx context.Context) ([]model.Assignment, error) {
	var as []model.Assignment
	err := r.DB.WithContext(ctx).Order("id asc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) List(ctx context.Context, page, limit int) ([]model.Assignment, int64, error) {
	var as []model.Assignment
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Assignment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("id asc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}
