package repository

import (
	"context"
	"edu_core_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssessmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&as).Error
	return as, err
}
