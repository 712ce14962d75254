package repository

import (
	"context"
	"edu_core_backend/internal/model"

	"gorm.io/gorm"
)

type FileRepository struct {
	DB *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{DB: db}
}

func (r *FileRepository) Create(ctx context.Context, f *model.UserFile) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *FileRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.UserFile, error) {
	var fs []model.UserFile
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&fs).Error
	return fs, err
}
