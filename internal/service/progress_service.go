package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ProgressRequest struct {
	ModuleName         *string  `json:"module_name"`
	ProgressPercentage *int     `json:"progress_percentage" binding:"required"`
	LastScore          *float64 `json:"last_score"`
	Struggling         *bool    `json:"struggling"`
}

type ProgressService struct {
	Repo *repository.ProgressRepository
}

func NewProgressService(repo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{Repo: repo}
}

// Record 更新 (user, module) 最早的一行，last_score 与 struggling 仅在传入时覆盖，不存在时新建；每次调用 attempts 加一
func (s *ProgressService) Record(ctx context.Context, userID string, req ProgressRequest) (*model.StudentProgress, error) {
	if req.ProgressPercentage == nil {
		return nil, util.ValidationError("progress_percentage is required")
	}
	pct := *req.ProgressPercentage
	if pct < 0 || pct > 100 {
		return nil, util.ValidationError("progress_percentage must be between 0 and 100")
	}

	p, err := s.Repo.FindOldest(ctx, userID, req.ModuleName)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = &model.StudentProgress{
			UserID:             userID,
			ModuleName:         req.ModuleName,
			ProgressPercentage: pct,
			LastScore:          req.LastScore,
			Attempts:           1,
			Struggling:         req.Struggling != nil && *req.Struggling,
		}
		if err := s.Repo.Create(ctx, p); err != nil {
			return nil, util.StorageError("create progress", err)
		}
		return p, nil
	case err != nil:
		return nil, util.StorageError("lookup progress", err)
	}

	p.ProgressPercentage = pct
	if req.LastScore != nil {
		p.LastScore = req.LastScore
	}
	// 未传 struggling 时保留原值
	if req.Struggling != nil {
		p.Struggling = *req.Struggling
	}
	p.Attempts++
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, util.StorageError("update progress", err)
	}
	return p, nil
}

func (s *ProgressService) List(ctx context.Context, userID string) ([]model.StudentProgress, error) {
	rows, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.StorageError("list progress", err)
	}
	return rows, nil
}
