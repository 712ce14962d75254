package repository

import (
	"context"
	"edu_core_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.DB.WithContext(ctx).Omit("Assignment", "Student").Create(s).Error
}

// FindForAssignment 只在提交属于该作业时返回
func (r *SubmissionRepository) FindForAssignment(ctx context.Context, assignmentID, submissionID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.WithContext(ctx).
		Where("id = ? AND assignment_id = ?", submissionID, assignmentID).
		First(&s).Error
	return &s, err
}

func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]model.Submission, error) {
	var ss []model.Submission
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at asc, id asc").
		Find(&ss).Error
	return ss, err
}

// UpdateGrade 单行 UPDATE，并发批改时后写者生效
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, assignmentID, submissionID uint, grade int, feedback *string, graderID string, gradedAt time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ? AND assignment_id = ?", submissionID, assignmentID).
		Updates(map[string]interface{}{
			"grade":     grade,
			"feedback":  feedback,
			"graded_by": graderID,
			"graded_at": gradedAt,
		})
	return res.RowsAffected, res.Error
}
