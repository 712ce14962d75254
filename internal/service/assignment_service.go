package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/util"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MinGrade = 0
	MaxGrade = 100
)

type CreateAssignmentRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	ModuleName  *string    `json:"module_name"`
	DueDate     *time.Time `json:"due_date"`
}

type SubmitRequest struct {
	ContentURL  *string `json:"content_url"`
	ContentText *string `json:"content_text"`
}

type GradeRequest struct {
	ID       uint    `json:"id" binding:"required"`
	Grade    *int    `json:"grade" binding:"required"`
	Feedback *string `json:"feedback"`
}

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	SubmissionRepo *repository.SubmissionRepository
	log            *zap.Logger
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, submissionRepo *repository.SubmissionRepository, log *zap.Logger) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
		log:            log.With(zap.String("service", "assignment")),
	}
}

func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*model.Assignment, error) {
	if req.Title == "" {
		return nil, util.ValidationError("title is required")
	}
	a := &model.Assignment{
		Title:       req.Title,
		Description: req.Description,
		ModuleName:  req.ModuleName,
		DueDate:     req.DueDate,
		CreatedAt:   time.Now(),
	}
	if err := s.AssignmentRepo.Create(ctx, a); err != nil {
		return nil, util.StorageError("create assignment", err)
	}
	s.log.Info("assignment created", zap.Uint("assignment_id", a.ID))
	return a, nil
}

func (s *AssignmentService) ListAll(ctx context.Context) ([]model.Assignment, error) {
	as, err := s.AssignmentRepo.ListAll(ctx)
	if err != nil {
		return nil, util.StorageError("list assignments", err)
	}
	return as, nil
}

func (s *AssignmentService) ListPage(ctx context.Context, page, limit int) ([]model.Assignment, int64, error) {
	as, total, err := s.AssignmentRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, util.StorageError("list assignments", err)
	}
	return as, total, nil
}

func (s *AssignmentService) ensureAssignment(ctx context.Context, id uint) error {
	if _, err := s.AssignmentRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAssignmentNotFound
		}
		return util.StorageError("lookup assignment", err)
	}
	return nil
}

// Submit 每次调用都新增一行，不覆盖之前的提交
func (s *AssignmentService) Submit(ctx context.Context, assignmentID uint, studentID string, req SubmitRequest) (*model.Submission, error) {
	if err := s.ensureAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}

	sub := &model.Submission{
		AssignmentID: assignmentID,
		StudentID:    &studentID,
		ContentURL:   req.ContentURL,
		ContentText:  req.ContentText,
		SubmittedAt:  time.Now(),
	}
	if err := s.SubmissionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, util.StorageError("create submission", err)
	}
	return sub, nil
}

// Grade 重复批改时以最后一次为准
func (s *AssignmentService) Grade(ctx context.Context, assignmentID uint, graderID string, req GradeRequest) (*model.Submission, error) {
	if req.Grade == nil {
		return nil, util.ValidationError("grade is required")
	}
	grade := *req.Grade
	if grade < MinGrade || grade > MaxGrade {
		return nil, util.ValidationError("grade must be between 0 and 100")
	}

	if _, err := s.SubmissionRepo.FindForAssignment(ctx, assignmentID, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, util.StorageError("lookup submission", err)
	}

	// MySQL 在值未变化时 RowsAffected 为 0，所以存在性以上面的查询为准
	if _, err := s.SubmissionRepo.UpdateGrade(ctx, assignmentID, req.ID, grade, req.Feedback, graderID, time.Now()); err != nil {
		return nil, util.StorageError("grade submission", err)
	}

	sub, err := s.SubmissionRepo.FindForAssignment(ctx, assignmentID, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, util.StorageError("reload submission", err)
	}
	s.log.Info("submission graded",
		zap.Uint("assignment_id", assignmentID),
		zap.Uint("submission_id", sub.ID),
		zap.Int("grade", grade),
	)
	return sub, nil
}

func (s *AssignmentService) ListSubmissions(ctx context.Context, assignmentID uint) ([]model.Submission, error) {
	if err := s.ensureAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	subs, err := s.SubmissionRepo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, util.StorageError("list submissions", err)
	}
	return subs, nil
}
