package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/util"
	"edu_core_backend/pkg/monitoring"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	adviceBusiness = "Focus on clear, concrete examples for Business learners."
	adviceIT       = "Include technical steps and expected outputs for IT learners."
)

// AssessmentRequest 空题目同样可以评分
type AssessmentRequest struct {
	Question string                `json:"question"`
	Level    model.AssessmentLevel `json:"level" binding:"required,oneof=L2 L3"`
	Major    model.AssessmentMajor `json:"major" binding:"required,oneof=Business IT"`
}

type AssessmentResult struct {
	Question        string                `json:"question"`
	Level           model.AssessmentLevel `json:"level"`
	Major           model.AssessmentMajor `json:"major"`
	DifficultyScore int                   `json:"difficulty_score"`
	Advice          string                `json:"advice"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScoreQuestion 纯函数：相同输入总是得到相同的难度分与建议
func ScoreQuestion(question string, level model.AssessmentLevel, major model.AssessmentMajor) AssessmentResult {
	base := 70
	if level == model.LevelL2 {
		base = 50
	}
	majorAdj := 0
	advice := adviceIT
	if major == model.MajorBusiness {
		majorAdj = -10
		advice = adviceBusiness
	}
	lengthAdj := utf8.RuneCountInString(question) / 20
	if lengthAdj > 20 {
		lengthAdj = 20
	}

	return AssessmentResult{
		Question:        question,
		Level:           level,
		Major:           major,
		DifficultyScore: clamp(base+majorAdj+lengthAdj, 0, 100),
		Advice:          advice,
	}
}

type AssessmentService struct {
	Repo *repository.AssessmentRepository
	log  *zap.Logger
}

func NewAssessmentService(repo *repository.AssessmentRepository, log *zap.Logger) *AssessmentService {
	return &AssessmentService{Repo: repo, log: log.With(zap.String("service", "assessment"))}
}

func validateAssessment(req AssessmentRequest) error {
	if req.Level != model.LevelL2 && req.Level != model.LevelL3 {
		return util.ValidationError("level must be L2 or L3")
	}
	if req.Major != model.MajorBusiness && req.Major != model.MajorIT {
		return util.ValidationError("major must be Business or IT")
	}
	return nil
}

// Assess 计算评分并尽力持久化。持久化失败只记录日志与指标，评分照常返回。
func (s *AssessmentService) Assess(ctx context.Context, req AssessmentRequest, ownerID *string) (AssessmentResult, error) {
	if err := validateAssessment(req); err != nil {
		return AssessmentResult{}, err
	}

	res := ScoreQuestion(req.Question, req.Level, req.Major)

	if _, err := s.record(ctx, res, ownerID); err != nil {
		monitoring.AssessmentPersistFailures.Inc()
		s.log.Warn("assessment not persisted", zap.Error(err))
	}
	return res, nil
}

// record 失败时返回 UpstreamError，由调用方决定是否忽略
func (s *AssessmentService) record(ctx context.Context, res AssessmentResult, ownerID *string) (*model.Assessment, error) {
	score := res.DifficultyScore
	advice := res.Advice
	a := &model.Assessment{
		Question:        res.Question,
		Level:           res.Level,
		Major:           res.Major,
		DifficultyScore: &score,
		Advice:          &advice,
		OwnerID:         ownerID,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, util.UpstreamError("persist assessment", err)
	}
	return a, nil
}

func (s *AssessmentService) ListMine(ctx context.Context, ownerID string) ([]model.Assessment, error) {
	as, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, util.StorageError("list assessments", err)
	}
	return as, nil
}
