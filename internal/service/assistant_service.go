package service

import (
	"context"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/util"
	"strings"
)

type Recommendation struct {
	Type       string `json:"type"`
	Module     string `json:"module"`
	Suggestion string `json:"suggestion"`
}

type Action struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

type AssistantReply struct {
	Answer          string           `json:"answer,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	Actions         []Action         `json:"actions"`
}

const (
	RecommendationReview = "review"
	RecommendationPlan   = "plan"

	generalModule       = "general"
	reviewSuggestion    = "Review the fundamentals and start with practice exercises."
	studyPlanModule     = "study-plan"
	studyPlanSuggestion = "4-week plan: week 1 fundamentals, week 2 practice, week 3 assessment, week 4 review"
	startCourseAction   = "start_course"
	startCourseTarget   = "course_basic"
	assistantAnswer     = "Here is what I suggest based on your progress so far."
)

// 触发学习计划的关键词（含阿拉伯语：خطة=计划，تعلم=学习）
var planKeywords = []string{"plan", "learn", "خطة", "تعلم"}

func wantsPlan(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, kw := range planKeywords {
		if strings.Contains(p, kw) {
			return true
		}
	}
	return false
}

// AssistantService 只读：根据用户自己的进度行给出建议
type AssistantService struct {
	ProgressRepo *repository.ProgressRepository
}

func NewAssistantService(progressRepo *repository.ProgressRepository) *AssistantService {
	return &AssistantService{ProgressRepo: progressRepo}
}

// Recommend userID 必须来自已认证身份，不接受调用方指定
func (s *AssistantService) Recommend(ctx context.Context, userID, prompt string) (*AssistantReply, error) {
	rows, err := s.ProgressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.StorageError("load progress", err)
	}

	reply := &AssistantReply{
		Recommendations: []Recommendation{},
		Actions:         []Action{},
	}
	for i := range rows {
		if !rows[i].Weak() {
			continue
		}
		module := generalModule
		if rows[i].ModuleName != nil && *rows[i].ModuleName != "" {
			module = *rows[i].ModuleName
		}
		reply.Recommendations = append(reply.Recommendations, Recommendation{
			Type:       RecommendationReview,
			Module:     module,
			Suggestion: reviewSuggestion,
		})
	}

	if wantsPlan(prompt) {
		reply.Recommendations = append(reply.Recommendations, Recommendation{
			Type:       RecommendationPlan,
			Module:     studyPlanModule,
			Suggestion: studyPlanSuggestion,
		})
		reply.Actions = append(reply.Actions, Action{Type: startCourseAction, Target: startCourseTarget})
	}
	return reply, nil
}

func (s *AssistantService) Query(ctx context.Context, userID, prompt string) (*AssistantReply, error) {
	reply, err := s.Recommend(ctx, userID, prompt)
	if err != nil {
		return nil, err
	}
	reply.Answer = assistantAnswer
	return reply, nil
}
