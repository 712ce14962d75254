package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProgress(t *testing.T, repo *repository.ProgressRepository, rows ...model.StudentProgress) {
	t.Helper()
	for i := range rows {
		require.NoError(t, repo.Create(context.Background(), &rows[i]))
	}
}

func TestRecommendNoRows(t *testing.T) {
	svc := NewAssistantService(repository.NewProgressRepository(testutil.NewDB(t)))

	reply, err := svc.Recommend(context.Background(), "user-without-progress", "")
	require.NoError(t, err)
	assert.NotNil(t, reply.Recommendations)
	assert.Empty(t, reply.Recommendations)
	assert.NotNil(t, reply.Actions)
	assert.Empty(t, reply.Actions)
}

func TestRecommendWeakRows(t *testing.T) {
	repo := repository.NewProgressRepository(testutil.NewDB(t))
	svc := NewAssistantService(repo)

	seedProgress(t, repo,
		model.StudentProgress{UserID: "u1", ModuleName: strPtr("algebra"), ProgressPercentage: 30},
		model.StudentProgress{UserID: "u1", ModuleName: strPtr("geometry"), ProgressPercentage: 90},
		model.StudentProgress{UserID: "u1", ModuleName: strPtr("statistics"), ProgressPercentage: 95, Struggling: true},
		model.StudentProgress{UserID: "u1", ProgressPercentage: 59},
		model.StudentProgress{UserID: "u1", ModuleName: strPtr("boundary"), ProgressPercentage: 60},
		// 其他用户的行不可见
		model.StudentProgress{UserID: "u2", ModuleName: strPtr("secret"), ProgressPercentage: 0},
	)

	reply, err := svc.Recommend(context.Background(), "u1", "how am I doing?")
	require.NoError(t, err)

	modules := make([]string, 0, len(reply.Recommendations))
	for _, r := range reply.Recommendations {
		assert.Equal(t, RecommendationReview, r.Type)
		assert.Equal(t, reviewSuggestion, r.Suggestion)
		modules = append(modules, r.Module)
	}
	assert.ElementsMatch(t, []string{"algebra", "statistics", "general"}, modules)
	assert.Empty(t, reply.Actions)
}

func TestRecommendPlanKeywords(t *testing.T) {
	svc := NewAssistantService(repository.NewProgressRepository(testutil.NewDB(t)))

	for _, prompt := range []string{"Make me a PLAN", "I want to learn Go", "أريد خطة", "كيف تعلم"} {
		reply, err := svc.Recommend(context.Background(), "u1", prompt)
		require.NoError(t, err)

		require.Len(t, reply.Recommendations, 1, prompt)
		assert.Equal(t, RecommendationPlan, reply.Recommendations[0].Type)
		assert.Equal(t, studyPlanModule, reply.Recommendations[0].Module)
		require.Len(t, reply.Actions, 1)
		assert.Equal(t, Action{Type: "start_course", Target: "course_basic"}, reply.Actions[0])
	}
}

func TestQueryAddsAnswer(t *testing.T) {
	svc := NewAssistantService(repository.NewProgressRepository(testutil.NewDB(t)))

	reply, err := svc.Query(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Answer)
	assert.Empty(t, reply.Recommendations)
}
