package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/testutil"
	"edu_core_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type assignmentFixture struct {
	svc     *AssignmentService
	student *model.User
	teacher *model.User
}

func newAssignmentFixture(t *testing.T) (*assignmentFixture, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	auth := newAuthService(t, db)
	return &assignmentFixture{
		svc: NewAssignmentService(
			repository.NewAssignmentRepository(db),
			repository.NewSubmissionRepository(db),
			zap.NewNop(),
		),
		student: registerUser(t, auth, "student@example.com", model.Student),
		teacher: registerUser(t, auth, "teacher@example.com", model.Teacher),
	}, db
}

func TestAssignmentRoundTrip(t *testing.T) {
	f, _ := newAssignmentFixture(t)
	ctx := context.Background()
	due := time.Date(2030, 5, 17, 23, 59, 0, 0, time.UTC)

	created, err := f.svc.Create(ctx, CreateAssignmentRequest{
		Title:       "Essay",
		Description: strPtr("Write 500 words"),
		ModuleName:  strPtr("writing"),
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Essay", got.Title)
	assert.Equal(t, "Write 500 words", *got.Description)
	assert.Equal(t, "writing", *got.ModuleName)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate), "due date preserved: %v", got.DueDate)
}

func TestAssignmentListPage(t *testing.T) {
	f, _ := newAssignmentFixture(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := f.svc.Create(ctx, CreateAssignmentRequest{Title: title})
		require.NoError(t, err)
	}

	page, total, err := f.svc.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Title)
}

func TestSubmitCreatesNewRowEachTime(t *testing.T) {
	f, _ := newAssignmentFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, CreateAssignmentRequest{Title: "Lab"})
	require.NoError(t, err)

	s1, err := f.svc.Submit(ctx, a.ID, f.student.ID, SubmitRequest{ContentText: strPtr("v1")})
	require.NoError(t, err)
	s2, err := f.svc.Submit(ctx, a.ID, f.student.ID, SubmitRequest{ContentURL: strPtr("https://example.com/v2")})
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Equal(t, f.student.ID, *s1.StudentID)
	assert.False(t, s1.IsGraded())

	subs, err := f.svc.ListSubmissions(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubmitUnknownAssignment(t *testing.T) {
	f, _ := newAssignmentFixture(t)

	_, err := f.svc.Submit(context.Background(), 999, f.student.ID, SubmitRequest{})
	assert.Equal(t, util.ErrAssignmentNotFound, err)
}

func TestGradeTwiceLastWriteWins(t *testing.T) {
	f, _ := newAssignmentFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, CreateAssignmentRequest{Title: "Quiz"})
	require.NoError(t, err)
	sub, err := f.svc.Submit(ctx, a.ID, f.student.ID, SubmitRequest{ContentText: strPtr("answer")})
	require.NoError(t, err)

	first, err := f.svc.Grade(ctx, a.ID, f.teacher.ID, GradeRequest{ID: sub.ID, Grade: intPtr(70), Feedback: strPtr("ok")})
	require.NoError(t, err)
	assert.Equal(t, 70, *first.Grade)

	second, err := f.svc.Grade(ctx, a.ID, f.teacher.ID, GradeRequest{ID: sub.ID, Grade: intPtr(95), Feedback: strPtr("much better")})
	require.NoError(t, err)
	assert.Equal(t, 95, *second.Grade)
	assert.Equal(t, "much better", *second.Feedback)
	assert.Equal(t, f.teacher.ID, *second.GradedBy)
	assert.NotNil(t, second.GradedAt)

	subs, err := f.svc.ListSubmissions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 95, *subs[0].Grade)
	assert.Equal(t, "much better", *subs[0].Feedback)
}

func TestGradeValidation(t *testing.T) {
	f, _ := newAssignmentFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, CreateAssignmentRequest{Title: "A"})
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, CreateAssignmentRequest{Title: "B"})
	require.NoError(t, err)
	sub, err := f.svc.Submit(ctx, a.ID, f.student.ID, SubmitRequest{})
	require.NoError(t, err)

	for _, g := range []int{-1, 101} {
		_, err := f.svc.Grade(ctx, a.ID, f.teacher.ID, GradeRequest{ID: sub.ID, Grade: intPtr(g)})
		assert.True(t, errors.Is(err, util.ErrValidation), "grade %d", g)
	}

	for _, g := range []int{0, 100} {
		_, err := f.svc.Grade(ctx, a.ID, f.teacher.ID, GradeRequest{ID: sub.ID, Grade: intPtr(g)})
		assert.NoError(t, err, "grade %d", g)
	}

	_, err = f.svc.Grade(ctx, other.ID, f.teacher.ID, GradeRequest{ID: sub.ID, Grade: intPtr(50)})
	assert.Equal(t, util.ErrSubmissionNotFound, err, "submission must belong to the assignment")
}
