package app

import (
	"bytes"
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/testutil"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := New(testutil.Config(t), testutil.NewDB(t), nil, zap.NewNop())
	require.NoError(t, err)
	return a
}

func do(t *testing.T, a *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func signup(t *testing.T, a *App, email, role string) string {
	t.Helper()
	w, _ := do(t, a, http.MethodPost, "/api/register", "", gin.H{"email": email, "password": "pa55word!", "role": role})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return login(t, a, email, "pa55word!")
}

func login(t *testing.T, a *App, email, password string) string {
	t.Helper()
	w, env := do(t, a, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair service.TokenPair
	decode(t, env.Data, &pair)
	require.Equal(t, "bearer", pair.TokenType)
	return pair.AccessToken
}

func TestHealthDoesNotTouchDatabase(t *testing.T) {
	a := newTestApp(t)

	w, _ := do(t, a, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	sqlDB, err := a.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w, _ = do(t, a, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w, _ = do(t, a, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t)
	w, _ := do(t, a, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)

	w, _ := do(t, a, http.MethodPost, "/api/register", "", gin.H{"email": "s@example.com", "password": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := signup(t, a, "s@example.com", "")

	w, env := do(t, a, http.MethodPost, "/api/register", "", gin.H{"email": "s@example.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Code)

	w, _ = do(t, a, http.MethodPost, "/api/login", "", gin.H{"email": "s@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w, env = do(t, a, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	decode(t, env.Data, &me)
	assert.Equal(t, "s@example.com", me.Email)
	assert.Equal(t, model.Student, me.Role)
	assert.NotContains(t, string(env.Data), "hashed_password")

	w, env = do(t, a, http.MethodPut, "/api/users/me", token, gin.H{"full_name": "Sam Student"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &me)
	require.NotNil(t, me.FullName)
	assert.Equal(t, "Sam Student", *me.FullName)

	w, _ = do(t, a, http.MethodPut, "/api/users/me/password", token, gin.H{"old_password": "pa55word!", "new_password": "n3w-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	login(t, a, "s@example.com", "n3w-pass")

	w, _ = do(t, a, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/assignments"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/virtual-tutor/recommendations"},
		{http.MethodPost, "/api/files/upload"},
	} {
		w, _ := do(t, a, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)

		w, _ = do(t, a, tc.method, tc.path, "garbage.token.value", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestAssignmentLifecycle(t *testing.T) {
	a := newTestApp(t)
	student := signup(t, a, "stu@example.com", "student")
	teacher := signup(t, a, "tea@example.com", "teacher")

	body := gin.H{
		"title":       "Budget memo",
		"description": "One page",
		"module_name": "finance",
		"due_date":    "2030-01-15T09:30:00Z",
	}
	w, _ := do(t, a, http.MethodPost, "/api/assignments", student, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := do(t, a, http.MethodPost, "/api/assignments", teacher, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Assignment
	decode(t, env.Data, &created)
	require.NotZero(t, created.ID)

	w, env = do(t, a, http.MethodGet, "/api/assignments", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Assignment
	decode(t, env.Data, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Budget memo", list[0].Title)
	assert.Equal(t, "One page", *list[0].Description)
	assert.Equal(t, "finance", *list[0].ModuleName)
	assert.Equal(t, "2030-01-15T09:30:00Z", list[0].DueDate.UTC().Format("2006-01-02T15:04:05Z07:00"))

	w, _ = do(t, a, http.MethodPost, "/api/assignments/9999/submit", student, gin.H{"content_text": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	path := "/api/assignments/" + jsonNumber(created.ID)
	w, env = do(t, a, http.MethodPost, path+"/submit", student, nil)
	require.Equal(t, http.StatusCreated, w.Code, "empty body is an empty submission: %s", w.Body.String())
	var empty model.Submission
	decode(t, env.Data, &empty)
	assert.Nil(t, empty.ContentText)
	assert.Nil(t, empty.ContentURL)

	req := httptest.NewRequest(http.MethodPost, path+"/submit", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+student)
	bad := httptest.NewRecorder()
	a.Router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Contains(t, bad.Body.String(), "invalid submission body")

	w, env = do(t, a, http.MethodPost, path+"/submit", student, gin.H{"content_text": "my memo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub model.Submission
	decode(t, env.Data, &sub)

	w, _ = do(t, a, http.MethodPost, path+"/grade", student, gin.H{"id": sub.ID, "grade": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, a, http.MethodPost, path+"/grade", teacher, gin.H{"id": sub.ID, "grade": 101})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, a, http.MethodPost, path+"/grade", teacher, gin.H{"id": sub.ID, "grade": 60, "feedback": "first pass"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, a, http.MethodPost, path+"/grade", teacher, gin.H{"id": sub.ID, "grade": 0, "feedback": "final"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &sub)
	assert.Equal(t, 0, *sub.Grade)
	assert.Equal(t, "final", *sub.Feedback)

	w, _ = do(t, a, http.MethodPost, "/api/assignments/9999/grade", teacher, gin.H{"id": sub.ID, "grade": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, a, http.MethodGet, path+"/submissions", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []model.Submission
	decode(t, env.Data, &subs)
	require.Len(t, subs, 2)
	graded := 0
	for _, s := range subs {
		if s.ID == sub.ID {
			graded++
			assert.Equal(t, "final", *s.Feedback)
		} else {
			assert.Nil(t, s.Grade)
		}
	}
	assert.Equal(t, 1, graded)

	w, env = do(t, a, http.MethodGet, "/api/assignments?page=1&limit=10", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
	}
	decode(t, env.Data, &page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 10, page.Limit)
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestAssessmentEndpoint(t *testing.T) {
	a := newTestApp(t)
	body := gin.H{"question": "Explain the differences between profit and revenue.", "level": "L2", "major": "Business"}

	w, env := do(t, a, http.MethodPost, "/api/assessments", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res service.AssessmentResult
	decode(t, env.Data, &res)
	assert.Equal(t, 42, res.DifficultyScore)
	assert.Contains(t, res.Advice, "Business")

	w, _ = do(t, a, http.MethodPost, "/api/assessments", "", gin.H{"question": "q", "level": "L4", "major": "IT"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, a, http.MethodPost, "/api/assessments", "", gin.H{"question": "", "level": "L2", "major": "IT"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &res)
	assert.Equal(t, 50, res.DifficultyScore)

	token := signup(t, a, "assess@example.com", "")
	w, _ = do(t, a, http.MethodPost, "/api/assessments", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, a, http.MethodGet, "/api/assessments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []model.Assessment
	decode(t, env.Data, &mine)
	assert.Len(t, mine, 1, "anonymous assessment is not attributed to anyone")
}

func TestAssessmentPersistenceFailureStill200(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.DB.Migrator().DropTable(&model.Assessment{}))

	w, env := do(t, a, http.MethodPost, "/api/assessments", "", gin.H{"question": "q", "level": "L3", "major": "IT"})
	require.Equal(t, http.StatusOK, w.Code)
	var res service.AssessmentResult
	decode(t, env.Data, &res)
	assert.Equal(t, 70, res.DifficultyScore)
}

func TestProgressAndRecommendations(t *testing.T) {
	a := newTestApp(t)
	token := signup(t, a, "learner@example.com", "")
	other := signup(t, a, "other@example.com", "")

	w, env := do(t, a, http.MethodGet, "/api/virtual-tutor/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reply service.AssistantReply
	decode(t, env.Data, &reply)
	assert.Empty(t, reply.Recommendations)
	assert.Contains(t, string(env.Data), `"recommendations":[]`)

	w, _ = do(t, a, http.MethodPost, "/api/progress", token, gin.H{"module_name": "algebra", "progress_percentage": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = do(t, a, http.MethodPost, "/api/progress", other, gin.H{"module_name": "history", "progress_percentage": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, a, http.MethodGet, "/api/virtual-tutor/recommendations?prompt=give+me+a+plan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &reply)
	require.Len(t, reply.Recommendations, 2)
	assert.Equal(t, "algebra", reply.Recommendations[0].Module)
	assert.Equal(t, "study-plan", reply.Recommendations[1].Module)
	require.Len(t, reply.Actions, 1)

	w, env = do(t, a, http.MethodPost, "/api/assistant/query", token, gin.H{"prompt": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &reply)
	assert.NotEmpty(t, reply.Answer)

	w, env = do(t, a, http.MethodGet, "/api/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []model.StudentProgress
	decode(t, env.Data, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Attempts)
}

func TestFileUpload(t *testing.T) {
	a := newTestApp(t)
	token := signup(t, a, "up@example.com", "")
	content := []byte("%PDF-1.4 quarterly report")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var res service.UploadResult
	decode(t, env.Data, &res)
	assert.NotEmpty(t, res.ID)
	assert.NotEqual(t, "report.pdf", res.Filename)

	stored, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	w2, env2 := do(t, a, http.MethodGet, "/api/files", token, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	var files []model.UserFile
	decode(t, env2.Data, &files)
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", files[0].OriginalFilename)
}

func TestUploadWithoutFilePart(t *testing.T) {
	a := newTestApp(t)
	token := signup(t, a, "nofile@example.com", "")

	w, _ := do(t, a, http.MethodPost, "/api/files/upload", token, gin.H{"x": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDeactivate(t *testing.T) {
	a := newTestApp(t)
	victim := signup(t, a, "victim@example.com", "teacher")

	_, err := a.services.auth.EnsureSuperuser(context.Background(), "root@example.com", "r00t-pass")
	require.NoError(t, err)
	root := login(t, a, "root@example.com", "r00t-pass")

	w, env := do(t, a, http.MethodGet, "/api/users/me", victim, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	decode(t, env.Data, &me)

	w, _ = do(t, a, http.MethodPatch, "/api/admin/users/"+me.ID+"/deactivate", victim, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "teachers are not superusers")

	w, _ = do(t, a, http.MethodPatch, "/api/admin/users/"+me.ID+"/deactivate", root, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, a, http.MethodGet, "/api/users/me", victim, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "existing tokens stop working")

	w, _ = do(t, a, http.MethodPatch, "/api/admin/users/does-not-exist/deactivate", root, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
