package middleware

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	auth   *service.AuthService
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	auth := service.NewAuthService(repository.NewUserRepository(db), testutil.Config(t), nil, zap.NewNop())
	log := zap.NewNop()

	r := gin.New()
	whoami := func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	}
	r.GET("/private", AuthMiddleware(auth, log), whoami)
	r.GET("/optional", TryAuthMiddleware(auth, log), whoami)
	r.GET("/instructor", AuthMiddleware(auth, log), RequireCapability(CapInstructor, log), whoami)
	r.GET("/admin", AuthMiddleware(auth, log), RequireCapability(CapSuperuser, log), whoami)
	r.GET("/no-auth-chain", RequireCapability(CapInstructor, log), whoami)

	return &fixture{auth: auth, router: r}
}

func (f *fixture) tokenFor(t *testing.T, email string, role model.UserRole) (string, *model.User) {
	t.Helper()
	ctx := context.Background()
	user, err := f.auth.Register(ctx, service.RegisterInput{Email: email, Password: "s3cret-pass", Role: role})
	require.NoError(t, err)
	pair, _, err := f.auth.Authenticate(ctx, email, "s3cret-pass")
	require.NoError(t, err)
	return pair.AccessToken, user
}

func (f *fixture) get(path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture(t)
	token, _ := f.tokenFor(t, "a@example.com", model.Student)

	w := f.get("/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = f.get("/private", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.get("/private", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", w.Body.String())

	w = f.get("/private", "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code, "scheme is case-insensitive")
}

func TestAuthMiddlewareRejectsDeactivatedUser(t *testing.T) {
	f := newFixture(t)
	token, user := f.tokenFor(t, "gone@example.com", model.Student)

	require.NoError(t, f.auth.Deactivate(context.Background(), user.ID))

	w := f.get("/private", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	f := newFixture(t)
	token, _ := f.tokenFor(t, "opt@example.com", model.Student)

	w := f.get("/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = f.get("/optional", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = f.get("/optional", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "opt@example.com", w.Body.String())
}

func TestRequireCapability(t *testing.T) {
	f := newFixture(t)
	student, _ := f.tokenFor(t, "stu@example.com", model.Student)
	teacher, _ := f.tokenFor(t, "tea@example.com", model.Teacher)

	_, err := f.auth.EnsureSuperuser(context.Background(), "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	pair, _, err := f.auth.Authenticate(context.Background(), "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	root := pair.AccessToken

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"student is not instructor", "/instructor", student, http.StatusForbidden},
		{"teacher is instructor", "/instructor", teacher, http.StatusOK},
		{"superuser is instructor", "/instructor", root, http.StatusOK},
		{"teacher is not superuser", "/admin", teacher, http.StatusForbidden},
		{"superuser", "/admin", root, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(tt.path, "Bearer "+tt.token)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := f.get("/no-auth-chain", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCapabilityUsesCurrentRecord(t *testing.T) {
	f := newFixture(t)
	token, user := f.tokenFor(t, "promoted@example.com", model.Student)

	w := f.get("/admin", "Bearer "+token)
	require.Equal(t, http.StatusForbidden, w.Code)

	// 令牌签发后才提升为超级管理员，仍应立即生效
	_, err := f.auth.EnsureSuperuser(context.Background(), user.Email, "")
	require.NoError(t, err)

	w = f.get("/admin", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
