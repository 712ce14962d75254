package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(db), testutil.Config(t), nil, zap.NewNop())
}

func registerUser(t *testing.T, svc *AuthService, email string, role model.UserRole) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "correct horse battery staple",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
