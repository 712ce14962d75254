package service

import (
	"context"
	"edu_core_backend/internal/config"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/util"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
	Revoker  TokenRevoker
	log      *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, revoker TokenRevoker, log *zap.Logger) *AuthService {
	if revoker == nil {
		revoker = NoopTokenRevoker{}
	}
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Revoker:  revoker,
		log:      log.With(zap.String("service", "auth")),
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName *string
	Role     model.UserRole
}

type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, util.ValidationError("email is required")
	}
	if err := ValidatePassword(in.Password, s.Cfg.Auth.MaxPasswordLength); err != nil {
		return nil, err
	}

	role := in.Role
	switch role {
	case "":
		role = model.Student
	case model.Student, model.Teacher:
	default:
		return nil, util.ValidationError("invalid role")
	}

	exists, err := s.UserRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, util.StorageError("lookup user", err)
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}

	hashed, err := HashPassword(in.Password, s.Cfg.Auth.BcryptCost)
	if err != nil {
		return nil, util.InternalError("hash password", err)
	}

	user := &model.User{
		Email:          email,
		HashedPassword: hashed,
		FullName:       in.FullName,
		Role:           role,
		IsActive:       true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		// 并发注册时唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, util.StorageError("create user", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate 邮箱不存在与密码错误返回同一个错误
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*TokenPair, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrInvalidCredentials
		}
		return nil, nil, util.StorageError("lookup user", err)
	}

	if !VerifyPassword(password, user.HashedPassword) {
		return nil, nil, util.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, util.ErrInactiveUser
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, nil, util.InternalError("sign token", err)
	}
	return &TokenPair{AccessToken: token, TokenType: "bearer"}, user, nil
}

// VerifyToken 校验签名、过期时间以及是否已注销
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		if util.IsTokenExpired(err) {
			s.log.Debug("expired token presented")
		}
		return nil, err
	}

	revoked, err := s.Revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, util.StorageError("check token revocation", err)
	}
	if revoked {
		return nil, util.ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.Revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return util.StorageError("revoke token", err)
	}
	return nil
}

// ActiveUser 取出令牌对应的用户并确认仍处于激活状态
func (s *AuthService) ActiveUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTokenInvalid
		}
		return nil, util.StorageError("lookup user", err)
	}
	if !user.IsActive {
		return nil, util.ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, fullName *string) (*model.User, error) {
	if err := s.UserRepo.UpdateProfile(ctx, userID, fullName); err != nil {
		return nil, util.StorageError("update profile", err)
	}
	return s.ActiveUser(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.ActiveUser(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, user.HashedPassword) {
		return util.ErrInvalidCredentials
	}
	if err := ValidatePassword(newPassword, s.Cfg.Auth.MaxPasswordLength); err != nil {
		return err
	}

	hashed, err := HashPassword(newPassword, s.Cfg.Auth.BcryptCost)
	if err != nil {
		return util.InternalError("hash password", err)
	}
	if err := s.UserRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return util.StorageError("update password", err)
	}
	return nil
}

func (s *AuthService) Deactivate(ctx context.Context, userID string) error {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return util.StorageError("lookup user", err)
	}
	// 已停用的用户再次停用时 MySQL 的 RowsAffected 为 0，存在性以上面的查询为准
	if _, err := s.UserRepo.SetActive(ctx, userID, false); err != nil {
		return util.StorageError("deactivate user", err)
	}
	s.log.Info("user deactivated", zap.String("user_id", userID))
	return nil
}

// EnsureSuperuser 供运维脚本使用：不存在则创建，存在则提升为超级管理员
func (s *AuthService) EnsureSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		if err := s.UserRepo.PromoteToSuperuser(ctx, user.ID); err != nil {
			return nil, util.StorageError("promote user", err)
		}
		user.IsSuperuser = true
		user.IsActive = true
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.StorageError("lookup user", err)
	}

	user, err = s.Register(ctx, RegisterInput{Email: email, Password: password, Role: model.Teacher})
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.PromoteToSuperuser(ctx, user.ID); err != nil {
		return nil, util.StorageError("promote user", err)
	}
	user.IsSuperuser = true
	return user, nil
}
