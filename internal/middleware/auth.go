package middleware

import (
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextCurrentUserKey 认证通过后从数据库取出的当前用户
const ContextCurrentUserKey = "currentUser"

type Capability int

const (
	// CapInstructor 教师或超级管理员
	CapInstructor Capability = iota
	CapSuperuser
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func authenticate(c *gin.Context, authSvc *service.AuthService, token string) error {
	claims, err := authSvc.VerifyToken(c.Request.Context(), token)
	if err != nil {
		return err
	}
	user, err := authSvc.ActiveUser(c.Request.Context(), claims.UserID)
	if err != nil {
		return err
	}
	c.Set(util.ContextUserKey, claims)
	c.Set(ContextCurrentUserKey, user)
	return nil
}

// AuthMiddleware 要求有效的 Bearer 令牌且用户仍处于激活状态
func AuthMiddleware(authSvc *service.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.HandleError(c, log, util.ErrTokenInvalid)
			c.Abort()
			return
		}

		if err := authenticate(c, authSvc, token); err != nil {
			log.Debug("authentication rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.HandleError(c, log, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// TryAuthMiddleware 令牌可选：有效则注入用户，无效或缺失时按匿名继续
func TryAuthMiddleware(authSvc *service.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if err := authenticate(c, authSvc, token); err != nil {
				log.Debug("optional authentication ignored", zap.Error(err))
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextCurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// RequireCapability 基于数据库中的当前用户判断权限，令牌里的角色可能已过时
func RequireCapability(cap Capability, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.HandleError(c, log, util.ErrTokenInvalid)
			c.Abort()
			return
		}

		allowed := false
		switch cap {
		case CapInstructor:
			allowed = user.IsInstructor()
		case CapSuperuser:
			allowed = user.IsSuperuser
		}
		if !allowed {
			util.HandleError(c, log, util.ErrInsufficientRole)
			c.Abort()
			return
		}
		c.Next()
	}
}
