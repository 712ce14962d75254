package controller

import (
	"edu_core_backend/internal/middleware"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService *service.AuthService
	log         *zap.Logger
}

func NewAuthController(authService *service.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{AuthService: authService, log: log}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role" binding:"omitempty,oneof=student teacher"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用邮箱和密码注册，角色默认为 student
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     model.UserRole(req.Role),
	})
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}

	util.Created(ctx, user)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户身份并返回 JWT 令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=service.TokenPair} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pair, _, err := c.AuthService.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, pair)
}

// Logout godoc
// @Summary 注销
// @Description 吊销当前令牌直到其过期
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.HandleError(ctx, c.log, util.ErrTokenInvalid)
		return
	}
	if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, nil)
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/users/me [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		util.HandleError(ctx, c.log, util.ErrTokenInvalid)
		return
	}
	util.Success(ctx, user)
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
}

// UpdateProfile godoc
// @Summary 更新当前用户资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/users/me [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user := middleware.CurrentUser(ctx)
	updated, err := c.AuthService.UpdateProfile(ctx.Request.Context(), user.ID, req.FullName)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, updated)
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChangePasswordRequest true "旧密码与新密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/users/me/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user := middleware.CurrentUser(ctx)
	if err := c.AuthService.ChangePassword(ctx.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, nil)
}
