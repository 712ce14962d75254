package controller

import (
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserController 管理员对用户的操作
type UserController struct {
	AuthService *service.AuthService
	log         *zap.Logger
}

func NewUserController(authService *service.AuthService, log *zap.Logger) *UserController {
	return &UserController{AuthService: authService, log: log}
}

// Deactivate godoc
// @Summary 停用用户
// @Description 仅超级管理员；停用后该用户的令牌立即失效
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/deactivate [patch]
func (c *UserController) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		util.BadRequest(ctx, "user id is required")
		return
	}
	if err := c.AuthService.Deactivate(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "is_active": false})
}
