package controller

import (
	"edu_core_backend/internal/middleware"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	log             *zap.Logger
}

func NewProgressController(progressService *service.ProgressService, log *zap.Logger) *ProgressController {
	return &ProgressController{ProgressService: progressService, log: log}
}

// Record godoc
// @Summary 记录学习进度
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProgressRequest true "进度"
// @Success 200 {object} util.Response{data=model.StudentProgress}
// @Failure 400 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) Record(ctx *gin.Context) {
	var req service.ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user := middleware.CurrentUser(ctx)
	p, err := c.ProgressService.Record(ctx.Request.Context(), user.ID, req)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, p)
}

// List godoc
// @Summary 我的学习进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.StudentProgress}
// @Router /api/progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	rows, err := c.ProgressService.List(ctx.Request.Context(), user.ID)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, rows)
}
