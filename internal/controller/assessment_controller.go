package controller

import (
	"edu_core_backend/internal/middleware"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
	log               *zap.Logger
}

func NewAssessmentController(assessmentService *service.AssessmentService, log *zap.Logger) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService, log: log}
}

// Assess godoc
// @Summary 题目难度评估
// @Description 匿名可用；携带有效令牌时结果归属当前用户。保存失败不影响返回。
// @Tags 评估
// @Accept  json
// @Produce  json
// @Param   body body service.AssessmentRequest true "题目"
// @Success 200 {object} util.Response{data=service.AssessmentResult}
// @Failure 400 {object} util.Response
// @Router /api/assessments [post]
func (c *AssessmentController) Assess(ctx *gin.Context) {
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var ownerID *string
	if user := middleware.CurrentUser(ctx); user != nil {
		ownerID = &user.ID
	}

	res, err := c.AssessmentService.Assess(ctx.Request.Context(), req, ownerID)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, res)
}

// ListMine godoc
// @Summary 我的评估记录
// @Tags 评估
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Assessment}
// @Router /api/assessments [get]
func (c *AssessmentController) ListMine(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	as, err := c.AssessmentService.ListMine(ctx.Request.Context(), user.ID)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, as)
}
