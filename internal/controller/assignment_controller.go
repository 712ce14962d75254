package controller

import (
	"edu_core_backend/internal/middleware"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	log               *zap.Logger
}

func NewAssignmentController(assignmentService *service.AssignmentService, log *zap.Logger) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService, log: log}
}

// CreateAssignment godoc
// @Summary 布置作业
// @Description 仅教师或超级管理员
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateAssignmentRequest true "作业信息"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AssignmentService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Created(ctx, a)
}

// ListAssignments godoc
// @Summary 作业列表
// @Description 默认返回全部；传入 page 或 limit 时分页
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	page, limit, paged, err := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}

	if !paged {
		as, err := c.AssignmentService.ListAll(ctx.Request.Context())
		if err != nil {
			util.HandleError(ctx, c.log, err)
			return
		}
		util.Success(ctx, as)
		return
	}

	as, total, err := c.AssignmentService.ListPage(ctx.Request.Context(), page, limit)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: as, Total: total, Page: page, Limit: limit})
}

// Submit godoc
// @Summary 提交作业
// @Description 每次提交新增一条记录
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "作业ID"
// @Param   body body service.SubmitRequest true "提交内容"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"), "assignment id")
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	// 两个字段都可选，空请求体按 {} 处理
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, "invalid submission body: "+err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	sub, err := c.AssignmentService.Submit(ctx.Request.Context(), id, user.ID, req)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Created(ctx, sub)
}

// Grade godoc
// @Summary 批改作业
// @Description 仅教师或超级管理员；grade 取值 0-100，重复批改以最后一次为准
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "作业ID"
// @Param   body body service.GradeRequest true "批改内容"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/grade [post]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"), "assignment id")
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	var req service.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grader := middleware.CurrentUser(ctx)
	sub, err := c.AssignmentService.Grade(ctx.Request.Context(), id, grader.ID, req)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, sub)
}

// ListSubmissions godoc
// @Summary 作业的全部提交
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"), "assignment id")
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	subs, err := c.AssignmentService.ListSubmissions(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, subs)
}
