package controller

import (
	"edu_core_backend/internal/middleware"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssistantController struct {
	AssistantService *service.AssistantService
	log              *zap.Logger
}

func NewAssistantController(assistantService *service.AssistantService, log *zap.Logger) *AssistantController {
	return &AssistantController{AssistantService: assistantService, log: log}
}

// Recommendations godoc
// @Summary 虚拟导师建议
// @Description 根据当前用户的学习进度给出复习建议；prompt 含计划类关键词时附带学习计划
// @Tags 助手
// @Produce  json
// @Security ApiKeyAuth
// @Param   prompt query string false "提问"
// @Success 200 {object} util.Response{data=service.AssistantReply}
// @Router /api/virtual-tutor/recommendations [get]
func (c *AssistantController) Recommendations(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	reply, err := c.AssistantService.Recommend(ctx.Request.Context(), user.ID, ctx.Query("prompt"))
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, reply)
}

// swagger:model AssistantQueryRequest
type AssistantQueryRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

// Query godoc
// @Summary 助手问答
// @Tags 助手
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AssistantQueryRequest true "提问"
// @Success 200 {object} util.Response{data=service.AssistantReply}
// @Router /api/assistant/query [post]
func (c *AssistantController) Query(ctx *gin.Context) {
	var req AssistantQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user := middleware.CurrentUser(ctx)
	reply, err := c.AssistantService.Query(ctx.Request.Context(), user.ID, req.Prompt)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, reply)
}
