package controller

import (
	"edu_core_backend/internal/middleware"
	"edu_core_backend/internal/service"
	"edu_core_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipart 头部等额外开销
const multipartOverhead = 1 << 20

type FileController struct {
	FileService *service.FileService
	log         *zap.Logger
}

func NewFileController(fileService *service.FileService, log *zap.Logger) *FileController {
	return &FileController{FileService: fileService, log: log}
}

// Upload godoc
// @Summary 上传文件
// @Description multipart 字段名为 file；以随机名保存，返回文件ID、生成的文件名和存储路径
// @Tags 文件
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "文件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/files/upload [post]
func (c *FileController) Upload(ctx *gin.Context) {
	if max := c.FileService.MaxBytes; max > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max+multipartOverhead)
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.Error(ctx, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		util.BadRequest(ctx, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		util.HandleError(ctx, c.log, util.StorageError("open upload", err))
		return
	}
	defer f.Close()

	user := middleware.CurrentUser(ctx)
	res, err := c.FileService.Upload(ctx.Request.Context(), user.ID, fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Created(ctx, res)
}

// List godoc
// @Summary 我的文件
// @Tags 文件
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserFile}
// @Router /api/files [get]
func (c *FileController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	fs, err := c.FileService.List(ctx.Request.Context(), user.ID)
	if err != nil {
		util.HandleError(ctx, c.log, err)
		return
	}
	util.Success(ctx, fs)
}
