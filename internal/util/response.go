package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// HandleError 按错误类别写出结构化错误响应；5xx 只返回通用信息，原因写日志
func HandleError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		log.Error("Internal server error", zap.String("path", c.FullPath()), zap.Error(err))
		InternalServerError(c)
		return
	}

	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err),
		)
		Error(c, status, appErr.Message)
		return
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	Error(c, status, appErr.Message)
}
