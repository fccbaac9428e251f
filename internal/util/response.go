package util

import (
	"errors"
	"net/http"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/logger"

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

// ErrorsBody 校验失败时 data 的结构
type ErrorsBody struct {
	Errors validation.Errors `json:"errors"`
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

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
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

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// ValidationFailed 400，唯一性冲突交给 Conflict
func ValidationFailed(c *gin.Context, verr *validation.Error) {
	if verr.Conflict {
		Conflict(c, verr.Fields)
		return
	}
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
		Data:    ErrorsBody{Errors: verr.Fields},
	})
}

func Conflict(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusConflict, Response{
		Code:    http.StatusConflict,
		Message: "conflict",
		Data:    ErrorsBody{Errors: errs},
	})
}

// HandleError 按错误类型输出响应，未知错误记日志后返回 500
func HandleError(c *gin.Context, err error) {
	if verr, ok := validation.As(err); ok {
		ValidationFailed(c, verr)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		NotFound(c)
	case errors.Is(err, ErrInvalidFile):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}

func Paged(c *gin.Context, list interface{}, total int64, page, limit int) {
	Success(c, PageResponse{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
