package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,

	// 认证错误 (2000-2999)
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrTokenExpired:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,

	// 请求错误 (3000-3999)
	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,

	// 业务错误 (4000-4999)
	ErrUserNotFound:     http.StatusNotFound,
	ErrUserExists:       http.StatusConflict,
	ErrWeakPassword:     http.StatusBadRequest,
	ErrPostNotFound:     http.StatusNotFound,
	ErrCategoryNotFound: http.StatusNotFound,
	ErrCommentNotFound:  http.StatusNotFound,
	ErrNotOwner:         http.StatusForbidden,
}

// HTTPStatus 返回错误对应的HTTP状态码
func HTTPStatus(err error) int {
	if appErr, ok := err.(*AppError); ok {
		if status, ok := errorStatusMap[appErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// HandleError 统一处理错误响应，渲染对应的HTML错误页。
// 错误同时挂到 gin 上下文供错误监控中间件统计。
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := HTTPStatus(err)
	if status == http.StatusNotFound {
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"Title": "页面未找到",
		})
		return
	}

	c.HTML(status, "500.html", gin.H{
		"Title": "服务器错误",
	})
}
