package controller

import (
	"errors"
	"net/http"

	"civilpass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 业务错误映射为 HTTP 状态，其余按 500 处理并记录日志
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrEmptyContent):
		util.BadRequest(c, util.ErrEmptyContent.Error())
	case errors.Is(err, util.ErrInvalidCategory),
		errors.Is(err, util.ErrInvalidFileType),
		errors.Is(err, util.ErrFileTooLarge):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrObjectNotFound), errors.Is(err, util.ErrReviewNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrInvalidPassword):
		util.Error(c, http.StatusUnauthorized, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
