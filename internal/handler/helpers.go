package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/pkg/errcode"
	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
	"github.com/edukits/ragtutor/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrEmptyQuestion):
		response.Error(c, errcode.ErrEmptyQuestion, "question cannot be empty")
	case errors.Is(err, appErr.ErrReadOnly):
		response.Error(c, errcode.ErrReadOnly, "server is in read-only mode")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid), errors.Is(err, appErr.ErrDimensionMismatch):
		response.Error(c, errcode.ErrInvalid, err.Error())
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
