package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edukits/ragtutor/internal/model"
	"github.com/edukits/ragtutor/internal/pkg/errcode"
	"github.com/edukits/ragtutor/internal/pkg/response"
	"github.com/edukits/ragtutor/internal/service"
)

type AskHandler struct {
	answers *service.AnswerService
}

func NewAskHandler(answers *service.AnswerService) *AskHandler {
	return &AskHandler{answers: answers}
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.answers.Answer(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
