package controller

import (
	"errors"
	"net/http"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/service"
	"smart_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GenerateQuestionsRequest AI 出题请求
type GenerateQuestionsRequest struct {
	SubjectID    uint   `json:"subject_id" binding:"required"`
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard mixed"`
	QuestionType string `json:"question_type" binding:"required,oneof=mcq short long true_false mixed"`
	Count        int    `json:"count" binding:"required,min=1,max=20"`
}

type GenerationController struct {
	Service *service.GenerationService
}

func NewGenerationController(svc *service.GenerationService) *GenerationController {
	return &GenerationController{Service: svc}
}

// @Summary AI 生成题目
// @Tags AI 出题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateQuestionsRequest true "出题要求"
// @Success 200 {object} util.Response
// @Router /api/teacher/generate [post]
func (c *GenerationController) Generate(ctx *gin.Context) {
	var req GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	difficulty := model.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = model.MixedDifficulty
	}

	outcome, err := c.Service.Generate(ctx.Request.Context(), claims.UserID, service.GenerationRequest{
		SubjectID:    req.SubjectID,
		Topic:        req.Topic,
		Difficulty:   difficulty,
		QuestionType: model.QuestionType(req.QuestionType),
		Count:        req.Count,
	})
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"questions":   outcome.Persisted,
		"warnings":    outcome.Warnings,
		"tokens_used": outcome.TokensUsed,
	})
}

func (c *GenerationController) respondError(ctx *gin.Context, err error) {
	var gwErr *service.GatewayError
	var exErr *service.ExtractionError
	switch {
	case errors.Is(err, util.ErrQuotaExceeded):
		util.Error(ctx, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, util.ErrSubjectNotFound):
		util.NotFound(ctx)
	case errors.As(err, &gwErr):
		if gwErr.Kind == service.GatewayConfig {
			util.Error(ctx, http.StatusServiceUnavailable, "AI service is not configured")
			return
		}
		util.Error(ctx, http.StatusBadGateway, gwErr.Error())
	case errors.As(err, &exErr):
		util.Error(ctx, http.StatusBadGateway, exErr.Error())
	case errors.Is(err, service.ErrAllBucketsEmpty):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
