package controller

import (
	"errors"
	"strconv"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/repository"
	"smart_edu_backend/internal/service"
	"smart_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 手工录入题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateQuestionRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	question, err := c.Service.Create(req, claims.UserID)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			util.BadRequest(ctx, vErr.Error())
			return
		}
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 查询题库
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param subject_id query int false "科目ID"
// @Param question_type query string false "题型" Enums(mcq, short, long, true_false)
// @Param difficulty query string false "难度" Enums(easy, medium, hard)
// @Param source query string false "来源" Enums(human, ai)
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	var req service.ListQuestionsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, total, err := c.Service.List(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: total,
		Page:  req.Page,
		Limit: req.PageSize,
	})
}

// @Summary 获取题目详情
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	question, err := c.Service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 导出题库 CSV
// @Tags 题库管理
// @Produce text/csv
// @Security BearerAuth
// @Param subject_id query int false "科目ID"
// @Param question_type query string false "题型"
// @Param difficulty query string false "难度"
// @Param source query string false "来源"
// @Success 200 {string} string
// @Router /api/teacher/questions/export [get]
func (c *QuestionController) Export(ctx *gin.Context) {
	var req service.ListQuestionsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	filter := repository.QuestionFilter{
		SubjectID:    req.SubjectID,
		QuestionType: model.QuestionType(req.QuestionType),
		Difficulty:   model.Difficulty(req.Difficulty),
		Source:       model.QuestionSource(req.Source),
		Chapter:      req.Chapter,
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="question_bank.csv"`)
	if err := c.Service.ExportCSV(filter, ctx.Writer); err != nil {
		util.LogInternalError(ctx, err)
	}
}

// @Summary 删除题目
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Service.Delete(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
