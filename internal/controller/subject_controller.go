package controller

import (
	"errors"
	"strconv"

	"smart_edu_backend/internal/service"
	"smart_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	Service *service.SubjectService
}

func NewSubjectController(svc *service.SubjectService) *SubjectController {
	return &SubjectController{Service: svc}
}

// @Summary 创建科目
// @Tags 科目管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateSubjectRequest true "科目信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req service.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subject, err := c.Service.Create(req, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, subject)
}

// @Summary 获取科目列表
// @Tags 科目管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.Service.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 获取科目详情
// @Tags 科目管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	subject, err := c.Service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 删除科目
// @Tags 科目管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
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
