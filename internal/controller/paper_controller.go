package controller

import (
	"errors"
	"net/http"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/service"
	"smart_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AssemblePaperRequest 组卷请求
type AssemblePaperRequest struct {
	Title           string                `json:"title" binding:"required"`
	SubjectID       uint                  `json:"subject_id" binding:"required"`
	Difficulty      string                `json:"difficulty" binding:"omitempty,oneof=easy medium hard mixed"`
	DurationMinutes int                   `json:"duration_minutes"`
	TotalMarks      int                   `json:"total_marks"`
	Policy          string                `json:"policy" binding:"omitempty,oneof=bank ai bank_then_ai"`
	Sections        []service.SectionSpec `json:"sections" binding:"required,min=1,dive"`
	Export          bool                  `json:"export"`
}

type PaperController struct {
	Service  *service.PaperService
	Exporter *service.PaperExporter
}

func NewPaperController(svc *service.PaperService, exporter *service.PaperExporter) *PaperController {
	return &PaperController{Service: svc, Exporter: exporter}
}

// @Summary 组装试卷
// @Tags 试卷
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AssemblePaperRequest true "组卷要求"
// @Success 200 {object} util.Response
// @Router /api/teacher/papers/assemble [post]
func (c *PaperController) Assemble(ctx *gin.Context) {
	var req AssemblePaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	paper, err := c.Service.Assemble(ctx.Request.Context(), claims.UserID, service.PaperRequest{
		Title:           req.Title,
		SubjectID:       req.SubjectID,
		Difficulty:      model.Difficulty(req.Difficulty),
		DurationMinutes: req.DurationMinutes,
		DeclaredTotal:   req.TotalMarks,
		Policy:          service.SourcePolicy(req.Policy),
		Sections:        req.Sections,
	})
	if err != nil {
		var insErr *service.InsufficientQuestionsError
		if errors.As(err, &insErr) {
			util.Error(ctx, http.StatusUnprocessableEntity, insErr.Error())
			return
		}
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	response := gin.H{"paper": paper}
	if req.Export {
		url, err := c.Exporter.Export(ctx.Request.Context(), paper)
		if err != nil {
			paper.Warnings = append(paper.Warnings, "export failed: "+err.Error())
		} else {
			response["export_url"] = url
		}
	}
	util.Success(ctx, response)
}
