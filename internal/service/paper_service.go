package service

import (
	"context"
	"fmt"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/repository"
	"smart_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// SourcePolicy 组卷取题策略
type SourcePolicy string

const (
	SourceBankOnly   SourcePolicy = "bank"
	SourceAIOnly     SourcePolicy = "ai"
	SourceBankThenAI SourcePolicy = "bank_then_ai"
)

// SectionSpec 试卷中一个版块的要求
type SectionSpec struct {
	QuestionType     model.QuestionType `json:"question_type" binding:"required"`
	Count            int                `json:"count" binding:"required,min=1"`
	MarksPerQuestion int                `json:"marks_per_question" binding:"required,min=1"`
}

// PaperRequest 组卷请求。DeclaredTotal 仅作声明值，计算值才是权威
type PaperRequest struct {
	Title           string
	SubjectID       uint
	Difficulty      model.Difficulty
	DurationMinutes int
	DeclaredTotal   int
	Policy          SourcePolicy
	Sections        []SectionSpec
}

// PaperSection 组装完成的版块
type PaperSection struct {
	Heading          string           `json:"heading"`
	Note             string           `json:"note"`
	QuestionType     model.QuestionType `json:"question_type"`
	Questions        []model.Question `json:"questions"`
	MarksPerQuestion int              `json:"marks_per_question"`
	SectionTotal     int              `json:"section_total"`
}

// AssembledPaper 完整试卷，GrandTotal 由各版块合计重新计算得出
type AssembledPaper struct {
	Title           string         `json:"title"`
	SubjectID       uint           `json:"subject_id"`
	DurationMinutes int            `json:"duration_minutes"`
	Sections        []PaperSection `json:"sections"`
	GrandTotal      int            `json:"grand_total"`
	Warnings        []string       `json:"warnings,omitempty"`
}

// InsufficientQuestionsError 某个版块在回退之后仍然凑不够题
type InsufficientQuestionsError struct {
	QuestionType model.QuestionType
	Requested    int
	Available    int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("insufficient questions for section %s: requested %d, available %d",
		e.QuestionType, e.Requested, e.Available)
}

// questionSampler 题库随机抽样，返回数量可能少于请求值
type questionSampler interface {
	Sample(filter repository.QuestionFilter, limit int) ([]model.Question, error)
}

// questionGenerator 出题管线入口，用于题库不足时的回退
type questionGenerator interface {
	Generate(ctx context.Context, userID uint, req GenerationRequest) (*GenerationOutcome, error)
}

type PaperService struct {
	sampler   questionSampler
	generator questionGenerator
}

func NewPaperService(sampler questionSampler, generator questionGenerator) *PaperService {
	return &PaperService{sampler: sampler, generator: generator}
}

// 版块固定按此顺序排列，与请求顺序无关
var canonicalOrder = []model.QuestionType{
	model.MCQ,
	model.Short,
	model.Long,
	model.TrueFalse,
}

var sectionHeadings = map[model.QuestionType]string{
	model.MCQ:       "Multiple Choice Questions",
	model.Short:     "Short Answer Questions",
	model.Long:      "Long Answer Questions",
	model.TrueFalse: "True/False Questions",
}

var sectionNotes = map[model.QuestionType]string{
	model.MCQ:       "Choose the single correct option for each question.",
	model.Short:     "Answer each question in two to three sentences.",
	model.Long:      "Answer each question in detail, showing your reasoning.",
	model.TrueFalse: "State whether each statement is true or false.",
}

// 版块填充状态机
type fillState int

const (
	fillSampling fillState = iota
	fillFilling
	fillSatisfied
	fillDeficient
)

// fillSection 为一个版块凑题：先抽题库（策略允许时），不足则转入 AI
// 回退，仍不足则标记为缺额。回退出题统一按混合难度请求
func (s *PaperService) fillSection(ctx context.Context, userID uint, req PaperRequest, spec SectionSpec) ([]model.Question, error) {
	var questions []model.Question
	state := fillSampling
	if req.Policy == SourceAIOnly {
		state = fillFilling
	}

	for {
		switch state {
		case fillSampling:
			filter := repository.QuestionFilter{
				SubjectID:    req.SubjectID,
				QuestionType: spec.QuestionType,
			}
			if req.Difficulty != "" && req.Difficulty != model.MixedDifficulty {
				filter.Difficulty = req.Difficulty
			}
			sampled, err := s.sampler.Sample(filter, spec.Count)
			if err != nil {
				return nil, err
			}
			questions = sampled
			if len(questions) >= spec.Count {
				state = fillSatisfied
			} else if req.Policy == SourceBankThenAI {
				state = fillFilling
			} else {
				state = fillDeficient
			}

		case fillFilling:
			shortfall := spec.Count - len(questions)
			outcome, err := s.generator.Generate(ctx, userID, GenerationRequest{
				SubjectID:    req.SubjectID,
				Difficulty:   model.MixedDifficulty,
				QuestionType: spec.QuestionType,
				Count:        shortfall,
			})
			if err != nil {
				logger.Log.Warn("AI fallback failed during paper assembly",
					zap.String("type", string(spec.QuestionType)), zap.Error(err))
				state = fillDeficient
				break
			}
			questions = append(questions, outcome.Persisted...)
			if len(questions) >= spec.Count {
				state = fillSatisfied
			} else {
				state = fillDeficient
			}

		case fillSatisfied:
			return questions[:spec.Count], nil

		case fillDeficient:
			return nil, &InsufficientQuestionsError{
				QuestionType: spec.QuestionType,
				Requested:    spec.Count,
				Available:    len(questions),
			}
		}
	}
}

// Assemble 组装试卷。任何版块缺额都使整次组卷失败，不返回残卷
func (s *PaperService) Assemble(ctx context.Context, userID uint, req PaperRequest) (*AssembledPaper, error) {
	if req.Policy == "" {
		req.Policy = SourceBankThenAI
	}

	specs := make(map[model.QuestionType]SectionSpec, len(req.Sections))
	for _, spec := range req.Sections {
		if spec.Count <= 0 {
			continue
		}
		if existing, ok := specs[spec.QuestionType]; ok {
			existing.Count += spec.Count
			specs[spec.QuestionType] = existing
		} else {
			specs[spec.QuestionType] = spec
		}
	}

	paper := &AssembledPaper{
		Title:           req.Title,
		SubjectID:       req.SubjectID,
		DurationMinutes: req.DurationMinutes,
	}

	sectionIndex := 0
	for _, qType := range canonicalOrder {
		spec, ok := specs[qType]
		if !ok {
			continue
		}
		questions, err := s.fillSection(ctx, userID, req, spec)
		if err != nil {
			return nil, err
		}
		sectionIndex++
		section := PaperSection{
			Heading:          fmt.Sprintf("Section %c: %s", 'A'+sectionIndex-1, sectionHeadings[qType]),
			Note:             sectionNotes[qType],
			QuestionType:     qType,
			Questions:        questions,
			MarksPerQuestion: spec.MarksPerQuestion,
			SectionTotal:     spec.Count * spec.MarksPerQuestion,
		}
		paper.Sections = append(paper.Sections, section)
		paper.GrandTotal += section.SectionTotal
	}

	if req.DeclaredTotal > 0 && req.DeclaredTotal != paper.GrandTotal {
		warning := fmt.Sprintf("declared total marks %d differs from computed total %d; using computed value",
			req.DeclaredTotal, paper.GrandTotal)
		paper.Warnings = append(paper.Warnings, warning)
		logger.Log.Warn("paper total mismatch",
			zap.Int("declared", req.DeclaredTotal), zap.Int("computed", paper.GrandTotal))
	}
	return paper, nil
}
