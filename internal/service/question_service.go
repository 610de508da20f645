package service

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/repository"
)

// CreateQuestionRequest 教师手工录题
type CreateQuestionRequest struct {
	SubjectID     uint     `json:"subject_id" binding:"required"`
	Content       string   `json:"content" binding:"required"`
	QuestionType  string   `json:"question_type" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Chapter       string   `json:"chapter"`
	Topic         string   `json:"topic"`
	BloomLevel    string   `json:"bloom_level"`
	EstimatedTime int      `json:"estimated_time_minutes"`
}

type ListQuestionsRequest struct {
	SubjectID    uint   `form:"subject_id"`
	QuestionType string `form:"question_type"`
	Difficulty   string `form:"difficulty"`
	Source       string `form:"source"`
	Chapter      string `form:"chapter"`
	Page         int    `form:"page,default=1"`
	PageSize     int    `form:"page_size,default=20"`
}

type QuestionService struct {
	questionRepo *repository.QuestionRepository
	subjectRepo  *repository.SubjectRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, subjectRepo *repository.SubjectRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, subjectRepo: subjectRepo}
}

// Create 手工录入走和模型产出相同的校验，保证入库约束一致
func (s *QuestionService) Create(req CreateQuestionRequest, userID uint) (*model.Question, error) {
	if _, err := s.subjectRepo.GetByID(req.SubjectID); err != nil {
		return nil, err
	}

	raw := map[string]interface{}{
		"question":       req.Content,
		"type":           req.QuestionType,
		"correct_answer": req.CorrectAnswer,
	}
	if len(req.Options) > 0 {
		options := make([]interface{}, len(req.Options))
		for i, o := range req.Options {
			options[i] = o
		}
		raw["options"] = options
	}
	if req.Difficulty != "" {
		raw["difficulty"] = req.Difficulty
	}
	if req.BloomLevel != "" {
		raw["bloom_level"] = req.BloomLevel
	}
	if req.Explanation != "" {
		raw["explanation"] = req.Explanation
	}
	if req.EstimatedTime > 0 {
		raw["estimated_time_minutes"] = req.EstimatedTime
	}

	outcome := ValidateCandidate(raw, "", model.Medium)
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	candidate := outcome.Candidate

	var options json.RawMessage
	if len(candidate.Options) > 0 {
		encoded, err := json.Marshal(candidate.Options)
		if err != nil {
			return nil, err
		}
		options = encoded
	}

	question := &model.Question{
		SubjectID:     req.SubjectID,
		Content:       candidate.Text,
		QuestionType:  candidate.Type,
		Options:       options,
		CorrectAnswer: candidate.CorrectAnswer,
		Explanation:   candidate.Explanation,
		Difficulty:    candidate.Difficulty,
		Chapter:       req.Chapter,
		Topic:         req.Topic,
		BloomLevel:    candidate.BloomLevel,
		EstimatedTime: candidate.EstimatedTime,
		Source:        model.SourceHuman,
		CreatedBy:     userID,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) List(req ListQuestionsRequest) ([]model.Question, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}
	filter := repository.QuestionFilter{
		SubjectID:    req.SubjectID,
		QuestionType: model.QuestionType(req.QuestionType),
		Difficulty:   model.Difficulty(req.Difficulty),
		Source:       model.QuestionSource(req.Source),
		Chapter:      req.Chapter,
	}
	return s.questionRepo.List(filter, req.Page, req.PageSize)
}

func (s *QuestionService) GetByID(id uint) (*model.Question, error) {
	return s.questionRepo.GetByID(id)
}

func (s *QuestionService) Delete(id uint) error {
	return s.questionRepo.Delete(id)
}

// ExportCSV 用游标逐行导出题库，始终按入库时间倒序，不把全量结果载入内存
func (s *QuestionService) ExportCSV(filter repository.QuestionFilter, w io.Writer) error {
	cursor, err := s.questionRepo.Fetch(filter)
	if err != nil {
		return err
	}
	defer cursor.Close()

	writer := csv.NewWriter(w)
	header := []string{"id", "subject_id", "content", "type", "options", "correct_answer",
		"difficulty", "chapter", "topic", "bloom_level", "estimated_time", "source", "created_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for cursor.Next() {
		q := cursor.Question()
		record := []string{
			strconv.FormatUint(uint64(q.ID), 10),
			strconv.FormatUint(uint64(q.SubjectID), 10),
			q.Content,
			string(q.QuestionType),
			string(q.Options),
			q.CorrectAnswer,
			string(q.Difficulty),
			q.Chapter,
			q.Topic,
			string(q.BloomLevel),
			strconv.Itoa(q.EstimatedTime),
			string(q.Source),
			q.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}
