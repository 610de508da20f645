package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/util"
	"smart_edu_backend/pkg/logger"
	"smart_edu_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// GenerationOutcome 一次出题请求的完整结果
type GenerationOutcome struct {
	Result     *ReconciliationResult
	Persisted  []model.Question
	Warnings   []string
	TokensUsed int
}

// questionStore 入库接口，生产实现为 repository.QuestionRepository
type questionStore interface {
	Create(question *model.Question) error
}

type subjectStore interface {
	GetByID(id uint) (*model.Subject, error)
}

type interactionStore interface {
	Create(interaction *model.AIInteraction) error
}

type GenerationService struct {
	gateway         ModelGateway
	questionRepo    questionStore
	subjectRepo     subjectStore
	interactionRepo interactionStore
	redis           *redis.Client
	dailyQuota      int
}

func NewGenerationService(
	gateway ModelGateway,
	questionRepo questionStore,
	subjectRepo subjectStore,
	interactionRepo interactionStore,
	redisClient *redis.Client,
	dailyQuota int,
) *GenerationService {
	return &GenerationService{
		gateway:         gateway,
		questionRepo:    questionRepo,
		subjectRepo:     subjectRepo,
		interactionRepo: interactionRepo,
		redis:           redisClient,
		dailyQuota:      dailyQuota,
	}
}

var typeInstructions = map[model.QuestionType]string{
	model.MCQ:       "multiple choice questions with exactly 4 options each",
	model.Short:     "short answer questions (2-3 sentence answers)",
	model.Long:      "long answer questions requiring detailed explanations",
	model.TrueFalse: "true/false questions",
	model.MixedType: "a mix of multiple choice, short answer, long answer and true/false questions",
}

// BuildPrompt 把出题请求组装成角色化的提示词
func BuildPrompt(req GenerationRequest) (systemPrompt, userPrompt string) {
	systemPrompt = "You are an experienced university examiner. " +
		"You respond with a single JSON object of the form " +
		`{"questions": [...]} and nothing else. Each question object has the fields: ` +
		`question, type (mcq|short|long|true_false), difficulty (easy|medium|hard), ` +
		`options (only for mcq and true_false), correct_answer, explanation, ` +
		`estimated_time_minutes, bloom_level.`

	difficulty := string(req.Difficulty)
	if req.Difficulty == model.MixedDifficulty {
		difficulty = "a mix of easy, medium and hard"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d %s for the subject %q",
		req.Count, typeInstructions[req.QuestionType], req.Subject)
	if req.Topic != "" {
		fmt.Fprintf(&b, " on the topic %q", req.Topic)
	}
	fmt.Fprintf(&b, ". Difficulty: %s.", difficulty)
	return systemPrompt, b.String()
}

// checkQuota 基于 Redis 的每日出题配额，键按自然日过期
func (s *GenerationService) checkQuota(ctx context.Context, userID uint) error {
	if s.redis == nil || s.dailyQuota <= 0 {
		return nil
	}
	now := time.Now()
	key := fmt.Sprintf("ai:quota:%d:%s", userID, now.Format("2006-01-02"))
	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		// Redis 不可用时不阻断业务
		logger.Log.Warn("quota check skipped", zap.Error(err))
		return nil
	}
	if count == 1 {
		midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		s.redis.ExpireAt(ctx, key, midnight)
	}
	if count > int64(s.dailyQuota) {
		return util.ErrQuotaExceeded
	}
	return nil
}

// parseCandidates 解析抽取出的 JSON 对象。优先读取 questions 数组，
// 退化情况下把整个对象当作单个候选
func parseCandidates(extracted string) ([]map[string]interface{}, error) {
	var payload struct {
		Questions []map[string]interface{} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extracted), &payload); err != nil {
		return nil, &ExtractionError{Reason: "extracted span is not valid JSON"}
	}
	if len(payload.Questions) > 0 {
		return payload.Questions, nil
	}

	var single map[string]interface{}
	if err := json.Unmarshal([]byte(extracted), &single); err != nil {
		return nil, &ExtractionError{Reason: "extracted span is not a JSON object"}
	}
	if _, ok := single["question"]; ok {
		return []map[string]interface{}{single}, nil
	}
	return nil, &ExtractionError{Reason: "no question candidates in extracted object"}
}

// Generate 执行完整的出题管线：配额检查、模型调用、抽取、校验、对账、
// 入库。接受的题目逐条独立写入，中途失败不回滚已写入的部分，调用方
// 通过 Persisted 的长度得知实际成功条数。
func (s *GenerationService) Generate(ctx context.Context, userID uint, req GenerationRequest) (*GenerationOutcome, error) {
	if err := s.checkQuota(ctx, userID); err != nil {
		return nil, err
	}

	subject, err := s.subjectRepo.GetByID(req.SubjectID)
	if err != nil {
		return nil, err
	}
	if req.Subject == "" {
		req.Subject = subject.Name
	}

	systemPrompt, userPrompt := BuildPrompt(req)
	reply, err := s.gateway.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	s.logInteraction(userID, userPrompt, reply)

	extracted, err := ExtractJSONObject(reply.Content)
	if err != nil {
		return nil, err
	}
	rawCandidates, err := parseCandidates(extracted)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ValidationOutcome, 0, len(rawCandidates))
	for _, raw := range rawCandidates {
		outcomes = append(outcomes, ValidateCandidate(raw, req.QuestionType, req.Difficulty))
	}

	result, err := Reconcile(req, outcomes)
	if err != nil {
		return nil, err
	}

	outcome := &GenerationOutcome{
		Result:     result,
		Warnings:   result.Warnings,
		TokensUsed: reply.TokensUsed,
	}

	for _, bucket := range result.Buckets {
		for _, rejected := range bucket.Rejected {
			monitoring.GeneratedQuestions.WithLabelValues(string(bucket.QuestionType), "rejected").Inc()
			logger.Log.Debug("candidate rejected",
				zap.Int("index", rejected.Index), zap.String("reason", rejected.Reason))
		}
		for _, candidate := range bucket.Accepted {
			monitoring.GeneratedQuestions.WithLabelValues(string(candidate.Type), "accepted").Inc()
			question, err := s.persistCandidate(candidate, req, userID)
			if err != nil {
				outcome.Warnings = append(outcome.Warnings,
					fmt.Sprintf("failed to persist question: %v", err))
				logger.Log.Error("Failed to persist generated question", zap.Error(err))
				continue
			}
			outcome.Persisted = append(outcome.Persisted, *question)
		}
	}
	return outcome, nil
}

func (s *GenerationService) persistCandidate(candidate *CandidateQuestion, req GenerationRequest, userID uint) (*model.Question, error) {
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
		Topic:         req.Topic,
		BloomLevel:    candidate.BloomLevel,
		EstimatedTime: candidate.EstimatedTime,
		Source:        model.SourceAI,
		CreatedBy:     userID,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *GenerationService) logInteraction(userID uint, prompt string, reply *ModelReply) {
	interaction := &model.AIInteraction{
		UserID:          userID,
		InteractionType: "question_generation",
		InputText:       prompt,
		OutputText:      reply.Content,
		TokensUsed:      reply.TokensUsed,
		ResponseTime:    reply.ResponseTime,
	}
	if err := s.interactionRepo.Create(interaction); err != nil {
		logger.Log.Warn("Failed to log AI interaction", zap.Error(err))
	}
}
