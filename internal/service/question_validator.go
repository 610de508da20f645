package service

import (
	"fmt"
	"strings"

	"smart_edu_backend/internal/model"
)

// ValidationError 单个候选题违反约束，记录第一个被违反的字段
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid candidate: %s: %s", e.Field, e.Reason)
}

// CandidateQuestion 已通过校验、尚未入库的题目
type CandidateQuestion struct {
	Text          string
	Type          model.QuestionType
	Difficulty    model.Difficulty
	Options       []string
	CorrectAnswer string
	Explanation   string
	EstimatedTime int
	BloomLevel    model.BloomLevel
}

// ValidationOutcome 每个候选题的校验结果，Candidate 与 Err 恰好一个非空
type ValidationOutcome struct {
	Candidate *CandidateQuestion
	Err       *ValidationError
}

var validBloomLevels = map[string]model.BloomLevel{
	"remember":   model.BloomRemember,
	"understand": model.BloomUnderstand,
	"apply":      model.BloomApply,
	"analyze":    model.BloomAnalyze,
	"evaluate":   model.BloomEvaluate,
	"create":     model.BloomCreate,
}

var validQuestionTypes = map[string]model.QuestionType{
	"mcq":        model.MCQ,
	"short":      model.Short,
	"long":       model.Long,
	"true_false": model.TrueFalse,
}

var validDifficulties = map[string]model.Difficulty{
	"easy":   model.Easy,
	"medium": model.Medium,
	"hard":   model.Hard,
}

// ValidateCandidate 把模型产出的松散对象规范化为 CandidateQuestion。
// typeHint 和 difficultyHint 来自原始请求，仅在候选缺失对应字段时兜底；
// 未知的多余字段直接忽略。每个候选独立校验，互不影响。
func ValidateCandidate(raw map[string]interface{}, typeHint model.QuestionType, difficultyHint model.Difficulty) ValidationOutcome {
	fail := func(field, reason string) ValidationOutcome {
		return ValidationOutcome{Err: &ValidationError{Field: field, Reason: reason}}
	}

	text := firstString(raw, "question", "question_text", "content")
	if strings.TrimSpace(text) == "" {
		return fail("question", "question text is missing or empty")
	}

	qType := typeHint
	if s := firstString(raw, "type", "question_type"); s != "" {
		mapped, ok := validQuestionTypes[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			return fail("type", "unknown question type "+s)
		}
		qType = mapped
	}
	if qType == "" || qType == model.MixedType {
		return fail("type", "question type is missing")
	}

	// 难度属于定级元数据而非硬性校验项：缺失时回退到请求提示，
	// 混合请求下回退为 medium；但出现在枚举之外仍视为非法
	difficulty := difficultyHint
	if difficulty == "" || difficulty == model.MixedDifficulty {
		difficulty = model.Medium
	}
	if s := firstString(raw, "difficulty"); s != "" {
		mapped, ok := validDifficulties[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			return fail("difficulty", "unknown difficulty "+s)
		}
		difficulty = mapped
	}

	options, err := stringList(raw, "options")
	if err != nil {
		return fail("options", err.Error())
	}
	switch qType {
	case model.MCQ:
		if len(options) != 4 {
			return fail("options", fmt.Sprintf("mcq requires exactly 4 options, got %d", len(options)))
		}
	case model.TrueFalse:
		if len(options) == 0 {
			options = []string{"True", "False"}
		}
		if len(options) != 2 {
			return fail("options", fmt.Sprintf("true_false requires exactly 2 options, got %d", len(options)))
		}
	default:
		if len(options) > 0 {
			return fail("options", "options are only allowed for mcq and true_false")
		}
		options = nil
	}

	answer := firstString(raw, "correct_answer", "answer")
	if strings.TrimSpace(answer) == "" {
		return fail("correct_answer", "correct answer is missing")
	}
	if qType == model.MCQ && !containsString(options, answer) {
		return fail("correct_answer", "correct answer does not match any option")
	}

	estimated := 5
	if v, ok := raw["estimated_time_minutes"]; ok {
		n, ok := asPositiveInt(v)
		if !ok {
			return fail("estimated_time_minutes", "must be a positive integer")
		}
		estimated = n
	}

	bloom := model.BloomUnderstand
	if s := firstString(raw, "bloom_level"); s != "" {
		mapped, ok := validBloomLevels[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			return fail("bloom_level", "unknown bloom level "+s)
		}
		bloom = mapped
	}

	return ValidationOutcome{Candidate: &CandidateQuestion{
		Text:          strings.TrimSpace(text),
		Type:          qType,
		Difficulty:    difficulty,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   firstString(raw, "explanation"),
		EstimatedTime: estimated,
		BloomLevel:    bloom,
	}}
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringList(raw map[string]interface{}, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("must be a list of strings")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("must be a list of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func asPositiveInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n > 0 && n == float64(int(n)) {
			return int(n), true
		}
	case int:
		if n > 0 {
			return n, true
		}
	}
	return 0, false
}
