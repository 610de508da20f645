package service

import (
	"testing"

	"smart_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCandidate_ValidMCQ(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "What is the capital of France?",
		"type":           "mcq",
		"options":        []interface{}{"Paris", "London", "Berlin", "Madrid"},
		"correct_answer": "Paris",
		"difficulty":     "easy",
		"explanation":    "Paris is the capital of France.",
	}

	outcome := ValidateCandidate(raw, model.MCQ, model.Easy)
	require.Nil(t, outcome.Err)
	require.NotNil(t, outcome.Candidate)

	c := outcome.Candidate
	assert.Equal(t, model.MCQ, c.Type)
	assert.Equal(t, model.Easy, c.Difficulty)
	assert.Len(t, c.Options, 4)
	assert.Equal(t, "Paris", c.CorrectAnswer)
	// 缺省值
	assert.Equal(t, 5, c.EstimatedTime)
	assert.Equal(t, model.BloomUnderstand, c.BloomLevel)
}

func TestValidateCandidate_MCQWrongOptionCount(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Pick one",
		"type":           "mcq",
		"options":        []interface{}{"A", "B", "C"},
		"correct_answer": "A",
	}

	outcome := ValidateCandidate(raw, model.MCQ, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "options", outcome.Err.Field)
	assert.Contains(t, outcome.Err.Reason, "4 options")
}

func TestValidateCandidate_MCQAnswerNotAmongOptions(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Pick one",
		"type":           "mcq",
		"options":        []interface{}{"A", "B", "C", "D"},
		"correct_answer": "E",
	}

	outcome := ValidateCandidate(raw, model.MCQ, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "correct_answer", outcome.Err.Field)
}

func TestValidateCandidate_MissingText(t *testing.T) {
	raw := map[string]interface{}{
		"type":           "short",
		"correct_answer": "42",
	}

	outcome := ValidateCandidate(raw, model.Short, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "question", outcome.Err.Field)
}

func TestValidateCandidate_UnknownType(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "What?",
		"type":           "essay",
		"correct_answer": "...",
	}

	outcome := ValidateCandidate(raw, model.MixedType, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "type", outcome.Err.Field)
}

func TestValidateCandidate_TypeFallsBackToHint(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Explain polymorphism.",
		"correct_answer": "Same interface, different behavior.",
	}

	outcome := ValidateCandidate(raw, model.Short, model.Medium)
	require.Nil(t, outcome.Err)
	assert.Equal(t, model.Short, outcome.Candidate.Type)
}

func TestValidateCandidate_MissingTypeWithMixedHint(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Explain polymorphism.",
		"correct_answer": "Same interface, different behavior.",
	}

	outcome := ValidateCandidate(raw, model.MixedType, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "type", outcome.Err.Field)
}

func TestValidateCandidate_TrueFalseDefaultsOptions(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Go has generics.",
		"type":           "true_false",
		"correct_answer": "True",
	}

	outcome := ValidateCandidate(raw, model.TrueFalse, model.Easy)
	require.Nil(t, outcome.Err)
	assert.Equal(t, []string{"True", "False"}, outcome.Candidate.Options)
}

func TestValidateCandidate_OptionsForbiddenOnShort(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Explain.",
		"type":           "short",
		"options":        []interface{}{"A", "B"},
		"correct_answer": "...",
	}

	outcome := ValidateCandidate(raw, model.Short, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "options", outcome.Err.Field)
}

func TestValidateCandidate_UnknownDifficulty(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Q",
		"type":           "short",
		"difficulty":     "brutal",
		"correct_answer": "A",
	}

	outcome := ValidateCandidate(raw, model.Short, model.Medium)
	require.NotNil(t, outcome.Err)
	assert.Equal(t, "difficulty", outcome.Err.Field)
}

func TestValidateCandidate_MixedDifficultyHintDefaultsToMedium(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Q",
		"type":           "short",
		"correct_answer": "A",
	}

	outcome := ValidateCandidate(raw, model.Short, model.MixedDifficulty)
	require.Nil(t, outcome.Err)
	assert.Equal(t, model.Medium, outcome.Candidate.Difficulty)
}

func TestValidateCandidate_ExtraFieldsIgnored(t *testing.T) {
	raw := map[string]interface{}{
		"question":               "Q",
		"type":                   "short",
		"correct_answer":         "A",
		"confidence":             0.93,
		"reasoning":              "because",
		"estimated_time_minutes": float64(10),
		"bloom_level":            "apply",
	}

	outcome := ValidateCandidate(raw, model.Short, model.Medium)
	require.Nil(t, outcome.Err)
	assert.Equal(t, 10, outcome.Candidate.EstimatedTime)
	assert.Equal(t, model.BloomApply, outcome.Candidate.BloomLevel)
}
