package service

import (
	"context"
	"fmt"
	"testing"

	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSampler struct {
	bank    map[model.QuestionType][]model.Question
	calls   int
	filters []repository.QuestionFilter
}

func (f *fakeSampler) Sample(filter repository.QuestionFilter, limit int) ([]model.Question, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	available := f.bank[filter.QuestionType]
	if len(available) > limit {
		available = available[:limit]
	}
	return available, nil
}

type fakeGenerator struct {
	supply   map[model.QuestionType][]model.Question
	err      error
	requests []GenerationRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, userID uint, req GenerationRequest) (*GenerationOutcome, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	available := f.supply[req.QuestionType]
	if len(available) > req.Count {
		available = available[:req.Count]
	}
	return &GenerationOutcome{Persisted: available}, nil
}

func bankQuestions(qType model.QuestionType, n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			Content:       fmt.Sprintf("%s question %d", qType, i+1),
			QuestionType:  qType,
			CorrectAnswer: "x",
			Difficulty:    model.Easy,
		}
	}
	return questions
}

func TestAssemble_BankThenAIFallback(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{
		model.MCQ:   bankQuestions(model.MCQ, 2),
		model.Short: bankQuestions(model.Short, 2),
	}}
	generator := &fakeGenerator{supply: map[model.QuestionType][]model.Question{
		model.MCQ: bankQuestions(model.MCQ, 1),
	}}
	svc := NewPaperService(sampler, generator)

	paper, err := svc.Assemble(context.Background(), 1, PaperRequest{
		Title:      "Midterm",
		SubjectID:  3,
		Difficulty: model.Easy,
		Policy:     SourceBankThenAI,
		Sections: []SectionSpec{
			{QuestionType: model.Short, Count: 2, MarksPerQuestion: 5},
			{QuestionType: model.MCQ, Count: 3, MarksPerQuestion: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, paper.Sections, 2)
	// 无论请求顺序如何，mcq 版块都排在 short 之前
	assert.Equal(t, model.MCQ, paper.Sections[0].QuestionType)
	assert.Equal(t, model.Short, paper.Sections[1].QuestionType)
	assert.Len(t, paper.Sections[0].Questions, 3)
	assert.Len(t, paper.Sections[1].Questions, 2)
	assert.Equal(t, 3*2+2*5, paper.GrandTotal)

	// 题库缺 1 道 mcq，回退请求按缺额数量、混合难度发起
	require.Len(t, generator.requests, 1)
	assert.Equal(t, 1, generator.requests[0].Count)
	assert.Equal(t, model.MixedDifficulty, generator.requests[0].Difficulty)
	assert.Equal(t, model.MCQ, generator.requests[0].QuestionType)
}

func TestAssemble_GrandTotalMatchesSections(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{
		model.MCQ:       bankQuestions(model.MCQ, 5),
		model.Long:      bankQuestions(model.Long, 3),
		model.TrueFalse: bankQuestions(model.TrueFalse, 4),
	}}
	svc := NewPaperService(sampler, &fakeGenerator{})

	paper, err := svc.Assemble(context.Background(), 1, PaperRequest{
		Title:     "Final",
		SubjectID: 1,
		Policy:    SourceBankOnly,
		Sections: []SectionSpec{
			{QuestionType: model.MCQ, Count: 5, MarksPerQuestion: 1},
			{QuestionType: model.Long, Count: 3, MarksPerQuestion: 10},
			{QuestionType: model.TrueFalse, Count: 4, MarksPerQuestion: 1},
		},
	})
	require.NoError(t, err)

	sum := 0
	for _, section := range paper.Sections {
		assert.Equal(t, len(section.Questions)*section.MarksPerQuestion, section.SectionTotal)
		sum += section.SectionTotal
	}
	assert.Equal(t, sum, paper.GrandTotal)
	assert.Equal(t, 39, paper.GrandTotal)
}

func TestAssemble_InsufficientQuestions(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{
		model.Long: bankQuestions(model.Long, 1),
	}}
	generator := &fakeGenerator{} // AI 也拿不出题
	svc := NewPaperService(sampler, generator)

	_, err := svc.Assemble(context.Background(), 1, PaperRequest{
		Title:     "Impossible",
		SubjectID: 1,
		Policy:    SourceBankThenAI,
		Sections: []SectionSpec{
			{QuestionType: model.Long, Count: 3, MarksPerQuestion: 10},
		},
	})

	var insErr *InsufficientQuestionsError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, model.Long, insErr.QuestionType)
	assert.Equal(t, 3, insErr.Requested)
	assert.Equal(t, 1, insErr.Available)
}

func TestAssemble_BankOnlyNeverCallsGenerator(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{}}
	generator := &fakeGenerator{supply: map[model.QuestionType][]model.Question{
		model.MCQ: bankQuestions(model.MCQ, 10),
	}}
	svc := NewPaperService(sampler, generator)

	_, err := svc.Assemble(context.Background(), 1, PaperRequest{
		Title:     "Bank only",
		SubjectID: 1,
		Policy:    SourceBankOnly,
		Sections: []SectionSpec{
			{QuestionType: model.MCQ, Count: 2, MarksPerQuestion: 1},
		},
	})

	var insErr *InsufficientQuestionsError
	require.ErrorAs(t, err, &insErr)
	assert.Empty(t, generator.requests)
}

func TestAssemble_AIOnlySkipsBank(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{
		model.MCQ: bankQuestions(model.MCQ, 10),
	}}
	generator := &fakeGenerator{supply: map[model.QuestionType][]model.Question{
		model.MCQ: bankQuestions(model.MCQ, 2),
	}}
	svc := NewPaperService(sampler, generator)

	paper, err := svc.Assemble(context.Background(), 1, PaperRequest{
		Title:     "AI only",
		SubjectID: 1,
		Policy:    SourceAIOnly,
		Sections: []SectionSpec{
			{QuestionType: model.MCQ, Count: 2, MarksPerQuestion: 1},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, sampler.calls)
	assert.Len(t, paper.Sections[0].Questions, 2)
}

func TestAssemble_DeclaredTotalMismatchWarns(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{
		model.MCQ: bankQuestions(model.MCQ, 2),
	}}
	svc := NewPaperService(sampler, &fakeGenerator{})

	req := PaperRequest{
		Title:         "Declared",
		SubjectID:     1,
		Policy:        SourceBankOnly,
		DeclaredTotal: 100,
		Sections: []SectionSpec{
			{QuestionType: model.MCQ, Count: 2, MarksPerQuestion: 2},
		},
	}
	paper, err := svc.Assemble(context.Background(), 1, req)
	require.NoError(t, err)

	// 声明值只是参考，计算值才是权威，不一致仅产生警告
	assert.Equal(t, 4, paper.GrandTotal)
	require.Len(t, paper.Warnings, 1)
	assert.Contains(t, paper.Warnings[0], "declared total")

	req.DeclaredTotal = 4
	paper, err = svc.Assemble(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Empty(t, paper.Warnings)
}

func TestRenderMarkdown_Deterministic(t *testing.T) {
	sampler := &fakeSampler{bank: map[model.QuestionType][]model.Question{
		model.MCQ: bankQuestions(model.MCQ, 2),
	}}
	svc := NewPaperService(sampler, &fakeGenerator{})

	paper, err := svc.Assemble(context.Background(), 1, PaperRequest{
		Title:           "Render me",
		SubjectID:       1,
		DurationMinutes: 90,
		Policy:          SourceBankOnly,
		Sections: []SectionSpec{
			{QuestionType: model.MCQ, Count: 2, MarksPerQuestion: 2},
		},
	})
	require.NoError(t, err)

	first := RenderMarkdown(paper)
	second := RenderMarkdown(paper)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "# Render me")
	assert.Contains(t, first, "**Total Marks:** 4")
	assert.Contains(t, first, "Section A: Multiple Choice Questions")
}
