package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"smart_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	reply      *ModelReply
	err        error
	lastPrompt string
}

func (f *fakeGateway) Complete(ctx context.Context, systemPrompt, userPrompt string) (*ModelReply, error) {
	f.lastPrompt = userPrompt
	return f.reply, f.err
}

type fakeQuestionStore struct {
	created   []*model.Question
	failAfter int // 写入第 failAfter 条之后开始报错，0 表示从不报错
}

func (f *fakeQuestionStore) Create(q *model.Question) error {
	if f.failAfter > 0 && len(f.created) >= f.failAfter {
		return errors.New("insert failed")
	}
	q.ID = uint(len(f.created) + 1)
	f.created = append(f.created, q)
	return nil
}

type fakeSubjectStore struct{}

func (fakeSubjectStore) GetByID(id uint) (*model.Subject, error) {
	return &model.Subject{Name: "Data Structures", Code: "BESK508"}, nil
}

type fakeInteractionStore struct {
	logged []*model.AIInteraction
}

func (f *fakeInteractionStore) Create(i *model.AIInteraction) error {
	f.logged = append(f.logged, i)
	return nil
}

func newTestService(gateway ModelGateway, store *fakeQuestionStore, interactions *fakeInteractionStore) *GenerationService {
	return NewGenerationService(gateway, store, fakeSubjectStore{}, interactions, nil, 0)
}

const goodReply = "Here are your questions:\n```json\n" + `{
  "questions": [
    {"question": "What is a stack?", "type": "mcq",
     "options": ["LIFO structure", "FIFO structure", "Tree", "Graph"],
     "correct_answer": "LIFO structure", "difficulty": "easy"},
    {"question": "Broken one", "type": "mcq",
     "options": ["A", "B"], "correct_answer": "A"},
    {"question": "What is a queue?", "type": "mcq",
     "options": ["LIFO", "FIFO structure", "Heap", "Trie"],
     "correct_answer": "FIFO structure", "difficulty": "easy"}
  ]
}` + "\n```"

func TestGenerate_EndToEnd(t *testing.T) {
	gateway := &fakeGateway{reply: &ModelReply{Content: goodReply, TokensUsed: 321, ResponseTime: 1.2}}
	store := &fakeQuestionStore{}
	interactions := &fakeInteractionStore{}
	svc := newTestService(gateway, store, interactions)

	outcome, err := svc.Generate(context.Background(), 7, GenerationRequest{
		SubjectID:    3,
		Topic:        "Stacks and Queues",
		Difficulty:   model.Easy,
		QuestionType: model.MCQ,
		Count:        2,
	})
	require.NoError(t, err)

	// 三个候选里一个非法，剩下两个正好满足请求量
	require.Len(t, outcome.Persisted, 2)
	assert.Empty(t, outcome.Warnings)
	assert.Equal(t, 321, outcome.TokensUsed)

	for _, q := range store.created {
		assert.Equal(t, model.SourceAI, q.Source)
		assert.Equal(t, uint(3), q.SubjectID)
		assert.Equal(t, uint(7), q.CreatedBy)
		assert.Equal(t, "Stacks and Queues", q.Topic)
	}

	require.Len(t, interactions.logged, 1)
	assert.Equal(t, "question_generation", interactions.logged[0].InteractionType)
	assert.Equal(t, 321, interactions.logged[0].TokensUsed)

	assert.Contains(t, gateway.lastPrompt, "Data Structures")
	assert.Contains(t, gateway.lastPrompt, "Stacks and Queues")
}

func TestGenerate_PartialPersistence(t *testing.T) {
	gateway := &fakeGateway{reply: &ModelReply{Content: goodReply}}
	store := &fakeQuestionStore{failAfter: 1}
	svc := newTestService(gateway, store, &fakeInteractionStore{})

	outcome, err := svc.Generate(context.Background(), 1, GenerationRequest{
		SubjectID:    3,
		QuestionType: model.MCQ,
		Count:        2,
	})
	require.NoError(t, err)

	// 第二条写入失败：已写入的保留，失败以警告形式上报
	assert.Len(t, outcome.Persisted, 1)
	require.NotEmpty(t, outcome.Warnings)
	assert.Contains(t, outcome.Warnings[0], "failed to persist")
}

func TestGenerate_AllCandidatesInvalid(t *testing.T) {
	reply := `{"questions": [{"question": "Bad", "type": "mcq", "options": ["A"], "correct_answer": "A"}]}`
	gateway := &fakeGateway{reply: &ModelReply{Content: reply}}
	svc := newTestService(gateway, &fakeQuestionStore{}, &fakeInteractionStore{})

	_, err := svc.Generate(context.Background(), 1, GenerationRequest{
		SubjectID:    3,
		QuestionType: model.MCQ,
		Count:        3,
	})
	require.ErrorIs(t, err, ErrAllBucketsEmpty)
}

func TestGenerate_GatewayFailurePropagates(t *testing.T) {
	gateway := &fakeGateway{err: &GatewayError{Kind: GatewayTimeout, Message: "deadline exceeded"}}
	svc := newTestService(gateway, &fakeQuestionStore{}, &fakeInteractionStore{})

	_, err := svc.Generate(context.Background(), 1, GenerationRequest{
		SubjectID:    3,
		QuestionType: model.MCQ,
		Count:        1,
	})

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, GatewayTimeout, gwErr.Kind)
}

func TestGenerate_UnparseableReply(t *testing.T) {
	gateway := &fakeGateway{reply: &ModelReply{Content: "I cannot help with that."}}
	svc := newTestService(gateway, &fakeQuestionStore{}, &fakeInteractionStore{})

	_, err := svc.Generate(context.Background(), 1, GenerationRequest{
		SubjectID:    3,
		QuestionType: model.MCQ,
		Count:        1,
	})

	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
}

func TestBuildPrompt(t *testing.T) {
	system, user := BuildPrompt(GenerationRequest{
		Subject:      "Computer Networks",
		Topic:        "TCP",
		Difficulty:   model.Hard,
		QuestionType: model.MCQ,
		Count:        4,
	})

	assert.Contains(t, system, `"questions"`)
	assert.Contains(t, user, fmt.Sprintf("Generate %d", 4))
	assert.Contains(t, user, "Computer Networks")
	assert.Contains(t, user, "TCP")
	assert.Contains(t, user, "hard")
}

func TestParseCandidates_SingleObjectFallback(t *testing.T) {
	candidates, err := parseCandidates(`{"question": "Solo?", "type": "short", "correct_answer": "Yes"}`)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Solo?", candidates[0]["question"])
}
