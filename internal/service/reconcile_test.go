package service

import (
	"testing"

	"smart_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accepted(text string, qType model.QuestionType) ValidationOutcome {
	return ValidationOutcome{Candidate: &CandidateQuestion{
		Text:          text,
		Type:          qType,
		Difficulty:    model.Medium,
		CorrectAnswer: "x",
	}}
}

func rejected(reason string) ValidationOutcome {
	return ValidationOutcome{Err: &ValidationError{Field: "question", Reason: reason}}
}

func TestReconcile_PartialBucket(t *testing.T) {
	req := GenerationRequest{QuestionType: model.MCQ, Count: 5}
	outcomes := []ValidationOutcome{
		accepted("q1", model.MCQ),
		rejected("bad"),
		accepted("q2", model.MCQ),
		rejected("bad"),
		accepted("q3", model.MCQ),
	}

	result, err := Reconcile(req, outcomes)
	require.NoError(t, err)
	require.Len(t, result.Buckets, 1)

	bucket := result.Buckets[0]
	assert.Equal(t, BucketPartial, bucket.Status)
	assert.Equal(t, 2, bucket.Shortfall)
	assert.Len(t, bucket.Accepted, 3)
	assert.Len(t, result.Warnings, 1)
}

func TestReconcile_TrimsOverDelivery(t *testing.T) {
	req := GenerationRequest{QuestionType: model.Short, Count: 2}
	outcomes := []ValidationOutcome{
		accepted("q1", model.Short),
		accepted("q2", model.Short),
		accepted("q3", model.Short),
		accepted("q4", model.Short),
	}

	result, err := Reconcile(req, outcomes)
	require.NoError(t, err)

	bucket := result.Buckets[0]
	assert.Equal(t, BucketFull, bucket.Status)
	require.Len(t, bucket.Accepted, 2)
	// 按原始顺序取前 N 个，不重新排序
	assert.Equal(t, "q1", bucket.Accepted[0].Text)
	assert.Equal(t, "q2", bucket.Accepted[1].Text)
}

func TestReconcile_AllRejected(t *testing.T) {
	req := GenerationRequest{QuestionType: model.MCQ, Count: 3}
	outcomes := []ValidationOutcome{rejected("a"), rejected("b")}

	result, err := Reconcile(req, outcomes)
	require.ErrorIs(t, err, ErrAllBucketsEmpty)
	require.Len(t, result.Buckets, 1)
	assert.Equal(t, BucketEmpty, result.Buckets[0].Status)
	assert.Equal(t, 3, result.Buckets[0].Shortfall)
	assert.Len(t, result.Buckets[0].Rejected, 2)
}

func TestReconcile_WrongTypeRejected(t *testing.T) {
	req := GenerationRequest{QuestionType: model.MCQ, Count: 2}
	outcomes := []ValidationOutcome{
		accepted("q1", model.MCQ),
		accepted("q2", model.Short),
	}

	result, err := Reconcile(req, outcomes)
	require.NoError(t, err)

	bucket := result.Buckets[0]
	assert.Len(t, bucket.Accepted, 1)
	require.Len(t, bucket.Rejected, 1)
	assert.Equal(t, 1, bucket.Rejected[0].Index)
	assert.Contains(t, bucket.Rejected[0].Reason, "not requested")
}

func TestReconcile_MixedAcceptsAnyType(t *testing.T) {
	req := GenerationRequest{QuestionType: model.MixedType, Count: 3}
	outcomes := []ValidationOutcome{
		accepted("q1", model.MCQ),
		accepted("q2", model.Short),
		accepted("q3", model.TrueFalse),
	}

	result, err := Reconcile(req, outcomes)
	require.NoError(t, err)
	assert.Equal(t, 3, result.AcceptedTotal())
	assert.Equal(t, BucketFull, result.Buckets[0].Status)
}

func TestReconcile_EmptyNotPartial(t *testing.T) {
	req := GenerationRequest{QuestionType: model.Long, Count: 1}

	result, err := Reconcile(req, nil)
	require.ErrorIs(t, err, ErrAllBucketsEmpty)
	assert.Equal(t, BucketEmpty, result.Buckets[0].Status)
	assert.NotEqual(t, BucketPartial, result.Buckets[0].Status)
}
