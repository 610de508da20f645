package service

import (
	"errors"
	"fmt"

	"smart_edu_backend/internal/model"
)

// ErrAllBucketsEmpty 所有请求的题型都没有产出任何合法题目
var ErrAllBucketsEmpty = errors.New("no valid questions were produced for any requested type")

// GenerationRequest 一次出题请求，发出后不再修改
type GenerationRequest struct {
	SubjectID    uint
	Subject      string
	Topic        string
	Difficulty   model.Difficulty
	QuestionType model.QuestionType
	Count        int
}

type BucketStatus string

const (
	BucketFull    BucketStatus = "full"
	BucketPartial BucketStatus = "partial"
	BucketEmpty   BucketStatus = "empty"
)

// RejectedCandidate 被拒绝的候选及原因，Index 是候选在原始列表中的位置
type RejectedCandidate struct {
	Index  int
	Reason string
}

// Bucket 按题型聚合的对账结果
type Bucket struct {
	QuestionType model.QuestionType
	Requested    int
	Accepted     []*CandidateQuestion
	Rejected     []RejectedCandidate
	Status       BucketStatus
	Shortfall    int
}

// ReconciliationResult 请求量与实际产出的对账结论
type ReconciliationResult struct {
	Buckets  []Bucket
	Warnings []string
}

// AcceptedTotal 所有桶接受的题目总数
func (r *ReconciliationResult) AcceptedTotal() int {
	total := 0
	for _, b := range r.Buckets {
		total += len(b.Accepted)
	}
	return total
}

// Reconcile 把校验结果按请求的题型分桶。接受顺序与候选的原始顺序一致，
// 超出请求数量的部分直接丢弃；某个桶为空不影响其它桶，只有所有桶都为空
// 时整个请求才算失败。
func Reconcile(req GenerationRequest, outcomes []ValidationOutcome) (*ReconciliationResult, error) {
	mixed := req.QuestionType == model.MixedType

	bucket := Bucket{
		QuestionType: req.QuestionType,
		Requested:    req.Count,
	}

	for i, outcome := range outcomes {
		if outcome.Err != nil {
			bucket.Rejected = append(bucket.Rejected, RejectedCandidate{Index: i, Reason: outcome.Err.Error()})
			continue
		}
		candidate := outcome.Candidate
		if !mixed && candidate.Type != req.QuestionType {
			bucket.Rejected = append(bucket.Rejected, RejectedCandidate{
				Index:  i,
				Reason: fmt.Sprintf("question type %s was not requested", candidate.Type),
			})
			continue
		}
		if len(bucket.Accepted) < bucket.Requested {
			bucket.Accepted = append(bucket.Accepted, candidate)
		}
	}

	result := &ReconciliationResult{}
	switch {
	case len(bucket.Accepted) == 0:
		bucket.Status = BucketEmpty
		bucket.Shortfall = bucket.Requested
	case len(bucket.Accepted) < bucket.Requested:
		bucket.Status = BucketPartial
		bucket.Shortfall = bucket.Requested - len(bucket.Accepted)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: requested %d, got %d (shortfall %d)",
				bucket.QuestionType, bucket.Requested, len(bucket.Accepted), bucket.Shortfall))
	default:
		bucket.Status = BucketFull
	}
	result.Buckets = append(result.Buckets, bucket)

	if result.AcceptedTotal() == 0 {
		return result, ErrAllBucketsEmpty
	}
	return result, nil
}
