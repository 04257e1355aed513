package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/shailesh1606/TestMocker/internal/model"
)

// ErrCancelled signals that the user backed out of key entry. The submission
// itself stands; the session simply ends unscored.
var ErrCancelled = errors.New("answer key entry cancelled")

// KeySource produces the answer key for a finished attempt. Implementations
// are manual entry, an external extraction service, or an explicit skip; the
// session layer never inspects how the key was obtained.
type KeySource interface {
	Acquire(ctx context.Context, numQuestions int, types []model.QuestionType) (*model.AnswerKey, error)
}

// PadKey corrects length mismatches between a returned key and the question
// count: short keys are padded with nil, long keys truncated.
func PadKey(answers []*model.Answer, n int) []*model.Answer {
	out := make([]*model.Answer, n)
	copy(out, answers)
	return out
}

// ManualKeySource wraps a caller-supplied answer sheet of loose values, each
// normalized under its question's configured type.
type ManualKeySource struct {
	Answers []any
}

func (m ManualKeySource) Acquire(_ context.Context, n int, types []model.QuestionType) (*model.AnswerKey, error) {
	answers := make([]*model.Answer, 0, len(m.Answers))
	for i, raw := range m.Answers {
		t := model.QuestionTypeMCQ
		if i < len(types) {
			t = types[i]
		}
		a := model.NormalizeForType(t, raw)
		if !a.HasValue() {
			a = nil
		}
		answers = append(answers, a)
	}
	return &model.AnswerKey{
		Answers: PadKey(answers, n),
		Method:  model.KeyMethodManual,
	}, nil
}

// SkipKeySource declines scoring entirely.
type SkipKeySource struct{}

func (SkipKeySource) Acquire(_ context.Context, n int, _ []model.QuestionType) (*model.AnswerKey, error) {
	return &model.AnswerKey{Answers: make([]*model.Answer, n), Method: model.KeyMethodSkip}, nil
}

// FetchResult is the completion signal of an asynchronous key fetch.
type FetchResult struct {
	Key *model.AnswerKey
	Err error
}

// GoFetch runs a KeySource off the session's execution context and delivers
// exactly one FetchResult on the returned channel. The channel is buffered,
// so a caller that has moved on may simply drop the result; there is no
// cancellation beyond the passed context.
func GoFetch(ctx context.Context, src KeySource, n int, types []model.QuestionType) <-chan FetchResult {
	ch := make(chan FetchResult, 1)
	go func() {
		key, err := src.Acquire(ctx, n, types)
		if err != nil {
			ch <- FetchResult{Err: fmt.Errorf("acquire answer key: %w", err)}
			return
		}
		key.Answers = PadKey(key.Answers, n)
		ch <- FetchResult{Key: key}
	}()
	return ch
}
