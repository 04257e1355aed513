package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shailesh1606/TestMocker/internal/model"
)

func TestPadKey(t *testing.T) {
	a := &model.Answer{Type: model.QuestionTypeMCQ}

	short := PadKey([]*model.Answer{a}, 3)
	if len(short) != 3 {
		t.Fatalf("len = %d, want 3", len(short))
	}
	if short[0] != a || short[1] != nil || short[2] != nil {
		t.Errorf("short key padded wrong: %+v", short)
	}

	long := PadKey([]*model.Answer{a, a, a}, 2)
	if len(long) != 2 {
		t.Errorf("len = %d, want 2 after truncation", len(long))
	}
}

func TestManualKeySource(t *testing.T) {
	types := []model.QuestionType{
		model.QuestionTypeMCQ,
		model.QuestionTypeMCQ,
		model.QuestionTypeNumeric,
		model.QuestionTypeText,
	}
	src := ManualKeySource{Answers: []any{"b", 3, " 1/2 ", ""}}

	key, err := src.Acquire(context.Background(), 5, types)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if key.Method != model.KeyMethodManual {
		t.Errorf("Method = %s, want %s", key.Method, model.KeyMethodManual)
	}
	if len(key.Answers) != 5 {
		t.Fatalf("len = %d, want 5 (padded)", len(key.Answers))
	}
	if a := key.Answers[0]; a == nil || a.Choice == nil || *a.Choice != 1 {
		t.Errorf("answers[0] = %+v, want MCQ choice 1 from letter", a)
	}
	if a := key.Answers[1]; a == nil || a.Choice == nil || *a.Choice != 3 {
		t.Errorf("answers[1] = %+v, want MCQ choice 3 from index", a)
	}
	if a := key.Answers[2]; a == nil || a.Value == nil || *a.Value != "1/2" {
		t.Errorf("answers[2] = %+v, want trimmed numeric 1/2", a)
	}
	// Blank entries and unfilled tail positions mean no key for that question.
	if key.Answers[3] != nil || key.Answers[4] != nil {
		t.Errorf("answers[3..4] = %+v, %+v, want nil", key.Answers[3], key.Answers[4])
	}
}

func TestSkipKeySource(t *testing.T) {
	key, err := SkipKeySource{}.Acquire(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if key.Method != model.KeyMethodSkip {
		t.Errorf("Method = %s, want %s", key.Method, model.KeyMethodSkip)
	}
	if len(key.Answers) != 3 {
		t.Fatalf("len = %d, want 3", len(key.Answers))
	}
	for i, a := range key.Answers {
		if a != nil {
			t.Errorf("answers[%d] = %+v, want nil", i, a)
		}
	}
}

type stubKeySource struct {
	key *model.AnswerKey
	err error
}

func (s stubKeySource) Acquire(context.Context, int, []model.QuestionType) (*model.AnswerKey, error) {
	return s.key, s.err
}

func TestGoFetch(t *testing.T) {
	short := &model.AnswerKey{
		Answers: []*model.Answer{{Type: model.QuestionTypeMCQ}},
		Method:  model.KeyMethodAuto,
	}
	ch := GoFetch(context.Background(), stubKeySource{key: short}, 4, nil)

	select {
	case res := <-ch:
		if res.Err != nil {
			t.Fatalf("Err = %v", res.Err)
		}
		if len(res.Key.Answers) != 4 {
			t.Errorf("key len = %d, want 4 (padded to question count)", len(res.Key.Answers))
		}
		if res.Key.Method != model.KeyMethodAuto {
			t.Errorf("Method = %s, want %s", res.Key.Method, model.KeyMethodAuto)
		}
	case <-time.After(time.Second):
		t.Fatal("GoFetch never delivered")
	}
}

func TestGoFetchCancelled(t *testing.T) {
	ch := GoFetch(context.Background(), stubKeySource{err: ErrCancelled}, 4, nil)

	select {
	case res := <-ch:
		if !errors.Is(res.Err, ErrCancelled) {
			t.Errorf("Err = %v, want ErrCancelled", res.Err)
		}
		if res.Key != nil {
			t.Errorf("Key = %+v, want nil on error", res.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("GoFetch never delivered")
	}
}
