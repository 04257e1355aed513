package session

import (
	"errors"
	"testing"

	"github.com/shailesh1606/TestMocker/internal/model"
)

func newTestSession(t *testing.T, n, minutes int) *Session {
	t.Helper()
	s, err := New(model.SessionConfig{
		NumQuestions:     n,
		TimeLimitMinutes: minutes,
		MarksPerCorrect:  4,
		NegativeMark:     -1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.SessionConfig
	}{
		{"zero questions", model.SessionConfig{NumQuestions: 0, TimeLimitMinutes: 60}},
		{"zero time", model.SessionConfig{NumQuestions: 10, TimeLimitMinutes: 0}},
		{"negative marks", model.SessionConfig{NumQuestions: 10, TimeLimitMinutes: 60, MarksPerCorrect: -1}},
		{"positive penalty", model.SessionConfig{NumQuestions: 10, TimeLimitMinutes: 60, NegativeMark: 1}},
		{"types length mismatch", model.SessionConfig{
			NumQuestions: 3, TimeLimitMinutes: 60,
			QuestionTypes: []model.QuestionType{model.QuestionTypeMCQ},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() accepted invalid config")
			}
		})
	}
}

func TestNewFreshState(t *testing.T) {
	s := newTestSession(t, 5, 60)
	st := s.Snapshot()

	if st.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", st.CurrentIndex)
	}
	if st.RemainingSec != 3600 {
		t.Errorf("RemainingSec = %d, want 3600", st.RemainingSec)
	}
	if st.Submitted {
		t.Error("fresh session reads submitted")
	}
	for i, q := range st.Questions {
		if q.Status != model.StatusNotVisited {
			t.Errorf("question %d status = %s, want %s", i, q.Status, model.StatusNotVisited)
		}
		if q.Answer != nil || q.ReviewFlag || q.HintCount != 0 {
			t.Errorf("question %d not pristine: %+v", i, q)
		}
	}
}

func TestSaveAndNext(t *testing.T) {
	s := newTestSession(t, 3, 60)

	if err := s.SaveAndNext("B"); err != nil {
		t.Fatalf("SaveAndNext: %v", err)
	}
	st := s.Snapshot()
	if st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", st.CurrentIndex)
	}
	q := st.Questions[0]
	if q.Status != model.StatusAnswered {
		t.Errorf("status = %s, want %s", q.Status, model.StatusAnswered)
	}
	if q.Answer == nil || q.Answer.Choice == nil || *q.Answer.Choice != 1 {
		t.Errorf("answer = %+v, want MCQ choice 1", q.Answer)
	}

	// Saving nothing marks the question NOT_ANSWERED but still advances.
	if err := s.SaveAndNext(nil); err != nil {
		t.Fatalf("SaveAndNext: %v", err)
	}
	st = s.Snapshot()
	if st.Questions[1].Status != model.StatusNotAnswered {
		t.Errorf("status = %s, want %s", st.Questions[1].Status, model.StatusNotAnswered)
	}
	if st.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2", st.CurrentIndex)
	}
}

func TestSaveAndNextLastQuestionStays(t *testing.T) {
	s := newTestSession(t, 2, 60)
	if err := s.SaveAndNext(0); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAndNext(1); err != nil {
		t.Fatal(err)
	}
	if st := s.Snapshot(); st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1 (no advance past last)", st.CurrentIndex)
	}
}

func TestMarkForReviewWithoutAnswer(t *testing.T) {
	s := newTestSession(t, 3, 60)

	if err := s.MarkForReviewAndNext(nil); err != nil {
		t.Fatalf("MarkForReviewAndNext: %v", err)
	}
	st := s.Snapshot()
	q := st.Questions[0]
	if q.Status != model.StatusReview {
		t.Errorf("status = %s, want %s even with no answer", q.Status, model.StatusReview)
	}
	if !q.ReviewFlag {
		t.Error("ReviewFlag not set")
	}
	if st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", st.CurrentIndex)
	}
}

func TestSaveAndMarkForReviewStaysPut(t *testing.T) {
	s := newTestSession(t, 3, 60)
	if err := s.SaveAndMarkForReview("A"); err != nil {
		t.Fatalf("SaveAndMarkForReview: %v", err)
	}
	st := s.Snapshot()
	if st.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", st.CurrentIndex)
	}
	q := st.Questions[0]
	if q.Status != model.StatusReview || q.Answer == nil {
		t.Errorf("question = %+v, want REVIEW with saved answer", q)
	}
}

func TestClearResponse(t *testing.T) {
	s := newTestSession(t, 2, 60)
	if err := s.SaveAndMarkForReview("C"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearResponse(); err != nil {
		t.Fatalf("ClearResponse: %v", err)
	}
	q := s.Snapshot().Questions[0]
	if q.Answer != nil {
		t.Errorf("answer = %+v, want nil", q.Answer)
	}
	if q.ReviewFlag {
		t.Error("ReviewFlag survived ClearResponse")
	}
	if q.Status != model.StatusNotAnswered {
		t.Errorf("status = %s, want %s", q.Status, model.StatusNotAnswered)
	}
}

func TestJumpToPreservesReview(t *testing.T) {
	s := newTestSession(t, 5, 60)

	// Question 0 in review keeps its flag when jumped away from.
	if err := s.SaveAndMarkForReview("A"); err != nil {
		t.Fatal(err)
	}
	if err := s.JumpTo(3, "A"); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	st := s.Snapshot()
	if st.CurrentIndex != 3 {
		t.Errorf("CurrentIndex = %d, want 3", st.CurrentIndex)
	}
	if q := st.Questions[0]; q.Status != model.StatusReview || !q.ReviewFlag {
		t.Errorf("question 0 = %+v, want REVIEW preserved", q)
	}
	// Destination stays NOT_VISITED until acted on.
	if q := st.Questions[3]; q.Status != model.StatusNotVisited {
		t.Errorf("question 3 status = %s, want %s", q.Status, model.StatusNotVisited)
	}

	// A non-review question gets its status recomputed on jump.
	if err := s.JumpTo(1, "D"); err != nil {
		t.Fatal(err)
	}
	st = s.Snapshot()
	if q := st.Questions[3]; q.Status != model.StatusAnswered {
		t.Errorf("question 3 status = %s, want %s", q.Status, model.StatusAnswered)
	}

	if err := s.JumpTo(9, nil); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("JumpTo(9) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSetQuestionTypeInvalidatesAnswer(t *testing.T) {
	s := newTestSession(t, 2, 60)
	if err := s.SaveAndMarkForReview("B"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetQuestionType(0, model.QuestionTypeNumeric); err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	q := s.Snapshot().Questions[0]
	if q.Type != model.QuestionTypeNumeric {
		t.Errorf("type = %s, want %s", q.Type, model.QuestionTypeNumeric)
	}
	if q.Answer != nil {
		t.Errorf("answer = %+v, want nil after type change", q.Answer)
	}
	if q.ReviewFlag || q.Status != model.StatusNotAnswered {
		t.Errorf("question = %+v, want NOT_ANSWERED without review flag", q)
	}

	if err := s.SetQuestionType(5, model.QuestionTypeText); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetQuestionType(5) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestTickExpiresExactlyOnce(t *testing.T) {
	s := newTestSession(t, 1, 1)

	var expiries int
	for i := 0; i < 60; i++ {
		if s.Tick().Expired {
			expiries++
		}
	}
	if expiries != 1 {
		t.Errorf("expiries = %d, want exactly 1", expiries)
	}

	// Ticks after zero are inert.
	res := s.Tick()
	if res.Expired || res.RemainingSec != 0 {
		t.Errorf("post-zero tick = %+v, want inert at 0", res)
	}
}

func TestTickAfterSubmitIsInert(t *testing.T) {
	s := newTestSession(t, 1, 1)
	s.Tick()
	if _, first := s.FinishAttempt(nil, false); !first {
		t.Fatal("FinishAttempt not first")
	}
	res := s.Tick()
	if res.Expired || res.RemainingSec != 59 {
		t.Errorf("tick after submit = %+v, want frozen at 59", res)
	}
}

func TestFinishAttemptFirstCallWins(t *testing.T) {
	s := newTestSession(t, 2, 1)
	s.Tick()
	s.Tick()

	fin, first := s.FinishAttempt("A", false)
	if !first {
		t.Fatal("first FinishAttempt reported first=false")
	}
	if fin.TimeTakenSec != 2 {
		t.Errorf("TimeTakenSec = %d, want 2", fin.TimeTakenSec)
	}
	if len(fin.Answers) != 2 {
		t.Fatalf("answers len = %d, want 2", len(fin.Answers))
	}
	if fin.Answers[0] == nil || fin.Answers[0].Choice == nil || *fin.Answers[0].Choice != 0 {
		t.Errorf("answers[0] = %+v, want MCQ choice 0", fin.Answers[0])
	}

	if _, again := s.FinishAttempt("D", true); again {
		t.Error("second FinishAttempt reported first=true")
	}
	if !s.Submitted() {
		t.Error("session not submitted")
	}
}

func TestActionsAfterSubmit(t *testing.T) {
	s := newTestSession(t, 2, 60)
	if _, first := s.FinishAttempt(nil, true); !first {
		t.Fatal("FinishAttempt not first")
	}

	actions := map[string]error{
		"SaveAndNext":          s.SaveAndNext("A"),
		"SaveAndMarkForReview": s.SaveAndMarkForReview("A"),
		"MarkForReviewAndNext": s.MarkForReviewAndNext(nil),
		"ClearResponse":        s.ClearResponse(),
		"JumpTo":               s.JumpTo(1, nil),
		"SetQuestionType":      s.SetQuestionType(0, model.QuestionTypeText),
	}
	for name, err := range actions {
		if !errors.Is(err, ErrSubmitted) {
			t.Errorf("%s after submit = %v, want ErrSubmitted", name, err)
		}
	}
	if _, _, err := s.RecordHint(0, 6); !errors.Is(err, ErrSubmitted) {
		t.Errorf("RecordHint after submit = %v, want ErrSubmitted", err)
	}
}

func TestRecordHintBounded(t *testing.T) {
	s := newTestSession(t, 1, 60)
	for i := 1; i <= 3; i++ {
		count, ok, err := s.RecordHint(0, 3)
		if err != nil || !ok || count != i {
			t.Fatalf("RecordHint #%d = (%d, %v, %v), want (%d, true, nil)", i, count, ok, err, i)
		}
	}
	count, ok, err := s.RecordHint(0, 3)
	if err != nil {
		t.Fatalf("RecordHint at limit: %v", err)
	}
	if ok || count != 3 {
		t.Errorf("RecordHint at limit = (%d, %v), want (3, false)", count, ok)
	}
}

func TestSaveCurrentTypedInput(t *testing.T) {
	s, err := New(model.SessionConfig{
		NumQuestions:     2,
		TimeLimitMinutes: 60,
		QuestionTypes:    []model.QuestionType{model.QuestionTypeNumeric, model.QuestionTypeText},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SaveAndNext("1/3"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAndNext("  Avogadro "); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if a := st.Questions[0].Answer; a == nil || a.Type != model.QuestionTypeNumeric || a.Value == nil || *a.Value != "1/3" {
		t.Errorf("numeric answer = %+v, want value 1/3", a)
	}
	if a := st.Questions[1].Answer; a == nil || a.Type != model.QuestionTypeText || a.Value == nil || *a.Value != "Avogadro" {
		t.Errorf("text answer = %+v, want trimmed Avogadro", a)
	}
}
