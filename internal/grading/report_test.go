package grading

import (
	"testing"

	"github.com/shailesh1606/TestMocker/internal/model"
)

func TestBuildReportWeightedScore(t *testing.T) {
	answers := []*model.Answer{mcq(0), mcq(1), mcq(0), mcq(1), nil}
	key := []*model.Answer{mcq(0), mcq(1), mcq(2), mcq(1), nil}

	r := BuildReport(answers, key, 4, -1)

	if r.Correct != 3 {
		t.Errorf("Correct = %d, want 3", r.Correct)
	}
	if r.IncorrectScored != 1 {
		t.Errorf("IncorrectScored = %d, want 1", r.IncorrectScored)
	}
	if r.Attempted != 4 {
		t.Errorf("Attempted = %d, want 4", r.Attempted)
	}
	if r.NotAttempted != 1 {
		t.Errorf("NotAttempted = %d, want 1", r.NotAttempted)
	}
	if r.Score != 11 {
		t.Errorf("Score = %v, want 11", r.Score)
	}
	if r.MaxScore != 20 {
		t.Errorf("MaxScore = %v, want 20", r.MaxScore)
	}
	if r.OverallAccuracy != 60 {
		t.Errorf("OverallAccuracy = %v, want 60", r.OverallAccuracy)
	}
	if r.AttemptedAccuracy != 75 {
		t.Errorf("AttemptedAccuracy = %v, want 75", r.AttemptedAccuracy)
	}

	wantOutcomes := []Outcome{OutcomeCorrect, OutcomeCorrect, OutcomeIncorrect, OutcomeCorrect, OutcomeNotAttempted}
	for i, want := range wantOutcomes {
		if got := r.PerQuestion[i].Outcome; got != want {
			t.Errorf("PerQuestion[%d].Outcome = %s, want %s", i, got, want)
		}
	}
}

func TestBuildReportAttemptStats(t *testing.T) {
	// 10 questions: 5 correct, 3 incorrect with key, 2 unattempted.
	answers := []*model.Answer{
		mcq(0), mcq(1), mcq(2), mcq(3), mcq(0),
		mcq(1), mcq(1), mcq(1),
		nil, nil,
	}
	key := []*model.Answer{
		mcq(0), mcq(1), mcq(2), mcq(3), mcq(0),
		mcq(2), mcq(2), mcq(2),
		mcq(0), mcq(0),
	}

	r := BuildReport(answers, key, 1, 0)

	if r.Attempted != 8 {
		t.Errorf("Attempted = %d, want 8", r.Attempted)
	}
	if r.Correct != 5 {
		t.Errorf("Correct = %d, want 5", r.Correct)
	}
	if r.IncorrectScored != 3 {
		t.Errorf("IncorrectScored = %d, want 3", r.IncorrectScored)
	}
	if r.NotAttempted != 2 {
		t.Errorf("NotAttempted = %d, want 2", r.NotAttempted)
	}
	if r.Attempted+r.NotAttempted != len(answers) {
		t.Errorf("Attempted+NotAttempted = %d, want %d", r.Attempted+r.NotAttempted, len(answers))
	}
}

func TestBuildReportShortKeyPadsWithNil(t *testing.T) {
	answers := []*model.Answer{mcq(0), mcq(1), mcq(2)}
	key := []*model.Answer{mcq(0)}

	r := BuildReport(answers, key, 4, -1)

	if r.Correct != 1 {
		t.Errorf("Correct = %d, want 1", r.Correct)
	}
	// Attempted questions past the key are unscoreable, never penalized.
	if r.IncorrectScored != 0 {
		t.Errorf("IncorrectScored = %d, want 0", r.IncorrectScored)
	}
	if r.Score != 4 {
		t.Errorf("Score = %v, want 4", r.Score)
	}
	for i := 1; i < 3; i++ {
		if got := r.PerQuestion[i].Outcome; got != OutcomeUnscoreable {
			t.Errorf("PerQuestion[%d].Outcome = %s, want %s", i, got, OutcomeUnscoreable)
		}
	}
}

func TestBuildReportZeroDenominators(t *testing.T) {
	r := BuildReport([]*model.Answer{nil, nil}, []*model.Answer{nil, nil}, 4, -1)
	if r.OverallAccuracy != 0 {
		t.Errorf("OverallAccuracy = %v, want 0", r.OverallAccuracy)
	}
	if r.AttemptedAccuracy != 0 {
		t.Errorf("AttemptedAccuracy = %v, want 0", r.AttemptedAccuracy)
	}
	if r.Score != 0 {
		t.Errorf("Score = %v, want 0", r.Score)
	}

	empty := BuildReport(nil, nil, 4, -1)
	if empty.OverallAccuracy != 0 || empty.AttemptedAccuracy != 0 {
		t.Errorf("empty report accuracies = %v/%v, want 0/0", empty.OverallAccuracy, empty.AttemptedAccuracy)
	}
}

func TestBuildReportMixedTypes(t *testing.T) {
	answers := []*model.Answer{num("1/2"), text("Sodium  Chloride"), mcq(2)}
	key := []*model.Answer{num("0.5"), text("sodium chloride"), num("2")}

	r := BuildReport(answers, key, 2, -0.5)

	if r.Correct != 2 {
		t.Errorf("Correct = %d, want 2 (fraction and folded text)", r.Correct)
	}
	// MCQ vs numeric key is a type mismatch: attempted, keyed, wrong.
	if r.IncorrectScored != 1 {
		t.Errorf("IncorrectScored = %d, want 1", r.IncorrectScored)
	}
	if r.Score != 3.5 {
		t.Errorf("Score = %v, want 3.5", r.Score)
	}
}
