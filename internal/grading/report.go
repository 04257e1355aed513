package grading

import (
	"github.com/shailesh1606/TestMocker/internal/model"
)

// Outcome classifies a single question in the score report. Attempted
// questions with no key entry are distinguished from wrong answers so that
// partial keys never penalize.
type Outcome string

const (
	OutcomeNotAttempted Outcome = "NOT_ATTEMPTED"
	OutcomeUnscoreable  Outcome = "ATTEMPTED_NO_KEY"
	OutcomeIncorrect    Outcome = "INCORRECT"
	OutcomeCorrect      Outcome = "CORRECT"
)

// QuestionResult is the per-question row of a report.
type QuestionResult struct {
	Index      int           `json:"index"`
	Outcome    Outcome       `json:"outcome"`
	UserAnswer *model.Answer `json:"user_answer"`
	KeyAnswer  *model.Answer `json:"key_answer"`
}

// Report aggregates a scored session.
type Report struct {
	PerQuestion []QuestionResult `json:"per_question"`

	Attempted       int `json:"attempted"`
	Correct         int `json:"correct"`
	IncorrectScored int `json:"incorrect_scored"`
	NotAttempted    int `json:"not_attempted"`

	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`

	OverallAccuracy   float64 `json:"overall_accuracy"`
	AttemptedAccuracy float64 `json:"attempted_accuracy"`

	TimeTakenSec int             `json:"time_taken_sec"`
	TotalTimeSec int             `json:"total_time_sec"`
	Auto         bool            `json:"auto"`
	KeyMethod    model.KeyMethod `json:"key_method"`
}

// BuildReport scores a full answer sheet against a key. A key shorter than
// the answer sheet is padded with nil entries, so trailing questions become
// unscoreable rather than wrong. Incorrect answers are penalized only when a
// key entry exists for them.
func BuildReport(answers, key []*model.Answer, marksPerCorrect, negativeMark float64) *Report {
	n := len(answers)
	r := &Report{
		PerQuestion: make([]QuestionResult, n),
		MaxScore:    float64(n) * marksPerCorrect,
	}

	for i := 0; i < n; i++ {
		var k *model.Answer
		if i < len(key) {
			k = key[i]
		}
		cmp := Compare(answers[i], k)

		if cmp.Attempted {
			r.Attempted++
		}
		if cmp.Correct {
			r.Correct++
		}
		if cmp.HasKey && cmp.Attempted && !cmp.Correct {
			r.IncorrectScored++
		}

		r.PerQuestion[i] = QuestionResult{
			Index:      i,
			Outcome:    outcomeOf(cmp),
			UserAnswer: model.Normalize(answers[i]),
			KeyAnswer:  model.Normalize(k),
		}
	}

	r.NotAttempted = n - r.Attempted
	r.Score = float64(r.Correct)*marksPerCorrect + float64(r.IncorrectScored)*negativeMark

	if n > 0 {
		r.OverallAccuracy = float64(r.Correct) / float64(n) * 100.0
	}
	if r.Attempted > 0 {
		r.AttemptedAccuracy = float64(r.Correct) / float64(r.Attempted) * 100.0
	}

	return r
}

func outcomeOf(c Comparison) Outcome {
	switch {
	case !c.Attempted:
		return OutcomeNotAttempted
	case !c.HasKey:
		return OutcomeUnscoreable
	case c.Correct:
		return OutcomeCorrect
	default:
		return OutcomeIncorrect
	}
}
