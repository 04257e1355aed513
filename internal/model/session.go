package model

import (
	"fmt"
)

// ExamType tags a session with a known exam pattern, which carries default
// question counts, time limits and marking schemes.
type ExamType string

const (
	ExamTypeJEEMains    ExamType = "JEE_MAINS"
	ExamTypeJEEAdvanced ExamType = "JEE_ADVANCED"
	ExamTypeNEET        ExamType = "NEET"
	ExamTypeOther       ExamType = "OTHER"
)

// ExamDefaults holds the preset configuration attached to an exam type.
type ExamDefaults struct {
	NumQuestions     int     `json:"num_questions"`
	TimeLimitMinutes int     `json:"time_limit_minutes"`
	MarksPerCorrect  float64 `json:"marks_per_correct"`
	NegativeMark     float64 `json:"negative_mark"`
}

// Defaults returns the preset for an exam type. Unknown types fall back to
// the OTHER preset.
func (t ExamType) Defaults() ExamDefaults {
	switch t {
	case ExamTypeJEEMains:
		return ExamDefaults{NumQuestions: 75, TimeLimitMinutes: 180, MarksPerCorrect: 4.0, NegativeMark: -1.0}
	case ExamTypeJEEAdvanced:
		return ExamDefaults{NumQuestions: 108, TimeLimitMinutes: 360, MarksPerCorrect: 3.0, NegativeMark: -1.0}
	case ExamTypeNEET:
		return ExamDefaults{NumQuestions: 180, TimeLimitMinutes: 200, MarksPerCorrect: 4.0, NegativeMark: -1.0}
	default:
		return ExamDefaults{NumQuestions: 50, TimeLimitMinutes: 60, MarksPerCorrect: 1.0, NegativeMark: 0.0}
	}
}

// SessionConfig is the construction input for a test session.
type SessionConfig struct {
	DocumentRef      string         `json:"document_ref"`
	ExamType         ExamType       `json:"exam_type"`
	NumQuestions     int            `json:"num_questions"`
	TimeLimitMinutes int            `json:"time_limit_minutes"`
	MarksPerCorrect  float64        `json:"marks_per_correct"`
	NegativeMark     float64        `json:"negative_mark"`
	QuestionTypes    []QuestionType `json:"question_types,omitempty"`
}

// Validate rejects configurations that cannot form a session. QuestionTypes
// may be empty (all questions default to MCQ) but when present must match
// NumQuestions.
func (c *SessionConfig) Validate() error {
	if c.NumQuestions < 1 {
		return fmt.Errorf("num_questions must be at least 1, got %d", c.NumQuestions)
	}
	if c.TimeLimitMinutes < 1 {
		return fmt.Errorf("time_limit_minutes must be at least 1, got %d", c.TimeLimitMinutes)
	}
	if c.MarksPerCorrect < 0 {
		return fmt.Errorf("marks_per_correct must be non-negative, got %v", c.MarksPerCorrect)
	}
	if c.NegativeMark > 0 {
		return fmt.Errorf("negative_mark must be non-positive, got %v", c.NegativeMark)
	}
	if len(c.QuestionTypes) != 0 && len(c.QuestionTypes) != c.NumQuestions {
		return fmt.Errorf("question_types has %d entries, want %d", len(c.QuestionTypes), c.NumQuestions)
	}
	for i, t := range c.QuestionTypes {
		if _, ok := ParseQuestionType(string(t)); !ok {
			return fmt.Errorf("question_types[%d]: unknown type %q", i, t)
		}
	}
	return nil
}

// Types returns the per-question type sequence, defaulting to all MCQ.
func (c *SessionConfig) Types() []QuestionType {
	if len(c.QuestionTypes) == c.NumQuestions {
		return c.QuestionTypes
	}
	types := make([]QuestionType, c.NumQuestions)
	for i := range types {
		types[i] = QuestionTypeMCQ
	}
	return types
}

// KeyMethod records how an answer key was obtained.
type KeyMethod string

const (
	KeyMethodManual KeyMethod = "MANUAL"
	KeyMethodAuto   KeyMethod = "AUTO"
	KeyMethodSkip   KeyMethod = "SKIP"
)

// AnswerKey is the authoritative correct-answer sequence used to score a
// session, aligned with the question sequence by index.
type AnswerKey struct {
	Answers []*Answer `json:"answers"`
	Method  KeyMethod `json:"method"`
}
