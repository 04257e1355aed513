package model

// StartSessionRequest is the payload for creating a test session. Omitted
// numeric fields fall back to the exam type's preset.
type StartSessionRequest struct {
	DocumentRef      string   `json:"document_ref" binding:"omitempty,max=1024"`
	ExamType         ExamType `json:"exam_type" binding:"required,oneof=JEE_MAINS JEE_ADVANCED NEET OTHER"`
	NumQuestions     *int     `json:"num_questions" binding:"omitempty,min=1,max=500"`
	TimeLimitMinutes *int     `json:"time_limit_minutes" binding:"omitempty,min=1,max=720"`
	MarksPerCorrect  *float64 `json:"marks_per_correct" binding:"omitempty,min=0"`
	NegativeMark     *float64 `json:"negative_mark" binding:"omitempty,max=0"`
	QuestionTypes    []string `json:"question_types" binding:"omitempty,dive,oneof=MCQ NUMERIC TEXT"`
}

// Config resolves the request into a full SessionConfig using the exam type
// preset for any omitted field.
func (r *StartSessionRequest) Config() SessionConfig {
	def := r.ExamType.Defaults()
	cfg := SessionConfig{
		DocumentRef:      r.DocumentRef,
		ExamType:         r.ExamType,
		NumQuestions:     def.NumQuestions,
		TimeLimitMinutes: def.TimeLimitMinutes,
		MarksPerCorrect:  def.MarksPerCorrect,
		NegativeMark:     def.NegativeMark,
	}
	if r.NumQuestions != nil {
		cfg.NumQuestions = *r.NumQuestions
	}
	if r.TimeLimitMinutes != nil {
		cfg.TimeLimitMinutes = *r.TimeLimitMinutes
	}
	if r.MarksPerCorrect != nil {
		cfg.MarksPerCorrect = *r.MarksPerCorrect
	}
	if r.NegativeMark != nil {
		cfg.NegativeMark = *r.NegativeMark
	}
	for _, t := range r.QuestionTypes {
		qt, _ := ParseQuestionType(t)
		cfg.QuestionTypes = append(cfg.QuestionTypes, qt)
	}
	return cfg
}

// NavigateRequest is the payload for a navigation action. Answer is the
// client's active input value in whatever loose shape it has.
type NavigateRequest struct {
	Action string `json:"action" binding:"required,oneof=SAVE_AND_NEXT SAVE_AND_MARK_FOR_REVIEW MARK_FOR_REVIEW_AND_NEXT CLEAR_RESPONSE"`
	Answer any    `json:"answer"`
}

// JumpRequest is the payload for jumping to another question.
type JumpRequest struct {
	Index  *int `json:"index" binding:"required,min=0"`
	Answer any  `json:"answer"`
}

// QuestionTypeRequest is the payload for reconfiguring a question's type.
type QuestionTypeRequest struct {
	Index *int   `json:"index" binding:"required,min=0"`
	Type  string `json:"type" binding:"required,oneof=MCQ NUMERIC TEXT"`
}

// SubmitSessionRequest is the payload for submitting a session. Answers is
// the manual key sheet, required only when method is MANUAL. Current carries
// the still-unsaved active input.
type SubmitSessionRequest struct {
	Method  KeyMethod `json:"method" binding:"required,oneof=MANUAL AUTO SKIP"`
	Answers []any     `json:"answers" binding:"omitempty,max=500"`
	Current any       `json:"current"`
}

// ScoreSessionRequest is the payload for scoring an already submitted,
// still-unscored session.
type ScoreSessionRequest struct {
	Method  KeyMethod `json:"method" binding:"required,oneof=MANUAL AUTO"`
	Answers []any     `json:"answers" binding:"omitempty,max=500"`
}

// HintRequestPayload is the payload for requesting a hint.
type HintRequestPayload struct {
	Index        *int     `json:"index" binding:"required,min=0"`
	QuestionText string   `json:"question_text" binding:"omitempty,max=4000"`
	Options      []string `json:"options" binding:"omitempty,max=8,dive,max=1000"`
}
