package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is the per-question record emitted once per question when a session
// is submitted. SelectedAnswer carries MCQ option indices only; other answer
// kinds are not represented in this column yet. CorrectAnswer stores the
// structured key entry when one exists.
type Attempt struct {
	ID             int64     `json:"id"`
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionIndex  int       `json:"question_index"`
	SelectedAnswer *int      `json:"selected_answer"`
	CorrectAnswer  *Answer   `json:"correct_answer"`
	TimeSpentSec   int       `json:"time_spent_sec"`
	HintCount      int       `json:"hint_count"`
	Timestamp      time.Time `json:"timestamp"`
}
