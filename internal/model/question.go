package model

// QuestionStatus enumerates a question's navigation state.
type QuestionStatus string

const (
	StatusNotVisited  QuestionStatus = "NOT_VISITED"
	StatusAnswered    QuestionStatus = "ANSWERED"
	StatusNotAnswered QuestionStatus = "NOT_ANSWERED"
	StatusReview      QuestionStatus = "REVIEW"
)

// Question is a single slot in the attempt: its configured type, the stored
// response, navigation status and review flag. Index is the stable 0-based key.
type Question struct {
	Index      int            `json:"index"`
	Type       QuestionType   `json:"type"`
	Answer     *Answer        `json:"answer"`
	Status     QuestionStatus `json:"status"`
	ReviewFlag bool           `json:"review_flag"`
	HintCount  int            `json:"hint_count"`
}

// NewQuestions builds the fresh question sequence for a session: all
// NOT_VISITED with no answer. types must have length n (enforced by
// SessionConfig validation).
func NewQuestions(n int, types []QuestionType) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Index:  i,
			Type:   types[i],
			Status: StatusNotVisited,
		}
	}
	return qs
}
