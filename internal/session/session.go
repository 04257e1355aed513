package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shailesh1606/TestMocker/internal/model"
)

var (
	// ErrSubmitted is returned by mutating actions after the session has
	// been submitted. Submit itself treats a second call as a no-op.
	ErrSubmitted = errors.New("session already submitted")

	// ErrIndexOutOfRange is returned for question indices outside [0, N).
	ErrIndexOutOfRange = errors.New("question index out of range")
)

// Session is a single in-memory test attempt. All state mutation goes through
// the action methods below; the mutex serializes user actions against the
// timer tick so each action is atomic. Once submitted, the session is
// immutable and further actions fail with ErrSubmitted.
type Session struct {
	mu sync.Mutex

	attemptID uuid.UUID
	cfg       model.SessionConfig
	questions []model.Question
	current   int

	remainingSec int
	submitted    bool
	auto         bool
	timeTakenSec int
	startedAt    time.Time
}

// New validates the configuration and builds a fresh session: every question
// NOT_VISITED, no answers, full time remaining.
func New(cfg model.SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		attemptID:    uuid.New(),
		cfg:          cfg,
		questions:    model.NewQuestions(cfg.NumQuestions, cfg.Types()),
		remainingSec: cfg.TimeLimitMinutes * 60,
		startedAt:    time.Now(),
	}, nil
}

// AttemptID returns the attempt's stable identifier.
func (s *Session) AttemptID() uuid.UUID { return s.attemptID }

// Config returns the session's construction input.
func (s *Session) Config() model.SessionConfig { return s.cfg }

// State is a consistent snapshot of the session for clients.
type State struct {
	AttemptID    uuid.UUID           `json:"attempt_id"`
	Config       model.SessionConfig `json:"config"`
	Questions    []model.Question    `json:"questions"`
	CurrentIndex int                 `json:"current_index"`
	RemainingSec int                 `json:"remaining_sec"`
	Submitted    bool                `json:"submitted"`
	Auto         bool                `json:"auto"`
	StartedAt    time.Time           `json:"started_at"`
}

// Snapshot returns a copy of the full session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	qs := make([]model.Question, len(s.questions))
	copy(qs, s.questions)
	return State{
		AttemptID:    s.attemptID,
		Config:       s.cfg,
		Questions:    qs,
		CurrentIndex: s.current,
		RemainingSec: s.remainingSec,
		Submitted:    s.submitted,
		Auto:         s.auto,
		StartedAt:    s.startedAt,
	}
}

// saveCurrent normalizes the active input under the current question's type
// and stores it. Reports whether a response is present afterwards.
func (s *Session) saveCurrent(raw any) bool {
	q := &s.questions[s.current]
	a := model.Normalize(raw)
	if a == nil || a.Type != q.Type {
		a = model.NormalizeForType(q.Type, raw)
	}
	if !a.HasValue() {
		q.Answer = nil
		return false
	}
	q.Answer = a
	return true
}

// SaveAndNext stores the active input, marks the current question ANSWERED or
// NOT_ANSWERED by presence, clears its review flag, and advances unless on
// the last question.
func (s *Session) SaveAndNext(raw any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrSubmitted
	}
	present := s.saveCurrent(raw)
	q := &s.questions[s.current]
	q.ReviewFlag = false
	q.Status = statusByPresence(present)
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// SaveAndMarkForReview stores the active input and flags the current question
// for review. The question reads REVIEW even with no answer present.
func (s *Session) SaveAndMarkForReview(raw any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrSubmitted
	}
	s.markForReview(raw)
	return nil
}

// MarkForReviewAndNext is SaveAndMarkForReview plus an advance unless on the
// last question.
func (s *Session) MarkForReviewAndNext(raw any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrSubmitted
	}
	s.markForReview(raw)
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

func (s *Session) markForReview(raw any) {
	s.saveCurrent(raw)
	q := &s.questions[s.current]
	q.ReviewFlag = true
	q.Status = model.StatusReview
}

// ClearResponse discards the current question's answer and review flag and
// marks it NOT_ANSWERED.
func (s *Session) ClearResponse() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrSubmitted
	}
	q := &s.questions[s.current]
	q.Answer = nil
	q.ReviewFlag = false
	q.Status = model.StatusNotAnswered
	return nil
}

// JumpTo stores the active input for the current question and moves to idx.
// A question left in REVIEW keeps its flag and status; otherwise its status
// is recomputed by presence and the flag cleared. The destination question is
// untouched.
func (s *Session) JumpTo(idx int, raw any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrSubmitted
	}
	if idx < 0 || idx >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	present := s.saveCurrent(raw)
	q := &s.questions[s.current]
	if q.Status != model.StatusReview {
		q.ReviewFlag = false
		q.Status = statusByPresence(present)
	}
	s.current = idx
	return nil
}

// SetQuestionType changes a question's configured type. The stored answer is
// discarded since its kind no longer matches, and the question reads
// NOT_ANSWERED.
func (s *Session) SetQuestionType(idx int, t model.QuestionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrSubmitted
	}
	if idx < 0 || idx >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	q := &s.questions[idx]
	q.Type = t
	q.Answer = nil
	q.ReviewFlag = false
	q.Status = model.StatusNotAnswered
	return nil
}

// RecordHint increments the hint count for a question, bounded by limit.
// Returns the new count and whether the increment was applied.
func (s *Session) RecordHint(idx, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return 0, false, ErrSubmitted
	}
	if idx < 0 || idx >= len(s.questions) {
		return 0, false, ErrIndexOutOfRange
	}
	q := &s.questions[idx]
	if q.HintCount >= limit {
		return q.HintCount, false, nil
	}
	q.HintCount++
	return q.HintCount, true, nil
}

// TickResult reports the countdown state after one tick.
type TickResult struct {
	RemainingSec int
	Expired      bool
}

// Tick advances the countdown by one second. Expired is reported exactly once,
// on the transition to zero; ticks after submission or after zero are inert.
func (s *Session) Tick() TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted || s.remainingSec <= 0 {
		return TickResult{RemainingSec: s.remainingSec}
	}
	s.remainingSec--
	return TickResult{RemainingSec: s.remainingSec, Expired: s.remainingSec == 0}
}

// Finish is the frozen outcome of FinishAttempt.
type Finish struct {
	Answers      []*model.Answer
	Questions    []model.Question
	TimeTakenSec int
	Auto         bool
}

// FinishAttempt seals the session: stores the active input one last time,
// stops accepting actions, and freezes the answer sheet. The first call wins;
// later calls report first=false and change nothing, which makes a manual
// submit racing the expiry tick safe.
func (s *Session) FinishAttempt(raw any, auto bool) (Finish, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return Finish{}, false
	}
	s.saveCurrent(raw)
	s.submitted = true
	s.auto = auto
	s.timeTakenSec = s.cfg.TimeLimitMinutes*60 - s.remainingSec

	answers := make([]*model.Answer, len(s.questions))
	qs := make([]model.Question, len(s.questions))
	for i := range s.questions {
		answers[i] = s.questions[i].Answer
		qs[i] = s.questions[i]
	}
	return Finish{
		Answers:      answers,
		Questions:    qs,
		TimeTakenSec: s.timeTakenSec,
		Auto:         auto,
	}, true
}

// Submitted reports whether the session has been sealed.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

func statusByPresence(present bool) model.QuestionStatus {
	if present {
		return model.StatusAnswered
	}
	return model.StatusNotAnswered
}
