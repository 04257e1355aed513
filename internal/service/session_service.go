package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shailesh1606/TestMocker/internal/config"
	"github.com/shailesh1606/TestMocker/internal/grading"
	"github.com/shailesh1606/TestMocker/internal/model"
	"github.com/shailesh1606/TestMocker/internal/session"
)

var (
	// ErrNoActiveSession means no session has been started or the last one
	// was discarded.
	ErrNoActiveSession = errors.New("no active test session")

	// ErrSessionRunning rejects starting a session while one is live.
	ErrSessionRunning = errors.New("a test session is already running")

	// ErrNotSubmitted rejects scoring a session that is still live.
	ErrNotSubmitted = errors.New("session has not been submitted")

	// ErrAlreadyScored guards the single scoring pass per attempt.
	ErrAlreadyScored = errors.New("session has already been scored")

	// ErrNoReport means the session ended unscored (skipped or cancelled).
	ErrNoReport = errors.New("no score report available")

	// ErrNoExtractor means auto key extraction was requested but no
	// extraction service is configured.
	ErrNoExtractor = errors.New("no answer key extraction service configured")
)

// TimerEvent is pushed to WebSocket subscribers on every countdown tick and
// once on submission.
type TimerEvent struct {
	Type         string `json:"type"` // "tick" or "submitted"
	RemainingSec int    `json:"remaining_sec"`
	Auto         bool   `json:"auto,omitempty"`
}

// SessionService owns the single active test session: its countdown, its
// navigation actions, submission and scoring, and the best-effort Redis
// snapshot that lets a reconnecting client restore its sheet. Only one
// session exists at a time; starting a new one requires the previous one to
// be submitted.
type SessionService struct {
	mu          sync.Mutex
	sess        *session.Session
	report      *grading.Report
	cancelTimer context.CancelFunc

	subMu sync.Mutex
	subs  map[chan TimerEvent]struct{}

	rdb          *redis.Client
	autoKey      session.KeySource
	tickInterval time.Duration
	log          zerolog.Logger
}

// NewSessionService creates a SessionService. autoKey may be nil when no
// extraction service is wired; AUTO submissions then fail with ErrNoExtractor.
func NewSessionService(rdb *redis.Client, autoKey session.KeySource, tickInterval time.Duration, log zerolog.Logger) *SessionService {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &SessionService{
		subs:         make(map[chan TimerEvent]struct{}),
		rdb:          rdb,
		autoKey:      autoKey,
		tickInterval: tickInterval,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// Start validates the configuration, creates a fresh session and starts the
// countdown. A previous submitted session (and its report) is discarded.
func (s *SessionService) Start(ctx context.Context, cfg model.SessionConfig) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil && !s.sess.Submitted() {
		return session.State{}, ErrSessionRunning
	}

	sess, err := session.New(cfg)
	if err != nil {
		return session.State{}, err
	}

	if s.cancelTimer != nil {
		s.cancelTimer()
	}
	timerCtx, cancel := context.WithCancel(context.Background())
	s.cancelTimer = cancel
	s.sess = sess
	s.report = nil

	go s.runCountdown(timerCtx, sess)

	s.log.Info().
		Str("attempt_id", sess.AttemptID().String()).
		Str("exam_type", string(cfg.ExamType)).
		Int("questions", cfg.NumQuestions).
		Int("time_limit_min", cfg.TimeLimitMinutes).
		Msg("Session started")

	st := sess.Snapshot()
	s.autosave(ctx, st)
	return st, nil
}

// runCountdown drives the session clock at the configured interval and fires
// the auto-submit exactly once when time runs out.
func (s *SessionService) runCountdown(ctx context.Context, sess *session.Session) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := sess.Tick()
			s.broadcast(TimerEvent{Type: "tick", RemainingSec: t.RemainingSec})
			if t.Expired {
				s.log.Info().Str("attempt_id", sess.AttemptID().String()).Msg("Time expired, auto-submitting")
				s.autoSubmit(sess)
				return
			}
		}
	}
}

// State returns a snapshot of the active session.
func (s *SessionService) State() (session.State, error) {
	sess, err := s.active()
	if err != nil {
		return session.State{}, err
	}
	return sess.Snapshot(), nil
}

func (s *SessionService) active() (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, ErrNoActiveSession
	}
	return s.sess, nil
}

// NavAction names a navigation action on the current question.
type NavAction string

const (
	NavSaveAndNext          NavAction = "SAVE_AND_NEXT"
	NavSaveAndMarkForReview NavAction = "SAVE_AND_MARK_FOR_REVIEW"
	NavMarkForReviewAndNext NavAction = "MARK_FOR_REVIEW_AND_NEXT"
	NavClearResponse        NavAction = "CLEAR_RESPONSE"
)

// Navigate applies a navigation action with the client's active input value.
func (s *SessionService) Navigate(ctx context.Context, action NavAction, raw any) (session.State, error) {
	sess, err := s.active()
	if err != nil {
		return session.State{}, err
	}

	switch action {
	case NavSaveAndNext:
		err = sess.SaveAndNext(raw)
	case NavSaveAndMarkForReview:
		err = sess.SaveAndMarkForReview(raw)
	case NavMarkForReviewAndNext:
		err = sess.MarkForReviewAndNext(raw)
	case NavClearResponse:
		err = sess.ClearResponse()
	default:
		return session.State{}, errors.New("unknown navigation action")
	}
	if err != nil {
		return session.State{}, err
	}

	st := sess.Snapshot()
	s.autosave(ctx, st)
	return st, nil
}

// JumpTo saves the current input and moves to another question.
func (s *SessionService) JumpTo(ctx context.Context, idx int, raw any) (session.State, error) {
	sess, err := s.active()
	if err != nil {
		return session.State{}, err
	}
	if err := sess.JumpTo(idx, raw); err != nil {
		return session.State{}, err
	}
	st := sess.Snapshot()
	s.autosave(ctx, st)
	return st, nil
}

// SetQuestionType reconfigures one question's answer kind, discarding any
// stored answer for it.
func (s *SessionService) SetQuestionType(ctx context.Context, idx int, t model.QuestionType) (session.State, error) {
	sess, err := s.active()
	if err != nil {
		return session.State{}, err
	}
	if err := sess.SetQuestionType(idx, t); err != nil {
		return session.State{}, err
	}
	st := sess.Snapshot()
	s.autosave(ctx, st)
	return st, nil
}

// SubmitRequest carries the submission intent: how to obtain the key, the
// manual key sheet when Method is MANUAL, and the still-unsaved active input.
type SubmitRequest struct {
	Method  model.KeyMethod
	Answers []any
	Current any
}

// SubmitResult reports what happened to the attempt. Report is nil when the
// session ended unscored (SKIP, cancelled entry, or failed extraction); the
// submission itself always stands.
type SubmitResult struct {
	AttemptID    string          `json:"attempt_id"`
	Auto         bool            `json:"auto"`
	TimeTakenSec int             `json:"time_taken_sec"`
	Scored       bool            `json:"scored"`
	KeyMethod    model.KeyMethod `json:"key_method"`
	Report       *grading.Report `json:"report,omitempty"`
}

// Submit seals the active session and, unless the key method is SKIP, runs
// key acquisition and scoring. A second submit is rejected; the racing
// auto-submit path silently loses instead.
func (s *SessionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	sess, err := s.active()
	if err != nil {
		return nil, err
	}

	fin, first := sess.FinishAttempt(req.Current, false)
	if !first {
		return nil, session.ErrSubmitted
	}
	s.stopTimer()
	s.broadcast(TimerEvent{Type: "submitted"})

	return s.finishAndScore(ctx, sess, fin, req.Method, req.Answers)
}

// autoSubmit is the timer-expiry path. It bypasses user confirmation, scores
// through the extraction service when one is wired, and otherwise leaves the
// attempt sealed but unscored.
func (s *SessionService) autoSubmit(sess *session.Session) {
	fin, first := sess.FinishAttempt(nil, true)
	if !first {
		return
	}
	s.broadcast(TimerEvent{Type: "submitted", Auto: true})

	method := model.KeyMethodSkip
	if s.autoKey != nil {
		method = model.KeyMethodAuto
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if _, err := s.finishAndScore(ctx, sess, fin, method, nil); err != nil {
		s.log.Warn().Err(err).Msg("Auto-submit scoring failed; attempt sealed unscored")
	}
}

// finishAndScore runs key acquisition, attempt logging and grading for a
// freshly sealed attempt.
func (s *SessionService) finishAndScore(ctx context.Context, sess *session.Session, fin session.Finish, method model.KeyMethod, manual []any) (*SubmitResult, error) {
	res := &SubmitResult{
		AttemptID:    sess.AttemptID().String(),
		Auto:         fin.Auto,
		TimeTakenSec: fin.TimeTakenSec,
		KeyMethod:    method,
	}

	key, err := s.acquireKey(ctx, sess, method, manual)
	if err != nil {
		// Recoverable: the attempt stands, scoring can be retried via Score.
		s.logAttempts(sess, fin, nil)
		if errors.Is(err, session.ErrCancelled) {
			res.KeyMethod = model.KeyMethodSkip
			return res, nil
		}
		return res, err
	}

	if key.Method == model.KeyMethodSkip {
		s.logAttempts(sess, fin, nil)
		res.KeyMethod = model.KeyMethodSkip
		return res, nil
	}

	s.logAttempts(sess, fin, key.Answers)
	res.Report = s.grade(sess, fin, key)
	res.Scored = true
	return res, nil
}

// Score grades a sealed-but-unscored attempt, the fallback after a cancelled
// or failed key acquisition. Only one scoring pass is allowed per attempt.
func (s *SessionService) Score(ctx context.Context, method model.KeyMethod, manual []any) (*grading.Report, error) {
	s.mu.Lock()
	sess := s.sess
	scored := s.report != nil
	s.mu.Unlock()

	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if !sess.Submitted() {
		return nil, ErrNotSubmitted
	}
	if scored {
		return nil, ErrAlreadyScored
	}

	fin := finishFromSnapshot(sess)
	key, err := s.acquireKey(ctx, sess, method, manual)
	if err != nil {
		return nil, err
	}
	if key.Method == model.KeyMethodSkip {
		return nil, ErrNoReport
	}
	return s.grade(sess, fin, key), nil
}

// finishFromSnapshot rebuilds the frozen answer sheet of an already sealed
// session for a deferred scoring pass.
func finishFromSnapshot(sess *session.Session) session.Finish {
	st := sess.Snapshot()
	answers := make([]*model.Answer, len(st.Questions))
	for i := range st.Questions {
		answers[i] = st.Questions[i].Answer
	}
	return session.Finish{
		Answers:      answers,
		Questions:    st.Questions,
		TimeTakenSec: st.Config.TimeLimitMinutes*60 - st.RemainingSec,
		Auto:         st.Auto,
	}
}

func (s *SessionService) acquireKey(ctx context.Context, sess *session.Session, method model.KeyMethod, manual []any) (*model.AnswerKey, error) {
	cfg := sess.Config()

	var src session.KeySource
	switch method {
	case model.KeyMethodManual:
		src = session.ManualKeySource{Answers: manual}
	case model.KeyMethodAuto:
		if s.autoKey == nil {
			return nil, ErrNoExtractor
		}
		src = s.autoKey
	default:
		src = session.SkipKeySource{}
	}

	// The fetch runs outside the session's execution context; a context
	// timeout here simply abandons the in-flight result.
	ch := session.GoFetch(ctx, src, cfg.NumQuestions, cfg.Types())
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Key, nil
	}
}

func (s *SessionService) grade(sess *session.Session, fin session.Finish, key *model.AnswerKey) *grading.Report {
	cfg := sess.Config()
	report := grading.BuildReport(fin.Answers, key.Answers, cfg.MarksPerCorrect, cfg.NegativeMark)
	report.TimeTakenSec = fin.TimeTakenSec
	report.TotalTimeSec = cfg.TimeLimitMinutes * 60
	report.Auto = fin.Auto
	report.KeyMethod = key.Method

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	s.cacheReport(sess, report)

	s.log.Info().
		Str("attempt_id", sess.AttemptID().String()).
		Float64("score", report.Score).
		Int("correct", report.Correct).
		Int("attempted", report.Attempted).
		Bool("auto", report.Auto).
		Msg("Session scored")

	return report
}

// Report returns the score report of the last scored session.
func (s *SessionService) Report() (*grading.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, ErrNoActiveSession
	}
	if !s.sess.Submitted() {
		return nil, ErrNotSubmitted
	}
	if s.report == nil {
		return nil, ErrNoReport
	}
	return s.report, nil
}

// RecordHint bumps the hint counter for a question, bounded by limit, and
// mirrors the count to Redis.
func (s *SessionService) RecordHint(ctx context.Context, idx, limit int) (int, bool, error) {
	sess, err := s.active()
	if err != nil {
		return 0, false, err
	}
	count, ok, err := sess.RecordHint(idx, limit)
	if err != nil || !ok {
		return count, ok, err
	}
	hintsKey := config.CacheKey.SessionHintsKey(sess.AttemptID().String())
	if err := s.rdb.HSet(ctx, hintsKey, strconv.Itoa(idx), count).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Hint count cache failed")
	}
	return count, true, nil
}

// SubscribeTimer registers a WebSocket client for timer events. The returned
// func must be called to unsubscribe.
func (s *SessionService) SubscribeTimer() (<-chan TimerEvent, func()) {
	ch := make(chan TimerEvent, 8)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
}

// broadcast fans a timer event out to subscribers. Slow consumers drop
// events rather than stalling the clock.
func (s *SessionService) broadcast(ev TimerEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *SessionService) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

// autosave mirrors the live session state to Redis so a reconnecting client
// can restore its sheet. Failures are logged and swallowed.
func (s *SessionService) autosave(ctx context.Context, st session.State) {
	stateKey := config.CacheKey.SessionStateKey(st.AttemptID.String())
	payload, err := json.Marshal(st)
	if err != nil {
		s.log.Warn().Err(err).Msg("Autosave marshal failed")
		return
	}
	if err := s.rdb.Set(ctx, stateKey, payload, 24*time.Hour).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Autosave state failed")
		return
	}

	answers := make(map[string]any, len(st.Questions))
	for _, q := range st.Questions {
		if q.Answer == nil {
			continue
		}
		b, err := json.Marshal(q.Answer)
		if err != nil {
			continue
		}
		answers[strconv.Itoa(q.Index)] = string(b)
	}
	if len(answers) == 0 {
		return
	}
	answersKey := config.CacheKey.SessionAnswersKey(st.AttemptID.String())
	if err := s.rdb.HSet(ctx, answersKey, answers).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Autosave answers failed")
	}
}

// cacheReport stores the score report in Redis alongside the state snapshot.
func (s *SessionService) cacheReport(sess *session.Session, report *grading.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	key := config.CacheKey.ReportKey(sess.AttemptID().String())
	if err := s.rdb.Set(ctx, key, payload, 24*time.Hour).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Report cache failed")
	}
}

// logAttempts enqueues one attempt record per question for the persistence
// worker. Best-effort: a Redis failure never blocks or alters submission.
func (s *SessionService) logAttempts(sess *session.Session, fin session.Finish, key []*model.Answer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	perQuestion := 0
	if n := len(fin.Questions); n > 0 {
		perQuestion = fin.TimeTakenSec / n
	}

	for i, q := range fin.Questions {
		var selected *int
		if a := model.Normalize(q.Answer); a != nil && a.Type == model.QuestionTypeMCQ {
			selected = a.Choice
		}
		var correct *model.Answer
		if i < len(key) {
			correct = key[i]
		}
		rec := model.Attempt{
			AttemptID:      sess.AttemptID(),
			QuestionIndex:  i,
			SelectedAnswer: selected,
			CorrectAnswer:  correct,
			TimeSpentSec:   perQuestion,
			HintCount:      q.HintCount,
			Timestamp:      now,
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, payload).Err(); err != nil {
			s.log.Warn().Err(err).Int("question_index", i).Msg("Attempt enqueue failed")
			return
		}
	}
}
