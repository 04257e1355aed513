package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shailesh1606/TestMocker/internal/session"
)

var (
	// ErrNoHintSource means hints were requested but no generator is wired.
	ErrNoHintSource = errors.New("no hint source configured")

	// ErrHintLimit rejects hint requests past the per-question cap.
	ErrHintLimit = errors.New("hint limit reached for this question")
)

// HintRequest carries the question context forwarded to the hint generator.
// The service never reads the source document itself, so the caller supplies
// whatever text and options it has.
type HintRequest struct {
	QuestionIndex int      `json:"question_index"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
}

// HintSource generates a hint for one question. Implementations call an
// external text-generation service; failures are recoverable warnings.
type HintSource interface {
	Hint(ctx context.Context, req HintRequest) (string, error)
}

// HintService bounds hint usage per question and delegates generation to the
// configured source. Hint counts live on the session and flow into attempt
// records.
type HintService struct {
	sessions *SessionService
	source   HintSource
	limit    int
	log      zerolog.Logger
}

// NewHintService creates a HintService. source may be nil; requests then fail
// with ErrNoHintSource.
func NewHintService(sessions *SessionService, source HintSource, limit int, log zerolog.Logger) *HintService {
	if limit <= 0 {
		limit = 6
	}
	return &HintService{
		sessions: sessions,
		source:   source,
		limit:    limit,
		log:      log.With().Str("component", "hint_service").Logger(),
	}
}

type hintResult struct {
	text string
	err  error
}

// RequestHint generates a hint for the given question. The generator runs
// outside the session's execution context; an expired ctx abandons the
// in-flight result. The counter increments only on success, so a failed
// fetch never burns a hint.
func (h *HintService) RequestHint(ctx context.Context, req HintRequest) (string, int, error) {
	if h.source == nil {
		return "", 0, ErrNoHintSource
	}

	st, err := h.sessions.State()
	if err != nil {
		return "", 0, err
	}
	if req.QuestionIndex < 0 || req.QuestionIndex >= len(st.Questions) {
		return "", 0, session.ErrIndexOutOfRange
	}
	if st.Questions[req.QuestionIndex].HintCount >= h.limit {
		return "", st.Questions[req.QuestionIndex].HintCount, ErrHintLimit
	}

	// Fill minimal placeholders when the client has no extracted context.
	if req.QuestionText == "" {
		req.QuestionText = fmt.Sprintf("Question %d (text not available). Provide a conceptual hint.", req.QuestionIndex+1)
	}
	if len(req.Options) == 0 {
		req.Options = []string{"A", "B", "C", "D"}
	}

	ch := make(chan hintResult, 1)
	go func() {
		text, err := h.source.Hint(ctx, req)
		ch <- hintResult{text: text, err: err}
	}()

	var res hintResult
	select {
	case <-ctx.Done():
		return "", 0, ctx.Err()
	case res = <-ch:
	}
	if res.err != nil {
		h.log.Warn().Err(res.err).Int("question_index", req.QuestionIndex).Msg("Hint fetch failed")
		return "", 0, fmt.Errorf("fetch hint: %w", res.err)
	}

	count, ok, err := h.sessions.RecordHint(ctx, req.QuestionIndex, h.limit)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		return "", count, ErrHintLimit
	}
	return res.text, count, nil
}
