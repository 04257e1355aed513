package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shailesh1606/TestMocker/internal/model"
	"github.com/shailesh1606/TestMocker/internal/response"
	"github.com/shailesh1606/TestMocker/internal/service"
	"github.com/shailesh1606/TestMocker/internal/session"
	"github.com/shailesh1606/TestMocker/internal/validator"
)

// SessionHandler handles the test-session REST surface.
type SessionHandler struct {
	sessions *service.SessionService
	hints    *service.HintService
	log      zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService, hints *service.HintService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		hints:    hints,
		log:      log.With().Str("component", "session_handler").Logger(),
	}
}

// StartSession godoc
// POST /api/v1/sessions
// Creates the single active test session and starts its countdown.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cfg := req.Config()
	st, err := h.sessions.Start(c.Request.Context(), cfg)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionRunning):
			response.Fail(c, http.StatusConflict, response.ErrSessionLive)
		default:
			// Validation of the resolved config (e.g. question type count).
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"detail": err.Error()})
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": st})
}

// GetState godoc
// GET /api/v1/sessions/current
// Returns the full state of the active session.
func (h *SessionHandler) GetState(c *gin.Context) {
	st, err := h.sessions.State()
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": st})
}

// Navigate godoc
// POST /api/v1/sessions/current/navigate
// Applies a navigation action (save-and-next, mark-for-review, clear).
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st, err := h.sessions.Navigate(c.Request.Context(), service.NavAction(req.Action), req.Answer)
	if err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": st})
}

// Jump godoc
// POST /api/v1/sessions/current/jump
// Saves the active input and moves to another question.
func (h *SessionHandler) Jump(c *gin.Context) {
	var req model.JumpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st, err := h.sessions.JumpTo(c.Request.Context(), *req.Index, req.Answer)
	if err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": st})
}

// SetQuestionType godoc
// POST /api/v1/sessions/current/question-type
// Changes a question's answer kind; any stored answer for it is discarded.
func (h *SessionHandler) SetQuestionType(c *gin.Context) {
	var req model.QuestionTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, _ := model.ParseQuestionType(req.Type)
	st, err := h.sessions.SetQuestionType(c.Request.Context(), *req.Index, t)
	if err != nil {
		h.failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": st})
}

// Submit godoc
// POST /api/v1/sessions/current/submit
// Seals the session and runs key acquisition and scoring. SKIP submits
// without scoring; a failed AUTO extraction leaves the attempt sealed and
// scorable later via Score.
func (h *SessionHandler) Submit(c *gin.Context) {
	var req model.SubmitSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.sessions.Submit(c.Request.Context(), service.SubmitRequest{
		Method:  req.Method,
		Answers: req.Answers,
		Current: req.Current,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		case errors.Is(err, session.ErrSubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrNoExtractor):
			response.Fail(c, http.StatusBadGateway, response.ErrExtractionFailed)
		default:
			// Extraction failure: submission stands, scoring is retryable.
			h.log.Warn().Err(err).Msg("Submission sealed but scoring failed")
			response.Fail(c, http.StatusBadGateway, response.ErrExtractionFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": res})
}

// Score godoc
// POST /api/v1/sessions/current/score
// Scores a submitted-but-unscored session (the manual fallback after a
// skipped, cancelled or failed key acquisition). One scoring pass only.
func (h *SessionHandler) Score(c *gin.Context) {
	var req model.ScoreSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report, err := h.sessions.Score(c.Request.Context(), req.Method, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		case errors.Is(err, service.ErrNotSubmitted):
			response.Fail(c, http.StatusConflict, response.ErrNotSubmitted)
		case errors.Is(err, service.ErrAlreadyScored):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrNoExtractor):
			response.Fail(c, http.StatusBadGateway, response.ErrExtractionFailed)
		case errors.Is(err, session.ErrCancelled):
			response.Fail(c, http.StatusBadGateway, response.ErrKeyCancelled)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrExtractionFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// GetReport godoc
// GET /api/v1/sessions/current/report
// Returns the score report of the submitted session.
func (h *SessionHandler) GetReport(c *gin.Context) {
	report, err := h.sessions.Report()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		case errors.Is(err, service.ErrNotSubmitted):
			response.Fail(c, http.StatusConflict, response.ErrNotSubmitted)
		default:
			response.Fail(c, http.StatusNotFound, response.ErrNoReport)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// RequestHint godoc
// POST /api/v1/sessions/current/hint
// Generates a hint for one question, bounded per question. The counter only
// moves on success.
func (h *SessionHandler) RequestHint(c *gin.Context) {
	var req model.HintRequestPayload
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hint, count, err := h.hints.RequestHint(c.Request.Context(), service.HintRequest{
		QuestionIndex: *req.Index,
		QuestionText:  req.QuestionText,
		Options:       req.Options,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		case errors.Is(err, service.ErrHintLimit):
			response.Fail(c, http.StatusTooManyRequests, response.ErrHintLimitReached)
		case errors.Is(err, session.ErrIndexOutOfRange):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
		case errors.Is(err, service.ErrNoHintSource):
			response.Fail(c, http.StatusBadGateway, response.ErrHintFailed)
		case errors.Is(err, session.ErrSubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrHintFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"hint": hint, "hint_count": count})
}

// failSession maps the common session action errors to API codes.
func (h *SessionHandler) failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
	case errors.Is(err, session.ErrSubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, session.ErrIndexOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	}
}
