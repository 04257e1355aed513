package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidIndex   ErrCode = "INVALID_QUESTION_INDEX"

	// ─── Session lifecycle ─────────────────────────────────────────────
	ErrNoActiveSession  ErrCode = "NO_ACTIVE_SESSION"
	ErrSessionLive      ErrCode = "SESSION_ALREADY_RUNNING"
	ErrAlreadySubmitted ErrCode = "SESSION_ALREADY_SUBMITTED"
	ErrNotSubmitted     ErrCode = "SESSION_NOT_SUBMITTED"
	ErrNoReport         ErrCode = "NO_SCORE_REPORT"

	// ─── Answer key / hints ────────────────────────────────────────────
	ErrKeyCancelled     ErrCode = "KEY_ENTRY_CANCELLED"
	ErrExtractionFailed ErrCode = "EXTRACTION_FAILED"
	ErrHintFailed       ErrCode = "HINT_FAILED"
	ErrHintLimitReached ErrCode = "HINT_LIMIT_REACHED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Server ────────────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"
	ErrInternal          ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidIndex:
		return "Question index is out of range."

	// ─── Session lifecycle ─────────────────────────────────────────────
	case ErrNoActiveSession:
		return "No test session is currently active."
	case ErrSessionLive:
		return "A test session is already running. Submit it before starting a new one."
	case ErrAlreadySubmitted:
		return "This session has already been submitted."
	case ErrNotSubmitted:
		return "This session has not been submitted yet."
	case ErrNoReport:
		return "No score report is available for this session."

	// ─── Answer key / hints ────────────────────────────────────────────
	case ErrKeyCancelled:
		return "Answer key entry was cancelled. The session remains open."
	case ErrExtractionFailed:
		return "Automatic answer key extraction failed. Enter the key manually or skip scoring."
	case ErrHintFailed:
		return "Hint generation failed. Please try again."
	case ErrHintLimitReached:
		return "Hint limit reached for this question."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
