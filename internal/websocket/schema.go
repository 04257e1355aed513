package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventTick      Event = "tick"
	EventSubmitted Event = "submitted"
	EventPong      Event = "pong"
)

// TickResponse streams the countdown, one event per second.
type TickResponse struct {
	Event        Event `json:"event"`
	RemainingSec int   `json:"remaining_sec"`
}

// SubmittedResponse announces that the session was sealed. Auto is true for
// the timer-expiry path.
type SubmittedResponse struct {
	Event Event `json:"event"`
	Auto  bool  `json:"auto"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
