package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shailesh1606/TestMocker/internal/service"
	ws "github.com/shailesh1606/TestMocker/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the session countdown over WebSocket.
type WSHandler struct {
	sessions *service.SessionService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessions *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionTimerStream godoc
// WS /ws/v1/sessions/current/stream
// Pushes one tick event per second with the remaining time, and a submitted
// event when the session is sealed (manually or by expiry).
func (h *WSHandler) SessionTimerStream(c *gin.Context) {
	st, err := h.sessions.State()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("attempt_id", st.AttemptID.String()).Logger()
	wsLog.Info().Msg("Timer stream connected")

	// Initial tick so the client syncs immediately.
	if err := ws.WriteTyped(conn, ws.TickResponse{Event: ws.EventTick, RemainingSec: st.RemainingSec}); err != nil {
		return
	}

	events, unsubscribe := h.sessions.SubscribeTimer()
	defer unsubscribe()

	// Reader: consumes pings and detects close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Timer stream closed")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			} else {
				_ = ws.WriteError(conn, "unknown action: "+string(msg.Action))
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			var payload any
			switch ev.Type {
			case "submitted":
				payload = ws.SubmittedResponse{Event: ws.EventSubmitted, Auto: ev.Auto}
			default:
				payload = ws.TickResponse{Event: ws.EventTick, RemainingSec: ev.RemainingSec}
			}
			if err := ws.WriteTyped(conn, payload); err != nil {
				wsLog.Debug().Err(err).Msg("Timer stream write failed")
				return
			}
		}
	}
}
