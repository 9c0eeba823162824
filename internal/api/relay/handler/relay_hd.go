package relayHandler

import (
	"DriveThruGolang/internal/middleware"
	"DriveThruGolang/pkg/log"
	"time"

	"github.com/gofiber/websocket/v2"
)

// handleVoiceSession runs for the full lifetime of one browser
// connection. The request id minted during the HTTP upgrade becomes
// the session id so relay logs line up with the access log.
func (h *RelayHandler) handleVoiceSession(conn *websocket.Conn) {
	sessionID, ok := conn.Locals(middleware.RequestIDKey).(string)
	if !ok || sessionID == "" {
		sessionID, _ = h.utils.NewULIDFromTimestamp(time.Now())
	}

	h.log.WithFields(log.Fields{
		"session_id": sessionID,
	}).Info("Voice client connected")
	defer h.log.WithFields(log.Fields{
		"session_id": sessionID,
	}).Info("Voice client disconnected")

	if err := h.relayService.HandleSession(conn, sessionID); err != nil {
		h.log.WithFields(log.Fields{
			"session_id": sessionID,
		}).Errorf("Voice session failed: %v", err)
	}
}
