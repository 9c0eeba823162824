package relayService

import (
	"DriveThruGolang/internal/api/relay"
	"DriveThruGolang/internal/entity"
	"DriveThruGolang/pkg/agent"
	"DriveThruGolang/pkg/conversation"
	"DriveThruGolang/pkg/latency"
	"DriveThruGolang/pkg/log"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/context"
)

// session binds the two sockets, the cart, and the per-session timer
// scope together for the lifetime of one voice connection. Both
// forwarding loops write to both sockets, so every write goes through
// a per-socket mutex.
type session struct {
	id      string
	client  agent.Conn
	agent   agent.Conn
	order   *entity.OrderSession
	timers  latency.ISessionTimers
	convLog conversation.ILog

	clientMu  sync.Mutex
	agentMu   sync.Mutex
	speechMu  sync.Mutex
	lastAudio time.Time
	closeOnce sync.Once
}

func (se *session) writeClient(messageType int, data []byte) error {
	se.clientMu.Lock()
	defer se.clientMu.Unlock()
	return se.client.WriteMessage(messageType, data)
}

func (se *session) writeAgent(messageType int, data []byte) error {
	se.agentMu.Lock()
	defer se.agentMu.Unlock()
	return se.agent.WriteMessage(messageType, data)
}

func (se *session) notifyClient(frame relay.ControlFrame) error {
	raw, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return se.writeClient(websocket.TextMessage, raw)
}

// notifyError is best-effort: the client may already be gone.
func (se *session) notifyError(message string) {
	_ = se.notifyClient(relay.ErrorFrame(message))
}

func (se *session) writeAgentJSON(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return se.writeAgent(websocket.TextMessage, raw)
}

// markSpeechStart runs on the first audio frame after a quiet period.
func (se *session) markSpeechStart() {
	se.speechMu.Lock()
	defer se.speechMu.Unlock()

	if se.lastAudio.IsZero() {
		se.timers.Start("user_speech")
		se.lastAudio = time.Now()
	}
}

// finishSpeech closes the user_speech timer once the agent signals the
// user stopped talking. A no-op when no audio arrived since the last
// turn.
func (se *session) finishSpeech() {
	se.speechMu.Lock()
	defer se.speechMu.Unlock()

	if se.lastAudio.IsZero() {
		return
	}

	se.timers.End("user_speech", map[string]interface{}{
		"duration_sec": math.Round(time.Since(se.lastAudio).Seconds()*100) / 100,
	})
	se.lastAudio = time.Time{}
}

// close tears down both transports. Safe to call from any goroutine,
// any number of times.
func (se *session) close() {
	se.closeOnce.Do(func() {
		if se.agent != nil {
			_ = se.agent.Close()
		}
		_ = se.client.Close()
	})
}

func (s *relayService) HandleSession(client agent.Conn, sessionID string) error {
	convLog := s.recorder.Open(sessionID)
	defer s.archiveConversation(convLog)

	sess := &session{
		id:      sessionID,
		client:  client,
		order:   entity.NewOrderSession(sessionID),
		timers:  s.latency.Session(sessionID),
		convLog: convLog,
	}
	defer sess.close()

	agentConn, err := s.dialer.Dial()
	if err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
		}).Errorf("Voice agent dial failed: %v", err)
		sess.notifyError(err.Error())
		return relay.ErrAgentUnavailable
	}
	sess.agent = agentConn

	if err := s.handshake(sess); err != nil {
		return err
	}

	// One context per session: the first loop to fail cancels it, the
	// watcher closes both sockets so the other loop's blocked read
	// returns, and both loops are joined before the handler returns.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-ctx.Done()
		sess.close()
	}()

	errs := make(chan error, 2)
	go func() {
		errs <- s.clientToAgent(ctx, sess)
		cancel()
	}()
	go func() {
		errs <- s.agentToClient(ctx, sess)
		cancel()
	}()

	first := <-errs
	<-errs

	if isUnexpectedClose(first) {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
		}).Errorf("Relay stopped on transport error: %v", first)
	} else {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
		}).Info("Relay connection closed")
	}

	return nil
}

// handshake walks the agent socket from freshly dialed to ready:
// greeting in, settings out, confirmation in, with the client told
// about each milestone.
func (s *relayService) handshake(sess *session) error {
	welcome, _, err := agent.ReadEnvelope(sess.agent)
	if err != nil {
		sess.notifyError(err.Error())
		return fmt.Errorf("awaiting agent welcome: %w", err)
	}
	if welcome == nil {
		sess.notifyError("unexpected greeting from voice agent")
		return errors.New("voice agent greeting was not JSON")
	}

	s.log.WithFields(log.Fields{
		"session_id": sess.id,
		"type":       welcome.Type,
	}).Debug("Voice agent greeting received")

	if err := sess.notifyClient(relay.ConnectedFrame()); err != nil {
		return fmt.Errorf("notifying client: %w", err)
	}

	settings := agent.DefaultSettings(agent.MicSampleRate, agent.SpeakerSampleRate)
	if err := sess.writeAgentJSON(settings); err != nil {
		sess.notifyError(err.Error())
		return fmt.Errorf("sending agent settings: %w", err)
	}

	confirm, raw, err := agent.ReadEnvelope(sess.agent)
	if err != nil {
		sess.notifyError(err.Error())
		return fmt.Errorf("awaiting settings confirmation: %w", err)
	}
	if confirm == nil {
		sess.notifyError("unexpected settings confirmation from voice agent")
		return errors.New("settings confirmation was not JSON")
	}

	s.log.WithFields(log.Fields{
		"session_id": sess.id,
		"type":       confirm.Type,
	}).Debug("Settings response received")

	if confirm.Type == agent.TypeError {
		s.log.WithFields(log.Fields{
			"session_id": sess.id,
			"response":   string(raw),
		}).Error("Voice agent rejected session settings")
		sess.notifyError("Failed to configure agent")
		return relay.ErrAgentRejectedSettings
	}

	if err := sess.notifyClient(relay.ReadyFrame()); err != nil {
		return fmt.Errorf("notifying client: %w", err)
	}

	s.log.WithFields(log.Fields{
		"session_id": sess.id,
	}).Info("Agent ready for conversation")

	return nil
}

// clientToAgent forwards browser audio to the agent and answers the
// browser's ping frames. Browser text is never forwarded upstream.
func (s *relayService) clientToAgent(ctx context.Context, sess *session) error {
	for {
		messageType, message, err := sess.client.ReadMessage()
		if err != nil {
			// A read error after cancellation is the watcher closing
			// the socket, not a transport failure.
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch messageType {
		case websocket.BinaryMessage:
			sess.markSpeechStart()
			if err := sess.writeAgent(websocket.BinaryMessage, message); err != nil {
				return err
			}
		case websocket.TextMessage:
			var frame relay.ControlFrame
			if err := json.Unmarshal(message, &frame); err != nil {
				s.log.WithFields(log.Fields{
					"session_id": sess.id,
				}).Warnf("Malformed client control frame: %v", err)
				return fmt.Errorf("malformed client frame: %w", err)
			}
			if frame.Type == "ping" {
				if err := sess.notifyClient(relay.PongFrame()); err != nil {
					return err
				}
			}
		}
	}
}

// agentToClient forwards agent audio and JSON to the browser. JSON
// frames are inspected first: lifecycle markers drive the latency
// timers, function-call requests are dispatched and answered before
// the frame itself is passed through. Non-JSON text is dropped.
func (s *relayService) agentToClient(ctx context.Context, sess *session) error {
	for {
		messageType, message, err := sess.agent.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if messageType == websocket.BinaryMessage {
			if err := sess.writeClient(websocket.BinaryMessage, message); err != nil {
				return err
			}
			continue
		}

		var envelope agent.Envelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			continue
		}

		switch envelope.Type {
		case agent.TypeUserStartedSpeaking:
			sess.finishSpeech()
			sess.timers.Start("deepgram_response")
		case agent.TypeAgentThinking, agent.TypeAgentAudioDone:
			sess.timers.End("deepgram_response", map[string]interface{}{
				"type": envelope.Type,
			})
		}

		if envelope.Type == agent.TypeFunctionCallRequest {
			if err := s.dispatchFunctionCalls(sess, envelope.Functions); err != nil {
				return err
			}
		}

		if err := sess.writeClient(websocket.TextMessage, message); err != nil {
			return err
		}
	}
}

func (s *relayService) archiveConversation(convLog conversation.ILog) {
	convLog.End()

	if s.storage == nil || convLog.Path() == "" {
		return
	}

	location, err := s.storage.UploadLocalFile(convLog.Path())
	if err != nil {
		s.log.Warnf("Failed to archive conversation log %s: %v", convLog.Path(), err)
		return
	}

	fields := log.Fields{"location": location}
	if fetchUrl, err := s.storage.PresignUrl(location); err == nil {
		fields["fetch_url"] = fetchUrl
	}
	s.log.WithFields(fields).Debug("Conversation log archived")
}

func isUnexpectedClose(err error) bool {
	return websocket.IsUnexpectedCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure)
}
