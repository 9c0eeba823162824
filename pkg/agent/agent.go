package agent

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the slice of a websocket connection the relay needs. Both the
// gorilla client connection and the server-side browser connection
// satisfy it, which keeps session tests free of real sockets.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type IDialer interface {
	Dial() (Conn, error)
}

type agentDialer struct {
	url          string
	apiKey       string
	openAIKey    string
	writeTimeout time.Duration
}

func NewDialer() IDialer {
	url := os.Getenv("DEEPGRAM_AGENT_URL")
	if url == "" {
		url = "wss://agent.deepgram.com/v1/agent/converse"
	}

	return &agentDialer{
		url:          url,
		apiKey:       os.Getenv("DEEPGRAM_API_KEY"),
		openAIKey:    os.Getenv("OPENAI_API_KEY"),
		writeTimeout: 5 * time.Second,
	}
}

func (d *agentDialer) Dial() (Conn, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("DEEPGRAM_API_KEY not configured")
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.apiKey)
	if d.openAIKey != "" {
		headers.Set("X-OpenAI-API-Key", d.openAIKey)
	}

	log.Printf("Connecting to voice agent at %s", d.url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(d.url, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(d.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	return conn, nil
}

// ReadEnvelope reads one frame and decodes its type. Binary frames come
// back with a nil envelope, text frames that are not JSON with a nil
// envelope and the raw bytes.
func ReadEnvelope(conn Conn) (*Envelope, []byte, error) {
	messageType, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, nil, err
	}

	if messageType == websocket.BinaryMessage {
		return nil, raw, nil
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, raw, nil
	}

	return &envelope, raw, nil
}
