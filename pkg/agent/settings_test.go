package agent

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultSettingsShape(t *testing.T) {
	settings := DefaultSettings(MicSampleRate, SpeakerSampleRate)

	raw, err := json.Marshal(settings)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["type"] != "Settings" {
		t.Fatalf("type = %v, want Settings", decoded["type"])
	}

	audio := decoded["audio"].(map[string]interface{})
	input := audio["input"].(map[string]interface{})
	output := audio["output"].(map[string]interface{})
	if input["encoding"] != "linear16" || input["sample_rate"] != float64(48000) {
		t.Fatalf("unexpected input config %v", input)
	}
	if output["sample_rate"] != float64(16000) || output["container"] != "none" {
		t.Fatalf("unexpected output config %v", output)
	}

	agentCfg := decoded["agent"].(map[string]interface{})
	if agentCfg["greeting"] != "Welcome to Jack in the Box. What can I get for you today?" {
		t.Fatalf("unexpected greeting %v", agentCfg["greeting"])
	}

	think := agentCfg["think"].(map[string]interface{})
	functions := think["functions"].([]interface{})
	if len(functions) != 9 {
		t.Fatalf("functions = %d, want 9", len(functions))
	}

	wantNames := []string{
		"order", "query_items", "query_modifiers", "add_item", "delete_item",
		"add_modifier", "submit_order_to_qu", "get_menu_categories", "get_category_items",
	}
	for i, fn := range functions {
		name := fn.(map[string]interface{})["name"]
		if name != wantNames[i] {
			t.Fatalf("functions[%d] = %v, want %s", i, name, wantNames[i])
		}
	}
}

func TestZeroArgSchemasMarshalEmptyNotNull(t *testing.T) {
	settings := DefaultSettings(MicSampleRate, SpeakerSampleRate)

	raw, err := json.Marshal(settings.Agent.Think.Functions[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	payload := string(raw)
	if strings.Contains(payload, `"properties":null`) || strings.Contains(payload, `"required":null`) {
		t.Fatalf("zero-arg schema marshals null: %s", payload)
	}
	if !strings.Contains(payload, `"properties":{}`) || !strings.Contains(payload, `"required":[]`) {
		t.Fatalf("zero-arg schema missing empty collections: %s", payload)
	}
}

func TestListenKeyterms(t *testing.T) {
	settings := DefaultSettings(MicSampleRate, SpeakerSampleRate)

	keyterms := settings.Agent.Listen.Provider.Keyterms
	want := []string{"Hi-C", "Barq's", "Coca-cola", "Coke", "Fanta", "Iced Coffee"}
	if len(keyterms) != len(want) {
		t.Fatalf("keyterms = %v", keyterms)
	}
	for i := range want {
		if keyterms[i] != want[i] {
			t.Fatalf("keyterms[%d] = %q, want %q", i, keyterms[i], want[i])
		}
	}
}

func TestReadEnvelope(t *testing.T) {
	conn := &scriptedConn{frames: []scriptedFrame{
		{messageType: 1, data: []byte(`{"type":"Welcome"}`)},
		{messageType: 2, data: []byte{0x01, 0x02}},
		{messageType: 1, data: []byte("not json")},
	}}

	envelope, _, err := ReadEnvelope(conn)
	if err != nil {
		t.Fatalf("ReadEnvelope() error = %v", err)
	}
	if envelope == nil || envelope.Type != TypeWelcome {
		t.Fatalf("envelope = %+v", envelope)
	}

	envelope, raw, err := ReadEnvelope(conn)
	if err != nil {
		t.Fatalf("ReadEnvelope() binary error = %v", err)
	}
	if envelope != nil || len(raw) != 2 {
		t.Fatalf("binary frame decoded as %+v raw %v", envelope, raw)
	}

	envelope, raw, err = ReadEnvelope(conn)
	if err != nil {
		t.Fatalf("ReadEnvelope() text error = %v", err)
	}
	if envelope != nil || string(raw) != "not json" {
		t.Fatalf("non-JSON text frame decoded as %+v raw %q", envelope, raw)
	}
}

type scriptedFrame struct {
	messageType int
	data        []byte
}

type scriptedConn struct {
	frames []scriptedFrame
	sent   []scriptedFrame
	closed bool
}

func (s *scriptedConn) ReadMessage() (int, []byte, error) {
	if len(s.frames) == 0 {
		return 0, nil, errClosed
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame.messageType, frame.data, nil
}

func (s *scriptedConn) WriteMessage(messageType int, data []byte) error {
	s.sent = append(s.sent, scriptedFrame{messageType: messageType, data: data})
	return nil
}

func (s *scriptedConn) Close() error {
	s.closed = true
	return nil
}

var errClosed = &closedError{}

type closedError struct{}

func (*closedError) Error() string { return "connection closed" }
