package agent

// Frame types the voice agent service sends over its socket.
const (
	TypeWelcome             = "Welcome"
	TypeError               = "Error"
	TypeUserStartedSpeaking = "UserStartedSpeaking"
	TypeAgentThinking       = "AgentThinking"
	TypeAgentAudioDone      = "AgentAudioDone"
	TypeFunctionCallRequest = "FunctionCallRequest"
)

// Envelope is the minimal decoding of any agent JSON frame. Unknown
// fields stay in the raw payload and are forwarded untouched.
type Envelope struct {
	Type      string         `json:"type"`
	Functions []FunctionCall `json:"functions"`
}

type FunctionCall struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
	ClientSide bool   `json:"client_side"`
}

// FunctionCallResponse goes back to the agent service and is mirrored
// to the browser so the order display can update.
type FunctionCallResponse struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

func NewFunctionCallResponse(id, name, content string) *FunctionCallResponse {
	return &FunctionCallResponse{
		Type:    "FunctionCallResponse",
		ID:      id,
		Name:    name,
		Content: content,
	}
}
