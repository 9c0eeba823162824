package relay

import "fmt"

// ControlFrame is the tiny JSON protocol spoken with the browser next
// to the raw audio frames. The server pushes lifecycle frames, the
// browser only ever sends pings.
type ControlFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

func ConnectedFrame() ControlFrame {
	return ControlFrame{Type: "connected", Message: "Connected to voice agent"}
}

func ReadyFrame() ControlFrame {
	return ControlFrame{Type: "ready", Message: "Agent ready"}
}

func ErrorFrame(message string) ControlFrame {
	return ControlFrame{Type: "error", Message: message}
}

func PongFrame() ControlFrame {
	return ControlFrame{Type: "pong"}
}

// FunctionErrorResult is the generic failure payload handed back to the
// agent when a dispatched function cannot run.
type FunctionErrorResult struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func FunctionNotFound(name string) FunctionErrorResult {
	return FunctionErrorResult{Error: fmt.Sprintf("Function '%s' not found", name)}
}
