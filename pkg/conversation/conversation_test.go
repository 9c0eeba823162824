package conversation

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestRecorder(t *testing.T) (*recorder, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &recorder{dir: dir, log: logger}, dir
}

func TestOpenWritesHeaderAndStartEvent(t *testing.T) {
	r, dir := newTestRecorder(t)

	cl := r.Open("session-1")
	cl.EventData("FUNCTION_CALL", "add_item", map[string]interface{}{"item": "coke"})
	cl.End()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("log files = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "conversation_") || !strings.HasSuffix(name, ".log") {
		t.Fatalf("unexpected log file name %q", name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(raw)

	for _, want := range []string{
		"JACK IN THE BOX VOICE AGENT - CONVERSATION LOG",
		"Started: ",
		"CONVERSATION_START - New conversation initiated",
		"FUNCTION_CALL - add_item",
		"    Data: {",
		`"item": "coke"`,
		"CONVERSATION_END - Conversation ended",
		"Ended: ",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("log missing %q:\n%s", want, content)
		}
	}

	if !strings.HasPrefix(content, separator+"\n") {
		t.Fatalf("log does not open with separator:\n%s", content)
	}
	if !strings.HasSuffix(strings.TrimRight(content, "\n"), separator) {
		t.Fatalf("log does not close with separator:\n%s", content)
	}
}

func TestEventAfterEndIsDropped(t *testing.T) {
	r, _ := newTestRecorder(t)

	cl := r.Open("session-1")
	path := cl.Path()
	cl.End()
	cl.Event("FUNCTION_CALL", "too late")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(raw), "too late") {
		t.Fatalf("entry written after End:\n%s", raw)
	}
}

func TestConcurrentSessionsGetSeparateFiles(t *testing.T) {
	r, dir := newTestRecorder(t)

	a := r.Open("session-a")
	b := r.Open("session-b")
	defer a.End()
	defer b.End()

	if a.Path() == b.Path() {
		t.Fatalf("both sessions share %q", a.Path())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("log files = %d, want 2", len(entries))
	}
}

func TestOpenWithUnwritableDirDisablesLogging(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := &recorder{dir: filepath.Join(file, "logs"), log: logger}
	cl := r.Open("session-1")

	cl.Event("FUNCTION_CALL", "should be a no-op")
	cl.End()

	if cl.Path() != "" {
		t.Fatalf("disabled log has path %q", cl.Path())
	}
}
