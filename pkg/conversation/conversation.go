package conversation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const separator = "================================================================================"

// IRecorder opens one transcript file per voice session. A session that
// cannot get a file keeps running with logging disabled.
type IRecorder interface {
	Open(sessionID string) ILog
}

type ILog interface {
	Event(event, details string)
	EventData(event, details string, data interface{})
	End()
	Path() string
}

type recorder struct {
	dir string
	log *logrus.Logger
}

func New(logger *logrus.Logger) IRecorder {
	dir := os.Getenv("CONVERSATION_LOG_DIR")
	if dir == "" {
		dir = "conversation_logs"
	}

	return &recorder{
		dir: dir,
		log: logger,
	}
}

func (r *recorder) Open(sessionID string) ILog {
	cl := &conversationLog{log: r.log}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.log.Warnf("Conversation logging disabled for session %s: %v", sessionID, err)
		return cl
	}

	now := time.Now()
	file, path, err := createLogFile(r.dir, now)
	if err != nil {
		r.log.Warnf("Conversation logging disabled for session %s: %v", sessionID, err)
		return cl
	}

	cl.file = file
	cl.path = path

	header := strings.Join([]string{
		separator,
		"JACK IN THE BOX VOICE AGENT - CONVERSATION LOG",
		"Started: " + now.Format("2006-01-02 15:04:05"),
		separator,
		"",
		"",
	}, "\n")
	cl.write(header)

	cl.Event("CONVERSATION_START", "New conversation initiated")

	return cl
}

// Filenames carry a second-resolution timestamp, so two sessions opened
// inside the same second need a numeric suffix to keep separate files.
func createLogFile(dir string, now time.Time) (*os.File, string, error) {
	base := "conversation_" + now.Format("20060102_150405")

	for attempt := 0; attempt < 10; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d", base, attempt+1)
		}
		path := filepath.Join(dir, name+".log")

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", err
		}
	}

	return nil, "", fmt.Errorf("no free conversation log name for %s", base)
}

type conversationLog struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	closed bool
	log    *logrus.Logger
}

func (c *conversationLog) Event(event, details string) {
	c.EventData(event, details, nil)
}

func (c *conversationLog) EventData(event, details string, data interface{}) {
	entry := fmt.Sprintf("[%s] %s - %s\n", time.Now().Format("2006-01-02 15:04:05.000"), event, details)

	if data != nil {
		encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(data, "    ", "  ")
		if err != nil {
			c.log.Warnf("Failed to encode conversation data for %s: %v", event, err)
		} else {
			entry += "    Data: " + string(encoded) + "\n"
		}
	}

	c.write(entry)
}

func (c *conversationLog) End() {
	c.Event("CONVERSATION_END", "Conversation ended")

	footer := strings.Join([]string{
		"",
		separator,
		"Ended: " + time.Now().Format("2006-01-02 15:04:05"),
		separator,
		"",
	}, "\n")
	c.write(footer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file != nil && !c.closed {
		if err := c.file.Close(); err != nil {
			c.log.Warnf("Failed to close conversation log %s: %v", c.path, err)
		}
		c.closed = true
	}
}

func (c *conversationLog) Path() string {
	return c.path
}

func (c *conversationLog) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil || c.closed {
		return
	}
	if _, err := c.file.WriteString(s); err != nil {
		c.log.Warnf("Failed to write conversation log %s: %v", c.path, err)
	}
}
