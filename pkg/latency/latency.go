package latency

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ITracker is the process-wide latency registry. Timers are
// last-start-wins; every End appends one sample and one log line.
// Sample sequences are shared across sessions, in-flight timer keys are
// namespaced per session through Session handles.
type ITracker interface {
	Start(operation string)
	End(operation string, metadata map[string]interface{}) float64
	Stats(operation string) Stats
	AllStats() []Stats
	Session(sessionID string) ISessionTimers
}

// ISessionTimers scopes in-flight timer keys to one session. Samples
// still aggregate under the bare operation name.
type ISessionTimers interface {
	Start(operation string)
	End(operation string, metadata map[string]interface{}) float64
}

type Stats struct {
	Operation string  `json:"operation"`
	Count     int     `json:"count"`
	AvgMs     float64 `json:"avg_ms"`
	MinMs     float64 `json:"min_ms"`
	MaxMs     float64 `json:"max_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

type tracker struct {
	mu      sync.Mutex
	timers  map[string]time.Time
	samples map[string][]float64
	order   []string
	writer  io.Writer
	log     *logrus.Logger
}

func New(logger *logrus.Logger) ITracker {
	filename := os.Getenv("LATENCY_LOG_FILE")
	if filename == "" {
		filename = "latency_logs.txt"
	}

	writer := &lumberjack.Logger{
		Filename:   filename,
		LocalTime:  true,
		MaxSize:    50,
		MaxBackups: 5,
	}

	return newTracker(writer, logger)
}

func newTracker(writer io.Writer, logger *logrus.Logger) *tracker {
	return &tracker{
		timers:  make(map[string]time.Time),
		samples: make(map[string][]float64),
		writer:  writer,
		log:     logger,
	}
}

func (t *tracker) Start(operation string) {
	t.start(operation, time.Now())
}

func (t *tracker) End(operation string, metadata map[string]interface{}) float64 {
	return t.end(operation, operation, metadata, time.Now())
}

func (t *tracker) start(key string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timers[key] = now
}

func (t *tracker) end(key, operation string, metadata map[string]interface{}, now time.Time) float64 {
	t.mu.Lock()

	started, ok := t.timers[key]
	if !ok {
		t.mu.Unlock()
		t.writeLine("ERROR", fmt.Sprintf("No start time found for operation: %s", operation), -1, nil)
		return 0
	}
	delete(t.timers, key)

	elapsed := float64(now.Sub(started)) / float64(time.Millisecond)

	if _, seen := t.samples[operation]; !seen {
		t.order = append(t.order, operation)
	}
	t.samples[operation] = append(t.samples[operation], elapsed)
	t.mu.Unlock()

	t.writeLine("LATENCY", operation, elapsed, metadata)

	return elapsed
}

// One formatted line per End call, appended to the latency log. Write
// failures are swallowed here and reported to the app log only.
func (t *tracker) writeLine(kind, operation string, elapsed float64, metadata map[string]interface{}) {
	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	b.WriteString(" | ")
	b.WriteString(kind)
	b.WriteString(" | ")
	b.WriteString(operation)

	if elapsed >= 0 {
		fmt.Fprintf(&b, " | %.2fms", elapsed)
		if len(metadata) > 0 {
			keys := make([]string, 0, len(metadata))
			for k := range metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, " | %s=%v", k, metadata[k])
			}
		}
	}
	b.WriteString("\n")

	if _, err := t.writer.Write([]byte(b.String())); err != nil {
		t.log.Warnf("Failed to write latency log line: %v", err)
	}
}

func (t *tracker) Stats(operation string) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked(operation)
}

func (t *tracker) statsLocked(operation string) Stats {
	samples := t.samples[operation]
	if len(samples) == 0 {
		return Stats{Operation: operation}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	count := len(sorted)
	var sum float64
	for _, s := range sorted {
		sum += s
	}

	return Stats{
		Operation: operation,
		Count:     count,
		AvgMs:     round2(sum / float64(count)),
		MinMs:     round2(sorted[0]),
		MaxMs:     round2(sorted[count-1]),
		P95Ms:     round2(sorted[rankIndex(count, 0.95)]),
		P99Ms:     round2(sorted[rankIndex(count, 0.99)]),
	}
}

func (t *tracker) AllStats() []Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	all := make([]Stats, 0, len(t.order))
	for _, op := range t.order {
		all = append(all, t.statsLocked(op))
	}
	return all
}

// Session returns a handle whose in-flight timer keys are scoped to one
// session so concurrent sessions cannot clobber each other's starts.
func (t *tracker) Session(sessionID string) ISessionTimers {
	return &sessionTimers{tracker: t, sessionID: sessionID}
}

type sessionTimers struct {
	tracker   *tracker
	sessionID string
}

func (s *sessionTimers) Start(operation string) {
	s.tracker.start(s.key(operation), time.Now())
}

func (s *sessionTimers) End(operation string, metadata map[string]interface{}) float64 {
	return s.tracker.end(s.key(operation), operation, metadata, time.Now())
}

func (s *sessionTimers) key(operation string) string {
	return s.sessionID + "\x00" + operation
}

// rankIndex is floor(count*q), clamped to the last valid index.
func rankIndex(count int, q float64) int {
	idx := int(float64(count) * q)
	if idx >= count {
		idx = count - 1
	}
	return idx
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
