package metricsHandler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"DriveThruGolang/pkg/latency"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fakeMiddleware struct{}

func (fakeMiddleware) NewRateLimiter(ctx *fiber.Ctx) error { return ctx.Next() }

func (fakeMiddleware) NewRequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error { return c.Next() }
}

func (fakeMiddleware) GetRequestID(*fiber.Ctx) string { return "req-test" }

type fakeTracker struct {
	all    []latency.Stats
	byName map[string]latency.Stats
}

func (f *fakeTracker) Start(string)                               {}
func (f *fakeTracker) End(string, map[string]interface{}) float64 { return 0 }

func (f *fakeTracker) Stats(operation string) latency.Stats {
	if s, ok := f.byName[operation]; ok {
		return s
	}
	return latency.Stats{Operation: operation}
}

func (f *fakeTracker) AllStats() []latency.Stats { return f.all }

func (f *fakeTracker) Session(string) latency.ISessionTimers { return f }

func newTestApp(tracker latency.ITracker) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	New(logger, fakeMiddleware{}, tracker).Start(app)
	return app
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return body
}

func TestGetLatencyReport(t *testing.T) {
	tracker := &fakeTracker{
		all: []latency.Stats{
			{Operation: "user_speech", Count: 4, AvgMs: 1813.25, MinMs: 900.1, MaxMs: 2400.8},
			{Operation: "function_call_total", Count: 2, AvgMs: 41.5},
		},
	}
	app := newTestApp(tracker)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics/latency", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report struct {
		Operations []latency.Stats `json:"operations"`
		Count      int             `json:"count"`
	}
	if err := json.Unmarshal(readBody(t, resp), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Count != 2 || len(report.Operations) != 2 {
		t.Fatalf("report = %+v", report)
	}
	if report.Operations[0].Operation != "user_speech" || report.Operations[0].Count != 4 {
		t.Errorf("first operation = %+v", report.Operations[0])
	}
}

func TestGetLatencyReportEmpty(t *testing.T) {
	app := newTestApp(&fakeTracker{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics/latency", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(readBody(t, resp), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Count != 0 {
		t.Errorf("count = %d, want 0", report.Count)
	}
}

func TestGetOperationStats(t *testing.T) {
	tracker := &fakeTracker{
		byName: map[string]latency.Stats{
			"deepgram_response": {Operation: "deepgram_response", Count: 7, AvgMs: 640.33, P95Ms: 900.12},
		},
	}
	app := newTestApp(tracker)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics/latency/deepgram_response", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats latency.Stats
	if err := json.Unmarshal(readBody(t, resp), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Operation != "deepgram_response" || stats.Count != 7 || stats.P95Ms != 900.12 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetOperationStatsUnknown(t *testing.T) {
	app := newTestApp(&fakeTracker{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics/latency/nonexistent", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body map[string]string
	if err := json.Unmarshal(readBody(t, resp), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["error"] != "no latency samples recorded for operation" {
		t.Errorf("error body = %v", body)
	}
}
