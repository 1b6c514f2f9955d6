package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"worklens/internal/config"
	"worklens/internal/jsonrpc"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()

	dir := filepath.Join(root, "-home-me-widget")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	var lines []string
	for i, role := range []string{"user", "assistant", "user"} {
		lines = append(lines, fmt.Sprintf(
			`{"type":%q,"uuid":"u%d","timestamp":"2026-03-02T09:0%d:00Z","sessionId":"s","cwd":"/w","message":{"role":%q,"content":"implement the login page"}}`,
			role, i, i, role))
	}
	if err := os.WriteFile(filepath.Join(dir, "s.jsonl"), []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.LogRoot = root
	return New(cfg, nil)
}

func serve(t *testing.T, s *Server, requests ...string) []jsonrpc.Response {
	t.Helper()
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer
	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var responses []jsonrpc.Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp jsonrpc.Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServe_Initialize(t *testing.T) {
	responses := serve(t, testServer(t), `{"jsonrpc":"2.0","method":"initialize","id":1}`)
	if len(responses) != 1 {
		t.Fatalf("responses = %d, want 1", len(responses))
	}
	resp := responses[0]
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "worklens" {
		t.Errorf("server name = %v", info["name"])
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocol = %v", result["protocolVersion"])
	}
}

func TestServe_ToolsList(t *testing.T) {
	responses := serve(t, testServer(t), `{"jsonrpc":"2.0","method":"tools/list","id":2}`)
	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("responses = %+v", responses)
	}
	tools := responses[0].Result.(map[string]any)["tools"].([]any)
	if len(tools) != 3 {
		t.Fatalf("tools = %d, want 3", len(tools))
	}
	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.(map[string]any)["name"].(string)] = true
	}
	for _, want := range []string{"analyze_work_period", "get_project_stats", "summarize_recent"} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}

func toolText(t *testing.T, resp jsonrpc.Response) string {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("tool error: %+v", resp.Error)
	}
	content := resp.Result.(map[string]any)["content"].([]any)
	return content[0].(map[string]any)["text"].(string)
}

func TestServe_AnalyzeWorkPeriod(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"analyze_work_period","arguments":{"from_date":"2026-03-01","to_date":"2026-03-05"}},"id":3}`)

	text := toolText(t, responses[0])
	if !strings.Contains(text, "# Work Report") {
		t.Errorf("expected markdown report, got:\n%s", text)
	}
	if !strings.Contains(text, "home/me/widget") {
		t.Errorf("report missing project, got:\n%s", text)
	}
}

func TestServe_AnalyzeWorkPeriodJSON(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"analyze_work_period","arguments":{"format":"json"}},"id":4}`)

	text := toolText(t, responses[0])
	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		t.Fatalf("tool output is not JSON: %v", err)
	}
	if _, ok := parsed["summary"]; !ok {
		t.Error("JSON report missing summary")
	}
}

func TestServe_AnalyzeWorkPeriodBadDates(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"analyze_work_period","arguments":{"from_date":"2026-03-05","to_date":"2026-03-01"}},"id":5}`)

	if responses[0].Error == nil || responses[0].Error.Code != jsonrpc.ErrValidation {
		t.Errorf("expected validation error, got %+v", responses[0])
	}
}

func TestServe_ProjectStatsRequiresName(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"get_project_stats","arguments":{}},"id":6}`)

	if responses[0].Error == nil || responses[0].Error.Code != jsonrpc.ErrInvalidParams {
		t.Errorf("expected invalid-params, got %+v", responses[0])
	}
}

func TestServe_SummarizeRecent(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"summarize_recent","arguments":{}},"id":7}`)

	text := toolText(t, responses[0])
	if !strings.Contains(text, "7 days") {
		t.Errorf("expected default 7-day summary, got:\n%s", text)
	}
}

func TestServe_UnknownTool(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"bogus"},"id":8}`)

	if responses[0].Error == nil || !strings.Contains(responses[0].Error.Message, "Unknown tool") {
		t.Errorf("expected unknown-tool error, got %+v", responses[0])
	}
}

func TestServe_ParseErrorKeepsLoopAlive(t *testing.T) {
	responses := serve(t, testServer(t),
		"this is not json",
		`{"jsonrpc":"2.0","method":"initialize","id":9}`)

	if len(responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != jsonrpc.ErrParseError {
		t.Errorf("first response should be a parse error, got %+v", responses[0])
	}
	if responses[1].Error != nil {
		t.Errorf("second request should succeed, got %+v", responses[1])
	}
}

func TestServe_NotificationGetsNoResponse(t *testing.T) {
	responses := serve(t, testServer(t),
		`{"jsonrpc":"2.0","method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"initialize","id":10}`)

	if len(responses) != 1 {
		t.Fatalf("responses = %d, want 1 (notification is silent)", len(responses))
	}
}
