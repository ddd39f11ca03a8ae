package narrative

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shopspring/decimal"

	"FxPulse/pkg/logger"
)

func narrativeTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newStubbedClaude(t *testing.T, handler http.HandlerFunc) *Claude {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Claude{
		client:    anthropic.NewClient(option.WithAPIKey("test-key"), option.WithBaseURL(srv.URL)),
		model:     "claude-sonnet-4-20250514",
		maxTokens: 256,
		timeout:   5 * time.Second,
		fallback:  NewFallback(),
		log:       narrativeTestLogger(t),
	}
}

func TestClaudeCompleteJoinsTextBlocks(t *testing.T) {
	c := newStubbedClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [
				{"type": "text", "text": "rate is "},
				{"type": "tool_use", "id": "tu_01", "name": "noop", "input": {}},
				{"type": "text", "text": "favorable"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	})

	got, err := c.complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "rate is favorable" {
		t.Errorf("joined text = %q, want %q", got, "rate is favorable")
	}
}

func TestClaudeCompleteEmptyContent(t *testing.T) {
	c := newStubbedClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_02",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "tool_use", "id": "tu_01", "name": "noop", "input": {}}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 0}
		}`))
	})

	if _, err := c.complete(context.Background(), "prompt"); err == nil {
		t.Error("expected error for completion with no text blocks")
	}
}

func TestClaudeEvaluateFallsBackOnAPIError(t *testing.T) {
	c := newStubbedClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad request"}}`))
	})

	got := c.Evaluate(context.Background(),
		decimal.RequireFromString("1300"),
		decimal.RequireFromString("1380"),
		decimal.RequireFromString("1080"),
		decimal.RequireFromString("20"),
	)

	want := c.fallback.Evaluate(context.Background(),
		decimal.RequireFromString("1300"),
		decimal.RequireFromString("1380"),
		decimal.RequireFromString("1080"),
		decimal.RequireFromString("20"),
	)
	if got != want {
		t.Errorf("evaluation = %q, want fallback template %q", got, want)
	}
	if !strings.Contains(got, "1300.0") {
		t.Errorf("fallback text %q does not mention the current rate", got)
	}
}
