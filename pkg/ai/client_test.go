package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swiftbites.app/storefront/pkg/logger"
)

func TestAnnotate_Disabled(t *testing.T) {
	c := NewClient("", "", "", logger.Discard())
	if c.Enabled() {
		t.Fatal("client without credentials should be disabled")
	}

	report := c.Annotate(context.Background(), OrderInsightsSystemPrompt, "report", map[string]int{"orders": 1})
	if report.Status != "success" || report.AIEnabled || report.Data.AIInsights != "" {
		t.Errorf("unexpected report: %+v", report)
	}
	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("expected error from disabled client")
	}
}

func TestAnnotate_WithCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-35-turbo",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Clear the pickup backlog."}
			}]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "test-key", "gpt-35-turbo", logger.Discard())
	report := c.Annotate(context.Background(), OrderInsightsSystemPrompt, InsightsUserPrompt("# Report"), nil)

	if !report.AIEnabled {
		t.Fatal("expected AI to be enabled")
	}
	if report.Data.AIInsights != "Clear the pickup backlog." {
		t.Errorf("AIInsights = %q", report.Data.AIInsights)
	}
	if report.Data.Error != "" {
		t.Errorf("unexpected error %q", report.Data.Error)
	}
}

func TestAnnotate_CompletionFailureIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad deployment", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "test-key", "missing", logger.Discard())
	report := c.Annotate(context.Background(), OrderInsightsSystemPrompt, "report", nil)

	if report.Status != "success" {
		t.Errorf("status = %q, want success", report.Status)
	}
	if !strings.HasPrefix(report.Data.Error, "AI analysis failed") {
		t.Errorf("Error = %q", report.Data.Error)
	}
}
