package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Millisecond,
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Provider: "openai",
		Model:    "test-model",
		BaseURL:  serverURL,
		Timeout:  5 * time.Second,
	}, WithRetryConfig(fastRetryConfig()))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func openAICompletion(content string) string {
	resp := map[string]interface{}{
		"model": "test-model",
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{"total_tokens": 42},
	}
	body, _ := json.Marshal(resp)
	return string(body)
}

func TestComplete(t *testing.T) {
	var gotBody openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Write([]byte(openAICompletion("the completion")))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	resp, err := client.Complete(context.Background(), "system prompt", "user content", 500)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != "the completion" {
		t.Errorf("Expected completion content, got %q", resp.Content)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens used, got %d", resp.TokensUsed)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("Expected leading system message, got %v", gotBody.Messages)
	}
	if gotBody.MaxTokens == nil || *gotBody.MaxTokens != 500 {
		t.Errorf("Expected max_tokens 500, got %v", gotBody.MaxTokens)
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(openAICompletion("recovered")))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	resp, err := client.Complete(context.Background(), "system", "content", 100)
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if resp.Content != "recovered" {
		t.Errorf("Expected recovered response, got %q", resp.Content)
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Complete(context.Background(), "system", "content", 100)
	if err == nil {
		t.Fatal("Expected an error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestCompleteAuthFailureNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Complete(context.Background(), "system", "content", 100)
	if err == nil {
		t.Fatal("Expected an authentication error")
	}
	if attempts != 1 {
		t.Errorf("Expected a single attempt for auth failure, got %d", attempts)
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("Unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "openai API key") {
		t.Errorf("Expected provider named in error, got %v", err)
	}
}

func TestCompleteContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Provider: "openai",
		Model:    "test-model",
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
	}, WithRetryConfig(RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Minute,
		BackoffMultiplier: 2.0,
		MaxBackoff:        time.Minute,
	}))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Complete(ctx, "system", "content", 100); err == nil {
		t.Fatal("Expected an error when the context expires during backoff")
	}
}

func TestCompleteJSON(t *testing.T) {
	body := "Here is the analysis:\n```json\n{\"score\": 8, \"notes\": [\"a\", \"b\",]}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(openAICompletion(body)))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	var result struct {
		Score int      `json:"score"`
		Notes []string `json:"notes"`
	}
	if err := client.CompleteJSON(context.Background(), "system", "content", 100, &result); err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}

	if result.Score != 8 {
		t.Errorf("Expected score 8, got %d", result.Score)
	}
	if len(result.Notes) != 2 {
		t.Errorf("Expected 2 notes, got %v", result.Notes)
	}
}

func TestCompleteJSONNoObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(openAICompletion("I could not produce the requested analysis.")))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	var result map[string]interface{}
	err := client.CompleteJSON(context.Background(), "system", "content", 100, &result)
	if err == nil {
		t.Fatal("Expected an error when no JSON object is present")
	}
	if !strings.Contains(err.Error(), "no JSON object found") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	if _, err := NewClient(Config{Provider: "nope"}); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
}

func TestAnthropicRequestBody(t *testing.T) {
	p := &AnthropicProvider{}

	body, err := p.BuildRequestBody("claude-sonnet-4-20250514", "be terse", "analyze this", 1500)
	if err != nil {
		t.Fatalf("BuildRequestBody failed: %v", err)
	}

	var req anthropicRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if req.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Unexpected model: %q", req.Model)
	}
	if req.MaxTokens != 1500 {
		t.Errorf("Expected max tokens 1500, got %d", req.MaxTokens)
	}
	if req.System != "be terse" {
		t.Errorf("Expected system prompt, got %q", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Errorf("Expected a single user message, got %v", req.Messages)
	}
}

func TestAnthropicParseResponse(t *testing.T) {
	body := `{"content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}],
"model":"claude-sonnet-4-20250514","stop_reason":"end_turn",
"usage":{"input_tokens":10,"output_tokens":20}}`

	resp, err := (&AnthropicProvider{}).ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}

	if resp.Content != "part one part two" {
		t.Errorf("Expected concatenated text blocks, got %q", resp.Content)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Expected 30 tokens, got %d", resp.TokensUsed)
	}
	if resp.FinishReason != "end_turn" {
		t.Errorf("Expected end_turn, got %q", resp.FinishReason)
	}
}

func TestAnthropicBuildURL(t *testing.T) {
	p := &AnthropicProvider{}

	if got := p.BuildURL(""); got != "https://api.anthropic.com/v1/messages" {
		t.Errorf("Unexpected default URL: %q", got)
	}
	if got := p.BuildURL("http://localhost:8081/"); got != "http://localhost:8081/v1/messages" {
		t.Errorf("Unexpected custom URL: %q", got)
	}
}

func TestOpenAIBuildURL(t *testing.T) {
	p := &OpenAIProvider{}

	if got := p.BuildURL(""); got != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("Unexpected default URL: %q", got)
	}
	if got := p.BuildURL("http://localhost:11434/v1"); got != "http://localhost:11434/v1/chat/completions" {
		t.Errorf("Unexpected custom URL: %q", got)
	}
	if got := p.BuildURL("http://localhost:11434/v1/chat/completions"); got != "http://localhost:11434/v1/chat/completions" {
		t.Errorf("Expected full endpoint kept as-is, got %q", got)
	}
}
