package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	openaisdk "github.com/openai/openai-go"
)

func TestNewClientNilWithoutAPIKey(t *testing.T) {
	t.Parallel()

	if c := NewClient(Config{}); c != nil {
		t.Fatal("expected nil client when no API key is set")
	}
}

func TestNewClientSendsAttributionHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReferer, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "hello"}}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:  srv.URL,
		APIKey:   "sk-test",
		SiteURL:  "https://voicecart.example",
		SiteName: "VoiceCart",
	})
	if client == nil {
		t.Fatal("expected client")
	}

	completion, err := client.Chat.Completions.New(context.Background(), openaisdk.ChatCompletionNewParams{
		Model:    "test-model",
		Messages: []openaisdk.ChatCompletionMessageParamUnion{openaisdk.UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Completions.New() error = %v", err)
	}
	if len(completion.Choices) != 1 || completion.Choices[0].Message.Content != "hello" {
		t.Fatalf("unexpected completion: %#v", completion.Choices)
	}

	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReferer != "https://voicecart.example" {
		t.Fatalf("unexpected HTTP-Referer: %q", gotReferer)
	}
	if gotTitle != "VoiceCart" {
		t.Fatalf("unexpected X-Title: %q", gotTitle)
	}
}
