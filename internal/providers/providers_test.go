package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAI_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing or wrong Authorization header")
		}
		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v, want system+user roles", req.Messages)
		}

		resp := openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Role: "assistant", Content: "plan"}}},
			Usage:   openaiUsage{TotalTokens: 50},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "test-key", model: "gpt-5.2", baseURL: server.URL, client: server.Client()}
	resp, err := o.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "plan" || resp.TokensUsed != 50 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestOpenAI_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{})
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", model: "gpt-5.2", baseURL: server.URL, client: server.Client()}
	_, err := o.Complete(context.Background(), Request{UserPrompt: "x"})
	if err == nil {
		t.Fatal("expected error for empty completion")
	}
	if !IsEmptyResponse(err) {
		t.Errorf("IsEmptyResponse = false for %v", err)
	}
}

func TestOpenAI_APIStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`{"error":"kaput"}`))
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", model: "gpt-5.2", baseURL: server.URL, client: server.Client()}
	_, err := o.Complete(context.Background(), Request{UserPrompt: "x"})
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if IsEmptyResponse(err) || IsTimeout(err) || IsAuthError(err) {
		t.Errorf("500 misclassified: %v", err)
	}
}

func TestOpenAI_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "bad", model: "gpt-5.2", baseURL: server.URL, client: server.Client()}
	_, err := o.Complete(context.Background(), Request{UserPrompt: "x"})
	if !IsAuthError(err) {
		t.Errorf("IsAuthError = false for %v", err)
	}
}

func TestOpenAI_RateLimitRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(429)
			return
		}
		resp := openaiResponse{Choices: []openaiChoice{{Message: openaiMessage{Content: "ok"}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", model: "gpt-5.2", baseURL: server.URL, client: server.Client()}
	resp, err := o.Complete(context.Background(), Request{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "ok" || attempts != 2 {
		t.Errorf("resp = %+v after %d attempts", resp, attempts)
	}
}

func TestAnthropic_SystemField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.System != "sys" {
			t.Errorf("system field = %q, want sys", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want single user message", req.Messages)
		}

		resp := anthropicResponse{
			Content: []anthropicBlock{{Type: "text", Text: "plan"}},
			Usage:   anthropicUsage{InputTokens: 10, OutputTokens: 20},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := &Anthropic{apiKey: "k", model: "claude-sonnet-4-6", baseURL: server.URL, client: server.Client()}
	resp, err := a.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "plan" || resp.TokensUsed != 30 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGemini_SystemInstruction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "sys" {
			t.Errorf("systemInstruction = %+v", req.SystemInstruction)
		}

		resp := geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: "plan"}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g := &Gemini{apiKey: "k", model: "gemini-2.5-flash", baseURL: server.URL, client: server.Client()}
	resp, err := g.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "plan" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestOllama_ConcatenatesPrompts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Prompt != "sys\n\nuser" {
			t.Errorf("prompt = %q, want concatenated system+user", req.Prompt)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "plan", EvalCount: 7})
	}))
	defer server.Close()

	o := &Ollama{model: "llama3.3", baseURL: server.URL, client: server.Client()}
	resp, err := o.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "plan" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestOllama_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{})
	}))
	defer server.Close()

	o := &Ollama{model: "llama3.3", baseURL: server.URL, client: server.Client()}
	if _, err := o.Complete(context.Background(), Request{UserPrompt: "x"}); !IsEmptyResponse(err) {
		t.Errorf("IsEmptyResponse = false for %v", err)
	}
}

func TestComplete_TimeoutDistinguishable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release) // unblock the handler before Close waits on it

	o := &Ollama{model: "llama3.3", baseURL: server.URL, client: server.Client()}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := o.Complete(ctx, Request{UserPrompt: "x"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout = false for %v", err)
	}
}
