package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

type chatResponse struct {
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "Title: CEO") {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := chatResponse{Object: "chat.completion", Model: "test-model"}
		if content != "" {
			resp.Choices = append(resp.Choices, struct {
				Index   int `json:"index"`
				Message struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"message"`
				FinishReason string `json:"finish_reason"`
			}{FinishReason: "stop"})
			resp.Choices[0].Message.Role = "assistant"
			resp.Choices[0].Message.Content = content
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testProfile() profile.Profile {
	return profile.Reconstruct(3, profile.Attributes{
		FirstName:    "Maya",
		LastName:     "Chen",
		Position:     "CEO",
		Organization: "EduGrowth",
		ProfileURL:   "https://www.linkedin.com/in/maya",
	})
}

func TestBiographer_Biography(t *testing.T) {
	server := completionServer(t, "  About:\nBuilder.\n\nExperience:\nCEO.\n\nEducation:\nNot available.\n")
	defer server.Close()

	b := NewBiographer(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	p := testProfile()

	text, err := b.Biography(context.Background(), &p)
	if err != nil {
		t.Fatalf("Biography failed: %v", err)
	}
	if !strings.HasPrefix(text, "About:") || strings.HasSuffix(text, "\n") {
		t.Errorf("text not trimmed: %q", text)
	}
	if b.Provider() != "openai" {
		t.Errorf("provider = %q", b.Provider())
	}
}

func TestBiographer_EmptyChoices(t *testing.T) {
	server := completionServer(t, "")
	defer server.Close()

	b := NewBiographer(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	p := testProfile()

	_, err := b.Biography(context.Background(), &p)
	if !errors.Is(err, domain.ErrEnrichmentProviderError) {
		t.Fatalf("err = %v, want ErrEnrichmentProviderError", err)
	}
}

func TestBiographer_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	b := NewBiographer(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	p := testProfile()

	_, err := b.Biography(context.Background(), &p)
	if !errors.Is(err, domain.ErrEnrichmentProviderError) {
		t.Fatalf("err = %v, want ErrEnrichmentProviderError", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error should carry API message: %v", err)
	}
}

func TestBiographer_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"test-model","object":"model"}]}`))
	}))
	defer server.Close()

	b := NewBiographer(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if err := b.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestParseAPIError_Detail(t *testing.T) {
	err := parseAPIError(&openai.RequestError{HTTPStatusCode: 400, Body: []byte(`{"detail":"bad model"}`)})
	if !strings.Contains(err.Error(), "bad model") || !errors.Is(err, domain.ErrEnrichmentProviderError) {
		t.Errorf("unexpected error: %v", err)
	}

	err = parseAPIError(errors.New("dial tcp: refused"))
	if !errors.Is(err, domain.ErrEnrichmentProviderError) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUserPrompt_SkipsEmpty(t *testing.T) {
	p := testProfile()
	got := userPrompt(&p)
	if strings.Contains(got, "Location:") {
		t.Errorf("empty attribute leaked into prompt: %q", got)
	}
	if !strings.Contains(got, "Name: Maya Chen\n") {
		t.Errorf("prompt = %q", got)
	}
}
