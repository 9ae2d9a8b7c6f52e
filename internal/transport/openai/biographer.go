package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

const (
	providerName     = "openai"
	defaultMaxTokens = 600
)

const systemPrompt = "You write short professional biographies for an alumni directory. " +
	"Use only the facts given. Answer with three sections titled About:, Experience: and Education:, " +
	"each followed by one short paragraph. Say \"Not available.\" when a section has no facts."

// Biographer drafts biography text with an OpenAI-compatible chat model.
type Biographer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// Config holds the chat provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// NewBiographer creates an OpenAI-compatible biography provider.
func NewBiographer(cfg *Config) *Biographer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Biographer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Provider names the biography source.
func (b *Biographer) Provider() string { return providerName }

// Biography asks the chat model for an About/Experience/Education summary of the profile.
func (b *Biographer) Biography(ctx context.Context, p *profile.Profile) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(p)},
		},
	})
	if err != nil {
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrEnrichmentProviderError)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("blank completion: %w", domain.ErrEnrichmentProviderError)
	}
	return text, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (b *Biographer) HealthCheck(ctx context.Context) error {
	if _, err := b.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func userPrompt(p *profile.Profile) string {
	var sb strings.Builder
	line := func(label, v string) {
		if v != "" {
			sb.WriteString(label + ": " + v + "\n")
		}
	}
	line("Name", p.Name())
	line("Title", p.Position())
	line("Company", p.Organization())
	line("Location", p.Location())
	line("Function", p.Function())
	line("Company stage", p.Stage())
	line("Notes", p.Comments())
	line("Profile", p.ProfileURL())
	return sb.String()
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEnrichmentProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEnrichmentProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("completion request: %w: %w", err, wrap)
	}
	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail reads the "detail" field some compatible gateways return instead of "error".
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
