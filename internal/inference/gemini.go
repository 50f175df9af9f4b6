package inference

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient calls Gemini through the Google GenAI SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiClient(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, model: model, maxTokens: maxTokens}, nil
}

func (c *GeminiClient) Infer(ctx context.Context, system string, payload any, opts ...CallOption) (string, error) {
	user, err := EncodePayload(payload)
	if err != nil {
		return "", err
	}
	settings := applyOptions(c.maxTokens, opts)

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if settings.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(settings.MaxTokens)
	}
	if settings.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*settings.Temperature))
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	return resp.Text(), nil
}
