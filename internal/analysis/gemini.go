package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator sends requests to the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a generator for the Gemini API. baseURL may
// be empty to use the public endpoint.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var cfg *genai.GenerateContentConfig
	if req.Temperature != nil {
		cfg = &genai.GenerateContentConfig{Temperature: req.Temperature}
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return resp.Text(), nil
}
