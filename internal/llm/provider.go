package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider is the abstraction over generative-language backends
// (Gemini today, anything else tomorrow). The only consumer generates
// short plain-text facts, so the surface stays text-only.
type Provider interface {
	// GenerateText produces plain text for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Close releases the underlying connection.
	Close()
}

// GeminiProvider implements Provider on top of Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// GenerateText implements Provider
func (g *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

// Close implements Provider
func (g *GeminiProvider) Close() {
	g.client.Close()
}
