package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"CryptoScanner/internal/config"
	"CryptoScanner/internal/ports"
)

// GeminiClassifier sends analysis prompts to Google Gemini and returns the
// raw response text. Verdict parsing stays with the analysis dispatcher.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

var _ ports.Classifier = (*GeminiClassifier)(nil)

// NewGeminiClassifier opens the SDK client. Caller owns Close.
func NewGeminiClassifier(ctx context.Context, cfg config.ClassifierConfig) (*GeminiClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("new gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiClassifier{client: client, model: model}, nil
}

// Classify posts the prompt and concatenates the text parts of the first
// candidate.
func (c *GeminiClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.GenerativeModel(c.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String(), nil
}

// Close releases the underlying SDK client.
func (c *GeminiClassifier) Close() error {
	return c.client.Close()
}
