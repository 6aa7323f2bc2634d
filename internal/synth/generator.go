package synth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrGeneratorUnavailable means no text generator can be reached at all.
	// It aborts the run.
	ErrGeneratorUnavailable = errors.New("text generator unavailable")
	// ErrEmptyResponse is returned when the generator streamed no text.
	ErrEmptyResponse = errors.New("text generator returned an empty response")
)

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator streams completions from the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrGeneratorUnavailable)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}
	return &GeminiGenerator{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.4),
		},
	}, nil
}

func (g *GeminiGenerator) Model() string { return g.model }

// Generate concatenates the streamed chunks. Authentication failures are
// reported as ErrGeneratorUnavailable.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var b strings.Builder
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.config) {
		if err != nil {
			var apiErr genai.APIError
			if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
				return "", fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
			}
			return "", fmt.Errorf("gemini stream: %w", err)
		}
		b.WriteString(resp.Text())
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
