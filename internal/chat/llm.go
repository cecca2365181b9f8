// Package chat answers UI colour questions by combining the colour core with a
// large language model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// Defaults for the Gemini backed LLM.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = float32(0.7)
	DefaultMaxOutputTokens = int32(2048)
)

// SystemPrompt is the persona the model answers with.
const SystemPrompt = `You are a professional UI design consultant. When you receive colour analysis results, use them to give practical UI design advice, covering:
1. Strengths and weaknesses of the colour combination
2. UI scenarios and styles it suits
3. Suggestions for improving the colour scheme
4. User experience and accessibility considerations

Answer clearly and professionally. Do not just repeat the analysis data; give actionable design guidance.`

// ErrMissingAPIKey is returned when the Gemini API backend has no key.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY is required for the Gemini API backend")

// LLM produces text completions.
type LLM interface {
	// Complete returns the full answer to prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// Stream yields the answer in chunks as the model produces it.
	Stream(ctx context.Context, system, prompt string) iter.Seq2[string, error]
}

// GenAIOptions configures NewGenAI.
type GenAIOptions struct {
	// Backend is "gemini" (default) or "vertex-ai".
	Backend string

	// APIKey is required for the Gemini API backend.
	APIKey string

	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// GenAI is an LLM backed by google.golang.org/genai.
type GenAI struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

// NewGenAI creates a Gemini API or Vertex AI client.
func NewGenAI(ctx context.Context, opts GenAIOptions) (*GenAI, error) {
	clientConfig := &genai.ClientConfig{}

	switch strings.ToLower(opts.Backend) {
	case "vertex", "vertex-ai", "vertexai":
		clientConfig.Backend = genai.BackendVertexAI
	default:
		clientConfig.Backend = genai.BackendGeminiAPI
	}

	if clientConfig.Backend == genai.BackendGeminiAPI {
		if opts.APIKey == "" {
			return nil, fmt.Errorf("%w\nGet one at: https://aistudio.google.com/api-keys", ErrMissingAPIKey)
		}
		clientConfig.APIKey = opts.APIKey
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	g := &GenAI{
		client:          client,
		model:           opts.Model,
		temperature:     opts.Temperature,
		maxOutputTokens: opts.MaxOutputTokens,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.temperature <= 0 {
		g.temperature = DefaultTemperature
	}
	if g.maxOutputTokens <= 0 {
		g.maxOutputTokens = DefaultMaxOutputTokens
	}
	return g, nil
}

// Model returns the model name requests are sent to.
func (g *GenAI) Model() string {
	return g.model
}

func (g *GenAI) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxOutputTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

// Complete sends prompt and returns the concatenated text of the answer.
func (g *GenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	response, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config(system))
	if err != nil {
		return "", fmt.Errorf("content generation failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response")
	}

	text := response.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return text, nil
}

// Stream sends prompt and yields text chunks as they arrive.
func (g *GenAI) Stream(ctx context.Context, system, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for response, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.config(system)) {
			if err != nil {
				yield("", fmt.Errorf("content generation failed: %w", err))
				return
			}
			if text := response.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}
