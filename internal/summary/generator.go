package summary

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("api key is not set")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeneratorConfig struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// NewGenerator builds the configured provider. It never contacts the
// network; a missing key yields ErrMissingCredential.
func NewGenerator(ctx context.Context, c GeneratorConfig) (Generator, error) {
	if c.APIKey == "" {
		return nil, ErrMissingCredential
	}
	switch c.Provider {
	case "", ProviderGemini:
		return NewGemini(ctx, c)
	case ProviderOpenAI:
		return NewOpenAI(c), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", c.Provider)
	}
}

// Gemini calls the Gemini API through the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, c GeneratorConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	model := c.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// OpenAI calls any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(c GeneratorConfig) *OpenAI {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	model := c.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
