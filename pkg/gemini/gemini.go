package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

var (
	ErrNoResponse    = errors.New("no response from Gemini API")
	ErrMissingAPIKey = errors.New("gemini API key is required")
	ErrUnexpectedRes = errors.New("unexpected response format from Gemini API")
)

type IGemini interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close()
}

type geminiClient struct {
	model  *genai.GenerativeModel
	client *genai.Client
}

type Option func(*settings)

type settings struct {
	apiKey    string
	modelName string
	maxTokens int32
}

func WithAPIKey(key string) Option {
	return func(s *settings) { s.apiKey = key }
}

func WithModel(name string) Option {
	return func(s *settings) { s.modelName = name }
}

// WithMaxOutputTokens caps the reply size. Score maps are small.
func WithMaxOutputTokens(n int32) Option {
	return func(s *settings) { s.maxTokens = n }
}

// NewGeminiClient builds a JSON-mode client. GEMINI_API_KEY and
// GEMINI_MODEL_NAME are read unless overridden by options.
func NewGeminiClient(opts ...Option) (IGemini, error) {
	s := &settings{
		apiKey:    os.Getenv("GEMINI_API_KEY"),
		modelName: os.Getenv("GEMINI_MODEL_NAME"),
		maxTokens: 256,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if s.modelName == "" {
		s.modelName = defaultModel
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(s.maxTokens)
	model.ResponseMIMEType = "application/json"

	return &geminiClient{model: model, client: client}, nil
}

func (g *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", ErrNoResponse
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			return "", ErrUnexpectedRes
		}
		b.WriteString(string(text))
	}
	if b.Len() == 0 {
		return "", ErrNoResponse
	}
	return b.String(), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
