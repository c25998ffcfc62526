package analyzer

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultModel = openai.ChatModelGPT4oMini

	// Sampling settings are fixed; the output template leaves no room for
	// a length knob beyond this cap.
	temperature     = 0.7
	maxOutputTokens = 1000
)

// ErrMissingAPIKey is returned when OPENAI_API_KEY was not configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Result is one model response: the full analysis block verbatim plus token
// usage for accounting.
type Result struct {
	Analysis   string
	UsedTokens int64
}

// HookAnalyzer is a thin wrapper around the OpenAI chat completions client
// that scores a single opening line.
type HookAnalyzer struct {
	client *openai.Client
	model  openai.ChatModel
}

func New(apiKey string) *HookAnalyzer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &HookAnalyzer{client: &client, model: defaultModel}
}

// NewFromEnv builds a HookAnalyzer using the OPENAI_API_KEY env var picked up
// by the SDK; an explicit empty key is rejected here.
func NewFromEnv(apiKey string) (*HookAnalyzer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return New(apiKey), nil
}

// Analyze sends the system rubric and the raw hook as the only two messages
// and returns the assistant's analysis block verbatim.
func (a *HookAnalyzer) Analyze(ctx context.Context, hook string) (*Result, error) {
	if a == nil || a.client == nil {
		return nil, errors.New("HookAnalyzer is not initialized")
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(hook),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})

	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	analysis := strings.TrimSpace(resp.Choices[0].Message.Content)
	if analysis == "" {
		return nil, errors.New("model returned an empty response")
	}

	return &Result{
		Analysis:   analysis,
		UsedTokens: resp.Usage.TotalTokens,
	}, nil
}
