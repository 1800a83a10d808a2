package gpt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"aura-check/api/internal/util"
	"aura-check/api/internal/vision/types"
)

type Engine struct {
	APIKey string
	Model  string

	baseURL string
}

type Option func(*Engine)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(e *Engine) {
		e.baseURL = strings.TrimSpace(u)
	}
}

func New(apiKey, model string, opts ...Option) *Engine {
	e := &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

// Generate sends one chat completion with the image inlined as a data URL.
// SDK retries are disabled: a failed call is final.
func (e *Engine) Generate(ctx context.Context, p types.Prompt) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("OPENAI_API_KEY is empty")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(e.APIKey),
		option.WithMaxRetries(0),
	}
	if e.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(e.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	dataURL := util.MakeDataURL(p.MIMEType, p.ImageB64)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(e.Model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessageParts(
				openai.TextPart(p.Text),
				openai.ImagePart(dataURL),
			),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion (%s): %w", e.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
