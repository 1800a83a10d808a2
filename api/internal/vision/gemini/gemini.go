package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"aura-check/api/internal/util"
	"aura-check/api/internal/vision/types"
)

type Engine struct {
	APIKey string
	Model  string

	// clientOpts are appended after the API key; tests point them at a fake endpoint.
	clientOpts []option.ClientOption
}

func New(apiKey, model string, opts ...option.ClientOption) *Engine {
	return &Engine{
		APIKey:     strings.TrimSpace(apiKey),
		Model:      strings.TrimSpace(model),
		clientOpts: opts,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Generate makes exactly one GenerateContent call. The client lives for the
// duration of the call only, so nothing is shared between requests.
func (e *Engine) Generate(ctx context.Context, p types.Prompt) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	imgBytes, err := util.DecodeBase64(p.ImageB64)
	if err != nil {
		return "", fmt.Errorf("gemini: bad base64 image: %w", err)
	}

	opts := append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.clientOpts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini: new client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
	}

	parts := []genai.Part{
		genai.Text(p.Text),
		&genai.Blob{MIMEType: p.MIMEType, Data: imgBytes},
	}
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate (%s): %w", e.Model, err)
	}
	return firstText(resp), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && strings.TrimSpace(string(t)) != "" {
				return string(t)
			}
		}
	}
	return ""
}
