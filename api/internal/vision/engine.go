package vision

import (
	"context"
	"fmt"

	"aura-check/api/internal/config"
	"aura-check/api/internal/vision/gemini"
	"aura-check/api/internal/vision/gpt"
	"aura-check/api/internal/vision/types"
)

// Engine is a hosted vision model: prompt and image in, free-form text out.
type Engine interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, p types.Prompt) (string, error)
}

type Engines struct {
	Gemini Engine
	OpenAI Engine
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	var eng Engine
	switch llmName {
	case "gemini", "":
		eng = e.Gemini
	case "gpt", "openai":
		eng = e.OpenAI
	default:
		return nil, fmt.Errorf("unknown llm_name %q; use 'gemini' or 'gpt'", llmName)
	}
	if eng == nil {
		return nil, fmt.Errorf("engine %q is not configured", llmName)
	}
	return eng, nil
}

// NewEngines builds every engine from configuration. Keys may be empty; the
// pipeline reports that per request.
func NewEngines(cfg *config.Config) *Engines {
	return &Engines{
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		OpenAI: gpt.New(cfg.OpenAIAPIKey, cfg.OpenAIModel),
	}
}
