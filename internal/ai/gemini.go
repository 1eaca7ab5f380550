package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
)

const DefaultGeminiModel = "gemini-1.5-pro"

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (Completer, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("could not create Gemini client: %w", err)
	}

	return &llmCompleter{llm: client, modelName: model}, nil
}
