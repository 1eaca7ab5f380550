package ai

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

const DefaultOpenAIModel = "gpt-4o"

func NewOpenAICompleter(apiKey, model string) (Completer, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}

	client, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("could not create OpenAI client: %w", err)
	}

	return &llmCompleter{llm: client, modelName: model}, nil
}
