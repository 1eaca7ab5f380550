package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"

	"github.com/tmc/langchaingo/llms"
)

const systemPrompt = "You are JARVIS, an advanced AI assistant. You provide helpful, accurate, " +
	"and concise responses. Format your responses using markdown when appropriate for better " +
	"readability, such as using proper headings, lists, code blocks with syntax highlighting, etc."

// Message is one role-tagged entry of the conversation history sent to the
// provider.
type Message struct {
	Role    string
	Content string
}

// Reply is the generated text plus the metadata recorded on the assistant
// message.
type Reply struct {
	Content   string
	Model     string
	LatencyMs int64
}

// Completer is a pure function from conversation history to assistant reply.
// The store does not know which provider backs it.
type Completer interface {
	Complete(ctx context.Context, history []Message) (Reply, error)
}

// llmCompleter adapts any langchaingo chat model to the Completer contract.
type llmCompleter struct {
	llm       llms.Model
	modelName string
}

func (c *llmCompleter) Complete(ctx context.Context, history []Message) (Reply, error) {
	content := make([]llms.MessageContent, 0, len(history)+1)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == database.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, content)
	if err != nil {
		return Reply{}, fmt.Errorf("error calling %s: %w", c.modelName, err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("%s returned no choices", c.modelName)
	}

	return Reply{
		Content:   resp.Choices[0].Content,
		Model:     c.modelName,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
