package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/ai"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"

	"gorm.io/datatypes"
)

// Service runs one turn of a conversation: persist the user's message, send
// the ordered history to the completion provider, persist the assistant's
// reply, and bump the conversation's activity timestamp.
type Service struct {
	store     storage.Storage
	completer ai.Completer
}

func NewService(store storage.Storage, completer ai.Completer) *Service {
	return &Service{store: store, completer: completer}
}

// Respond appends a user message with the given content, then an assistant
// message generated from the conversation history. When prompt is non-empty
// it replaces the user content in the history sent to the provider (used for
// file uploads, where the stored message is the user's text but the provider
// sees the file analysis too). Returns all messages of the conversation.
func (s *Service) Respond(ctx context.Context, conversation database.Conversation, content, prompt string) ([]database.Message, error) {
	userMessage := database.Message{
		ConversationId: conversation.Id,
		Content:        content,
		Role:           database.RoleUser,
	}
	if err := s.store.CreateMessage(ctx, &userMessage); err != nil {
		return nil, fmt.Errorf("error saving user message: %w", err)
	}

	history, err := s.store.GetMessagesByConversationId(ctx, conversation.Id)
	if err != nil {
		return nil, fmt.Errorf("error loading conversation history: %w", err)
	}

	aiHistory := make([]ai.Message, len(history))
	for i, msg := range history {
		aiHistory[i] = ai.Message{Role: msg.Role, Content: msg.Content}
	}
	if prompt != "" && len(aiHistory) > 0 {
		aiHistory[len(aiHistory)-1].Content = prompt
	}

	reply, err := s.completer.Complete(ctx, aiHistory)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(map[string]any{"model": reply.Model, "latency_ms": reply.LatencyMs})
	if err != nil {
		return nil, fmt.Errorf("could not marshal metadata: %w", err)
	}

	assistantMessage := database.Message{
		ConversationId: conversation.Id,
		Content:        reply.Content,
		Role:           database.RoleAssistant,
		Metadata:       datatypes.JSON(metadata),
	}
	if err := s.store.CreateMessage(ctx, &assistantMessage); err != nil {
		return nil, fmt.Errorf("error saving assistant message: %w", err)
	}

	now := time.Now().UTC()
	if _, err := s.store.UpdateConversation(ctx, conversation.Id, storage.ConversationUpdate{UpdatedAt: &now}); err != nil {
		return nil, fmt.Errorf("error touching conversation: %w", err)
	}

	return s.store.GetMessagesByConversationId(ctx, conversation.Id)
}

// UserMessage returns the message created for the user in this turn; it is
// the second to last entry of the slice Respond returns.
func UserMessage(messages []database.Message) (database.Message, bool) {
	if len(messages) < 2 {
		return database.Message{}, false
	}
	return messages[len(messages)-2], true
}

// DeriveTitle builds a conversation title from the first words of the
// opening message.
func DeriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return "File analysis"
	}
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ") + "..."
}

// FileAnalysis pairs an uploaded file name with the text extracted from it.
type FileAnalysis struct {
	FileName string
	Analysis string
}

// BuildFilePrompt assembles the provider prompt for a message that carries
// attachments.
func BuildFilePrompt(content string, analyses []FileAnalysis) string {
	var b strings.Builder
	if content != "" {
		fmt.Fprintf(&b, "User message: %s\n\n", content)
	}
	b.WriteString("The user has uploaded the following files:\n")
	for i, analysis := range analyses {
		fmt.Fprintf(&b, "\nFile %d: %s\n", i+1, analysis.FileName)
		fmt.Fprintf(&b, "Analysis: %s\n", analysis.Analysis)
	}
	b.WriteString("\nPlease respond to the user based on these files and their message.")
	return b.String()
}
