package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"
	"github.com/Adilmunawar/JARVIS-AIRep/pkg/api"
)

func convertUser(user database.User) api.User {
	return api.User{
		Id:          user.Id,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PictureUrl:  user.PictureUrl,
	}
}

func convertConversation(conversation database.Conversation) api.Conversation {
	return api.Conversation{
		Id:        conversation.Id,
		UserId:    conversation.UserId,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

func convertConversations(conversations []database.Conversation) []api.Conversation {
	out := make([]api.Conversation, len(conversations))
	for i, conversation := range conversations {
		out[i] = convertConversation(conversation)
	}
	return out
}

func convertMessage(message database.Message, files []database.File) api.Message {
	out := api.Message{
		Id:             message.Id,
		ConversationId: message.ConversationId,
		Content:        message.Content,
		Role:           message.Role,
		Timestamp:      message.Timestamp,
		Metadata:       json.RawMessage(message.Metadata),
	}
	for _, file := range files {
		out.Files = append(out.Files, api.FileInfo{
			FileName: file.FileName,
			FileType: file.FileType,
			FileSize: file.FileSize,
			FileUrl:  fmt.Sprintf("/api/files/%d", file.Id),
		})
	}
	return out
}

// convertMessages attaches each message's file records on the way out.
func convertMessages(ctx context.Context, store storage.Storage, messages []database.Message) ([]api.Message, error) {
	out := make([]api.Message, len(messages))
	for i, message := range messages {
		files, err := store.GetFilesByMessageId(ctx, message.Id)
		if err != nil {
			return nil, fmt.Errorf("error loading files for message %d: %w", message.Id, err)
		}
		out[i] = convertMessage(message, files)
	}
	return out, nil
}
