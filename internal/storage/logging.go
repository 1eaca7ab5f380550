package storage

import (
	"context"
	"log/slog"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
)

// loggingStorage wraps another Storage and emits a structured log line for
// every mutating operation. Reads pass through untouched. Errors are
// propagated unchanged; this wrapper is observability only.
type loggingStorage struct {
	next Storage
	log  *slog.Logger
}

// WithLogging decorates store so each mutation is logged with the operation
// name and the affected id.
func WithLogging(store Storage, log *slog.Logger) Storage {
	return &loggingStorage{next: store, log: log}
}

func (s *loggingStorage) CreateUser(ctx context.Context, user *database.User) error {
	err := s.next.CreateUser(ctx, user)
	if err == nil {
		s.log.Info("created user", "user_id", user.Id, "username", user.Username)
	}
	return err
}

func (s *loggingStorage) GetUser(ctx context.Context, id int64) (database.User, error) {
	return s.next.GetUser(ctx, id)
}

func (s *loggingStorage) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	return s.next.GetUserByUsername(ctx, username)
}

func (s *loggingStorage) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	return s.next.GetUserByEmail(ctx, email)
}

func (s *loggingStorage) GetUserByGoogleId(ctx context.Context, googleId string) (database.User, error) {
	return s.next.GetUserByGoogleId(ctx, googleId)
}

func (s *loggingStorage) GetUsersByIds(ctx context.Context, ids []int64) ([]database.User, error) {
	return s.next.GetUsersByIds(ctx, ids)
}

func (s *loggingStorage) SearchUsers(ctx context.Context, query string) ([]database.User, error) {
	return s.next.SearchUsers(ctx, query)
}

func (s *loggingStorage) CreateConversation(ctx context.Context, conversation *database.Conversation) error {
	err := s.next.CreateConversation(ctx, conversation)
	if err == nil {
		s.log.Info("created conversation", "conversation_id", conversation.Id, "user_id", conversation.UserId)
	}
	return err
}

func (s *loggingStorage) GetConversation(ctx context.Context, id int64) (database.Conversation, error) {
	return s.next.GetConversation(ctx, id)
}

func (s *loggingStorage) GetConversationsByUserId(ctx context.Context, userId int64) ([]database.Conversation, error) {
	return s.next.GetConversationsByUserId(ctx, userId)
}

func (s *loggingStorage) UpdateConversation(ctx context.Context, id int64, changes ConversationUpdate) (database.Conversation, error) {
	conversation, err := s.next.UpdateConversation(ctx, id, changes)
	if err == nil {
		s.log.Info("updated conversation", "conversation_id", id)
	}
	return conversation, err
}

func (s *loggingStorage) DeleteConversation(ctx context.Context, id int64) (bool, error) {
	removed, err := s.next.DeleteConversation(ctx, id)
	if err == nil {
		s.log.Info("deleted conversation", "conversation_id", id, "removed", removed)
	}
	return removed, err
}

func (s *loggingStorage) SearchConversations(ctx context.Context, query string) ([]database.Conversation, error) {
	return s.next.SearchConversations(ctx, query)
}

func (s *loggingStorage) CreateMessage(ctx context.Context, message *database.Message) error {
	err := s.next.CreateMessage(ctx, message)
	if err == nil {
		s.log.Info("created message", "message_id", message.Id, "conversation_id", message.ConversationId, "role", message.Role)
	}
	return err
}

func (s *loggingStorage) GetMessage(ctx context.Context, id int64) (database.Message, error) {
	return s.next.GetMessage(ctx, id)
}

func (s *loggingStorage) GetMessagesByConversationId(ctx context.Context, conversationId int64) ([]database.Message, error) {
	return s.next.GetMessagesByConversationId(ctx, conversationId)
}

func (s *loggingStorage) SearchMessages(ctx context.Context, query string) ([]database.Message, error) {
	return s.next.SearchMessages(ctx, query)
}

func (s *loggingStorage) CreateFile(ctx context.Context, file *database.File) error {
	err := s.next.CreateFile(ctx, file)
	if err == nil {
		s.log.Info("created file record", "file_id", file.Id, "message_id", file.MessageId, "file_name", file.FileName)
	}
	return err
}

func (s *loggingStorage) GetFile(ctx context.Context, id int64) (database.File, error) {
	return s.next.GetFile(ctx, id)
}

func (s *loggingStorage) GetFilesByMessageId(ctx context.Context, messageId int64) ([]database.File, error) {
	return s.next.GetFilesByMessageId(ctx, messageId)
}
