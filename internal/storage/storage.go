package storage

import (
	"context"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
)

// Storage is the single seam through which the server reads and writes
// users, conversations, messages, and file records. Create methods assign
// the id and creation timestamps on the passed entity. List and search
// methods return empty slices for "no results"; single-entity lookups and
// mutations return ErrNotFound instead.
type Storage interface {
	CreateUser(ctx context.Context, user *database.User) error
	GetUser(ctx context.Context, id int64) (database.User, error)
	GetUserByUsername(ctx context.Context, username string) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetUserByGoogleId(ctx context.Context, googleId string) (database.User, error)
	// GetUsersByIds is a best-effort batch lookup: ids with no matching user
	// are silently omitted from the result.
	GetUsersByIds(ctx context.Context, ids []int64) ([]database.User, error)
	SearchUsers(ctx context.Context, query string) ([]database.User, error)

	CreateConversation(ctx context.Context, conversation *database.Conversation) error
	GetConversation(ctx context.Context, id int64) (database.Conversation, error)
	// GetConversationsByUserId returns the user's conversations ordered by
	// UpdatedAt descending, most recently active first.
	GetConversationsByUserId(ctx context.Context, userId int64) ([]database.Conversation, error)
	// UpdateConversation merges the set fields of changes into the record.
	// It does not touch UpdatedAt unless the caller sets it explicitly.
	UpdateConversation(ctx context.Context, id int64, changes ConversationUpdate) (database.Conversation, error)
	// DeleteConversation reports whether a record was removed. Messages and
	// files of the conversation are left in place.
	DeleteConversation(ctx context.Context, id int64) (bool, error)
	SearchConversations(ctx context.Context, query string) ([]database.Conversation, error)

	CreateMessage(ctx context.Context, message *database.Message) error
	GetMessage(ctx context.Context, id int64) (database.Message, error)
	// GetMessagesByConversationId returns messages ordered by timestamp
	// ascending, ties broken by insertion order.
	GetMessagesByConversationId(ctx context.Context, conversationId int64) ([]database.Message, error)
	SearchMessages(ctx context.Context, query string) ([]database.Message, error)

	CreateFile(ctx context.Context, file *database.File) error
	GetFile(ctx context.Context, id int64) (database.File, error)
	GetFilesByMessageId(ctx context.Context, messageId int64) ([]database.File, error)
}

// ConversationUpdate carries the partial changes for UpdateConversation.
// Nil fields are left unchanged.
type ConversationUpdate struct {
	Title     *string
	UpdatedAt *time.Time
}
