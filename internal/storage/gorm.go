package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"

	"gorm.io/gorm"
)

// GormStorage implements the same contract over a relational backend
// (sqlite or postgres). Uniqueness is checked before insert so the error
// taxonomy matches MemoryStorage; the unique indexes on the users table
// remain as a backstop for deployments with multiple processes.
type GormStorage struct {
	db *gorm.DB

	// SQLite only supports one writer at a time, so we need a lock
	// whenever we write to the database.
	writeMu sync.Mutex
}

var _ Storage = (*GormStorage)(nil)

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (s *GormStorage) CreateUser(ctx context.Context, user *database.User) error {
	if user.Username == "" || user.Email == "" {
		return fmt.Errorf("%w: username and email are required", ErrValidation)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var count int64
	err := s.db.WithContext(ctx).Model(&database.User{}).
		Where("username = ? OR email = ? OR google_id = ?", user.Username, user.Email, user.GoogleId).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("error checking user uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: username, email, or google id already taken", ErrConflict)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (s *GormStorage) GetUser(ctx context.Context, id int64) (database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return database.User{}, translateError(err, fmt.Sprintf("user %d", id))
	}
	return user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return database.User{}, translateError(err, "user with username "+username)
	}
	return user, nil
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return database.User{}, translateError(err, "user with email "+email)
	}
	return user, nil
}

func (s *GormStorage) GetUserByGoogleId(ctx context.Context, googleId string) (database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, "google_id = ?", googleId).Error; err != nil {
		return database.User{}, translateError(err, "user with google id "+googleId)
	}
	return user, nil
}

func (s *GormStorage) GetUsersByIds(ctx context.Context, ids []int64) ([]database.User, error) {
	users := make([]database.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("error batch loading users: %w", err)
	}
	return users, nil
}

func (s *GormStorage) SearchUsers(ctx context.Context, query string) ([]database.User, error) {
	users := make([]database.User, 0)
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).
		Where("username LIKE ? OR email LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("error searching users: %w", err)
	}
	return users, nil
}

func (s *GormStorage) CreateConversation(ctx context.Context, conversation *database.Conversation) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return fmt.Errorf("error creating conversation: %w", err)
	}
	return nil
}

func (s *GormStorage) GetConversation(ctx context.Context, id int64) (database.Conversation, error) {
	var conversation database.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return database.Conversation{}, translateError(err, fmt.Sprintf("conversation %d", id))
	}
	return conversation, nil
}

func (s *GormStorage) GetConversationsByUserId(ctx context.Context, userId int64) ([]database.Conversation, error) {
	conversations := make([]database.Conversation, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("updated_at DESC, id DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("error listing conversations for user %d: %w", userId, err)
	}
	return conversations, nil
}

func (s *GormStorage) UpdateConversation(ctx context.Context, id int64, changes ConversationUpdate) (database.Conversation, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var conversation database.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return database.Conversation{}, translateError(err, fmt.Sprintf("conversation %d", id))
	}

	updates := map[string]any{}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.UpdatedAt != nil {
		updates["updated_at"] = *changes.UpdatedAt
	}
	if len(updates) == 0 {
		return conversation, nil
	}

	// UpdateColumns so gorm does not refresh updated_at on its own; the
	// caller decides when activity bumps it.
	err := s.db.WithContext(ctx).Model(&database.Conversation{Id: id}).UpdateColumns(updates).Error
	if err != nil {
		return database.Conversation{}, fmt.Errorf("error updating conversation %d: %w", id, err)
	}

	if err := s.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return database.Conversation{}, translateError(err, fmt.Sprintf("conversation %d", id))
	}
	return conversation, nil
}

func (s *GormStorage) DeleteConversation(ctx context.Context, id int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res := s.db.WithContext(ctx).Delete(&database.Conversation{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("error deleting conversation %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStorage) SearchConversations(ctx context.Context, query string) ([]database.Conversation, error) {
	conversations := make([]database.Conversation, 0)
	err := s.db.WithContext(ctx).
		Where("title LIKE ?", "%"+query+"%").
		Order("id ASC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("error searching conversations: %w", err)
	}
	return conversations, nil
}

func (s *GormStorage) CreateMessage(ctx context.Context, message *database.Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	message.Timestamp = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (s *GormStorage) GetMessage(ctx context.Context, id int64) (database.Message, error) {
	var message database.Message
	if err := s.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return database.Message{}, translateError(err, fmt.Sprintf("message %d", id))
	}
	return message, nil
}

func (s *GormStorage) GetMessagesByConversationId(ctx context.Context, conversationId int64) ([]database.Message, error) {
	messages := make([]database.Message, 0)
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("error listing messages for conversation %d: %w", conversationId, err)
	}
	return messages, nil
}

func (s *GormStorage) SearchMessages(ctx context.Context, query string) ([]database.Message, error) {
	messages := make([]database.Message, 0)
	err := s.db.WithContext(ctx).
		Where("content LIKE ?", "%"+query+"%").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("error searching messages: %w", err)
	}
	return messages, nil
}

func (s *GormStorage) CreateFile(ctx context.Context, file *database.File) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	file.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("error creating file record: %w", err)
	}
	return nil
}

func (s *GormStorage) GetFile(ctx context.Context, id int64) (database.File, error) {
	var file database.File
	if err := s.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return database.File{}, translateError(err, fmt.Sprintf("file %d", id))
	}
	return file, nil
}

func (s *GormStorage) GetFilesByMessageId(ctx context.Context, messageId int64) ([]database.File, error) {
	files := make([]database.File, 0)
	err := s.db.WithContext(ctx).
		Where("message_id = ?", messageId).
		Order("id ASC").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("error listing files for message %d: %w", messageId, err)
	}
	return files, nil
}

func translateError(err error, desc string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, desc)
	}
	return fmt.Errorf("error retrieving %s: %w", desc, err)
}
