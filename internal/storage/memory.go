package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
)

// MemoryStorage keeps all entities in process-local maps. Identifiers are
// monotonically increasing and never reused, even after deletes. Handlers run
// on separate goroutines, so every operation takes the mutex; each operation
// is atomic but multi-step sequences (create conversation, then message) are
// not.
type MemoryStorage struct {
	mu sync.RWMutex

	users         map[int64]database.User
	conversations map[int64]database.Conversation
	messages      map[int64]database.Message
	files         map[int64]database.File

	nextUserId         int64
	nextConversationId int64
	nextMessageId      int64
	nextFileId         int64
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:              make(map[int64]database.User),
		conversations:      make(map[int64]database.Conversation),
		messages:           make(map[int64]database.Message),
		files:              make(map[int64]database.File),
		nextUserId:         1,
		nextConversationId: 1,
		nextMessageId:      1,
		nextFileId:         1,
	}
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *database.User) error {
	if user.Username == "" || user.Email == "" {
		return fmt.Errorf("%w: username and email are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: username %q already taken", ErrConflict, user.Username)
		}
		if existing.Email == user.Email {
			return fmt.Errorf("%w: email %q already taken", ErrConflict, user.Email)
		}
		if existing.GoogleId == user.GoogleId {
			return fmt.Errorf("%w: google id %q already registered", ErrConflict, user.GoogleId)
		}
	}

	user.Id = s.nextUserId
	s.nextUserId++
	s.users[user.Id] = *user
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, id int64) (database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return database.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, nil
}

func (s *MemoryStorage) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	return s.findUser(func(u database.User) bool { return u.Username == username }, "username "+username)
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	return s.findUser(func(u database.User) bool { return u.Email == email }, "email "+email)
}

func (s *MemoryStorage) GetUserByGoogleId(ctx context.Context, googleId string) (database.User, error) {
	return s.findUser(func(u database.User) bool { return u.GoogleId == googleId }, "google id "+googleId)
}

func (s *MemoryStorage) findUser(match func(database.User) bool, desc string) (database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if match(user) {
			return user, nil
		}
	}
	return database.User{}, fmt.Errorf("%w: user with %s", ErrNotFound, desc)
}

func (s *MemoryStorage) GetUsersByIds(ctx context.Context, ids []int64) ([]database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]database.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *MemoryStorage) SearchUsers(ctx context.Context, query string) ([]database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]database.User, 0)
	for _, user := range s.users {
		if strings.Contains(user.Username, query) || strings.Contains(user.Email, query) {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Id < users[j].Id })
	return users, nil
}

func (s *MemoryStorage) CreateConversation(ctx context.Context, conversation *database.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	conversation.Id = s.nextConversationId
	s.nextConversationId++
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	s.conversations[conversation.Id] = *conversation
	return nil
}

func (s *MemoryStorage) GetConversation(ctx context.Context, id int64) (database.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return database.Conversation{}, fmt.Errorf("%w: conversation %d", ErrNotFound, id)
	}
	return conversation, nil
}

func (s *MemoryStorage) GetConversationsByUserId(ctx context.Context, userId int64) ([]database.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversations := make([]database.Conversation, 0)
	for _, conversation := range s.conversations {
		if conversation.UserId == userId {
			conversations = append(conversations, conversation)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		if conversations[i].UpdatedAt.Equal(conversations[j].UpdatedAt) {
			return conversations[i].Id > conversations[j].Id
		}
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations, nil
}

func (s *MemoryStorage) UpdateConversation(ctx context.Context, id int64, changes ConversationUpdate) (database.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return database.Conversation{}, fmt.Errorf("%w: conversation %d", ErrNotFound, id)
	}

	if changes.Title != nil {
		conversation.Title = *changes.Title
	}
	if changes.UpdatedAt != nil {
		conversation.UpdatedAt = *changes.UpdatedAt
	}

	s.conversations[id] = conversation
	return conversation, nil
}

func (s *MemoryStorage) DeleteConversation(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return false, nil
	}
	delete(s.conversations, id)
	return true, nil
}

func (s *MemoryStorage) SearchConversations(ctx context.Context, query string) ([]database.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversations := make([]database.Conversation, 0)
	for _, conversation := range s.conversations {
		if strings.Contains(conversation.Title, query) {
			conversations = append(conversations, conversation)
		}
	}
	sort.Slice(conversations, func(i, j int) bool { return conversations[i].Id < conversations[j].Id })
	return conversations, nil
}

func (s *MemoryStorage) CreateMessage(ctx context.Context, message *database.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.Id = s.nextMessageId
	s.nextMessageId++
	message.Timestamp = time.Now().UTC()
	s.messages[message.Id] = *message
	return nil
}

func (s *MemoryStorage) GetMessage(ctx context.Context, id int64) (database.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	message, ok := s.messages[id]
	if !ok {
		return database.Message{}, fmt.Errorf("%w: message %d", ErrNotFound, id)
	}
	return message, nil
}

func (s *MemoryStorage) GetMessagesByConversationId(ctx context.Context, conversationId int64) ([]database.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]database.Message, 0)
	for _, message := range s.messages {
		if message.ConversationId == conversationId {
			messages = append(messages, message)
		}
	}
	// Ids increase with insertion order, which breaks ties when the clock
	// resolution makes two timestamps coincide.
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].Id < messages[j].Id
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (s *MemoryStorage) SearchMessages(ctx context.Context, query string) ([]database.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]database.Message, 0)
	for _, message := range s.messages {
		if strings.Contains(message.Content, query) {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].Id < messages[j].Id })
	return messages, nil
}

func (s *MemoryStorage) CreateFile(ctx context.Context, file *database.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file.Id = s.nextFileId
	s.nextFileId++
	file.CreatedAt = time.Now().UTC()
	s.files[file.Id] = *file
	return nil
}

func (s *MemoryStorage) GetFile(ctx context.Context, id int64) (database.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.files[id]
	if !ok {
		return database.File{}, fmt.Errorf("%w: file %d", ErrNotFound, id)
	}
	return file, nil
}

func (s *MemoryStorage) GetFilesByMessageId(ctx context.Context, messageId int64) ([]database.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]database.File, 0)
	for _, file := range s.files {
		if file.MessageId == messageId {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Id < files[j].Id })
	return files, nil
}
