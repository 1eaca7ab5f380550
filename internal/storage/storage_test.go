package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSqliteStorage(t *testing.T) Storage {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return NewGormStorage(db)
}

// Both implementations must behave identically, so every test runs against
// each of them.
func forEachStorage(t *testing.T, test func(t *testing.T, store Storage)) {
	t.Run("Memory", func(t *testing.T) {
		test(t, NewMemoryStorage())
	})
	t.Run("Sqlite", func(t *testing.T) {
		test(t, newSqliteStorage(t))
	})
}

func createTestUser(t *testing.T, store Storage, username string) database.User {
	user := database.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: "Test " + username,
		GoogleId:    "google-" + username,
	}
	require.NoError(t, store.CreateUser(context.Background(), &user))
	return user
}

func createTestConversation(t *testing.T, store Storage, userId int64, title string) database.Conversation {
	conversation := database.Conversation{UserId: userId, Title: title}
	require.NoError(t, store.CreateConversation(context.Background(), &conversation))
	return conversation
}

func TestUserRoundTrip(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "alice")
		assert.Greater(t, user.Id, int64(0))

		got, err := store.GetUser(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.DisplayName, got.DisplayName)
		assert.Equal(t, user.GoogleId, got.GoogleId)

		byUsername, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.Id, byUsername.Id)

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.Id, byEmail.Id)

		byGoogleId, err := store.GetUserByGoogleId(ctx, "google-alice")
		require.NoError(t, err)
		assert.Equal(t, user.Id, byGoogleId.Id)
	})
}

func TestUserNotFound(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		_, err := store.GetUser(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetUserByGoogleId(ctx, "google-nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserValidation(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		err := store.CreateUser(context.Background(), &database.User{Email: "a@example.com"})
		assert.ErrorIs(t, err, ErrValidation)

		err = store.CreateUser(context.Background(), &database.User{Username: "a"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDuplicateUsernameRejected(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		first := createTestUser(t, store, "bob")

		dup := database.User{
			Username:    "bob",
			Email:       "other@example.com",
			DisplayName: "Other Bob",
			GoogleId:    "google-other",
		}
		err := store.CreateUser(ctx, &dup)
		assert.ErrorIs(t, err, ErrConflict)

		// The original record is untouched by the failed insert.
		got, err := store.GetUser(ctx, first.Id)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", got.Email)
		assert.Equal(t, "Test bob", got.DisplayName)
	})
}

func TestDuplicateEmailRejected(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		createTestUser(t, store, "carol")

		dup := database.User{
			Username:    "carol2",
			Email:       "carol@example.com",
			DisplayName: "Carol Two",
			GoogleId:    "google-carol2",
		}
		err := store.CreateUser(context.Background(), &dup)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestGetUsersByIdsSkipsMissing(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		u1 := createTestUser(t, store, "dave")
		u2 := createTestUser(t, store, "erin")

		users, err := store.GetUsersByIds(ctx, []int64{u1.Id, 999, u2.Id})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, u1.Id, users[0].Id)
		assert.Equal(t, u2.Id, users[1].Id)

		users, err = store.GetUsersByIds(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestSearchUsers(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		frank := createTestUser(t, store, "frank")
		createTestUser(t, store, "grace")

		users, err := store.SearchUsers(ctx, "fran")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, frank.Id, users[0].Id)

		users, err = store.SearchUsers(ctx, "zzz")
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestConversationRoundTrip(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "heidi")
		conversation := createTestConversation(t, store, user.Id, "Trip planning")
		assert.Greater(t, conversation.Id, int64(0))
		assert.False(t, conversation.CreatedAt.IsZero())
		assert.False(t, conversation.UpdatedAt.IsZero())

		got, err := store.GetConversation(ctx, conversation.Id)
		require.NoError(t, err)
		assert.Equal(t, "Trip planning", got.Title)
		assert.Equal(t, user.Id, got.UserId)

		_, err = store.GetConversation(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConversationsOrderedByActivity(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "ivan")
		other := createTestUser(t, store, "judy")

		c1 := createTestConversation(t, store, user.Id, "first")
		c2 := createTestConversation(t, store, user.Id, "second")
		c3 := createTestConversation(t, store, user.Id, "third")
		createTestConversation(t, store, other.Id, "not ivan's")

		// Bump the oldest conversation so it becomes the most recent.
		later := time.Now().UTC().Add(time.Hour)
		_, err := store.UpdateConversation(ctx, c1.Id, ConversationUpdate{UpdatedAt: &later})
		require.NoError(t, err)

		conversations, err := store.GetConversationsByUserId(ctx, user.Id)
		require.NoError(t, err)
		require.Len(t, conversations, 3)
		assert.Equal(t, c1.Id, conversations[0].Id)
		assert.Equal(t, c3.Id, conversations[1].Id)
		assert.Equal(t, c2.Id, conversations[2].Id)

		conversations, err = store.GetConversationsByUserId(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, conversations)
	})
}

func TestUpdateConversationTitleKeepsUpdatedAt(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "kim")
		conversation := createTestConversation(t, store, user.Id, "old title")

		// Pin UpdatedAt to a known instant so a title-only update that
		// silently refreshed it would be detected.
		pinned := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		_, err := store.UpdateConversation(ctx, conversation.Id, ConversationUpdate{UpdatedAt: &pinned})
		require.NoError(t, err)

		title := "new title"
		updated, err := store.UpdateConversation(ctx, conversation.Id, ConversationUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "new title", updated.Title)
		assert.WithinDuration(t, pinned, updated.UpdatedAt, time.Second)

		_, err = store.UpdateConversation(ctx, 999, ConversationUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteConversation(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "leo")
		conversation := createTestConversation(t, store, user.Id, "doomed")

		deleted, err := store.DeleteConversation(ctx, conversation.Id)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = store.GetConversation(ctx, conversation.Id)
		assert.ErrorIs(t, err, ErrNotFound)

		deleted, err = store.DeleteConversation(ctx, conversation.Id)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestConversationIdsNotReused(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "mallory")
		c1 := createTestConversation(t, store, user.Id, "first")

		deleted, err := store.DeleteConversation(ctx, c1.Id)
		require.NoError(t, err)
		require.True(t, deleted)

		c2 := createTestConversation(t, store, user.Id, "second")
		assert.Greater(t, c2.Id, c1.Id)
	})
}

func TestMessagesOrderedByTimestamp(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "nina")
		conversation := createTestConversation(t, store, user.Id, "chat")

		m1 := database.Message{ConversationId: conversation.Id, Content: "Hello", Role: database.RoleUser}
		require.NoError(t, store.CreateMessage(ctx, &m1))
		m2 := database.Message{ConversationId: conversation.Id, Content: "Hi there", Role: database.RoleAssistant}
		require.NoError(t, store.CreateMessage(ctx, &m2))
		m3 := database.Message{ConversationId: conversation.Id, Content: "How are you?", Role: database.RoleUser}
		require.NoError(t, store.CreateMessage(ctx, &m3))

		messages, err := store.GetMessagesByConversationId(ctx, conversation.Id)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, []int64{m1.Id, m2.Id, m3.Id}, []int64{messages[0].Id, messages[1].Id, messages[2].Id})
		assert.Equal(t, database.RoleUser, messages[0].Role)
		assert.Equal(t, database.RoleAssistant, messages[1].Role)

		messages, err = store.GetMessagesByConversationId(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}

func TestMessageMetadataRoundTrip(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "oscar")
		conversation := createTestConversation(t, store, user.Id, "chat")

		message := database.Message{
			ConversationId: conversation.Id,
			Content:        "Hi there",
			Role:           database.RoleAssistant,
			Metadata:       []byte(`{"model":"gpt-4o","latency_ms":120}`),
		}
		require.NoError(t, store.CreateMessage(ctx, &message))

		got, err := store.GetMessage(ctx, message.Id)
		require.NoError(t, err)
		assert.JSONEq(t, `{"model":"gpt-4o","latency_ms":120}`, string(got.Metadata))

		_, err = store.GetMessage(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchMessages(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "peggy")
		conversation := createTestConversation(t, store, user.Id, "greetings")

		m1 := database.Message{ConversationId: conversation.Id, Content: "Hello", Role: database.RoleUser}
		require.NoError(t, store.CreateMessage(ctx, &m1))
		m2 := database.Message{ConversationId: conversation.Id, Content: "Hi there", Role: database.RoleAssistant}
		require.NoError(t, store.CreateMessage(ctx, &m2))

		messages, err := store.SearchMessages(ctx, "Hello")
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, m1.Id, messages[0].Id)

		messages, err = store.SearchMessages(ctx, "nothing matches this")
		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}

func TestSearchConversations(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "quinn")
		c1 := createTestConversation(t, store, user.Id, "Trip to Norway")
		createTestConversation(t, store, user.Id, "Recipe ideas")

		conversations, err := store.SearchConversations(ctx, "Norway")
		require.NoError(t, err)
		require.Len(t, conversations, 1)
		assert.Equal(t, c1.Id, conversations[0].Id)
	})
}

func TestFileRoundTrip(t *testing.T) {
	forEachStorage(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := createTestUser(t, store, "ruth")
		conversation := createTestConversation(t, store, user.Id, "chat")
		message := database.Message{ConversationId: conversation.Id, Content: "see attached", Role: database.RoleUser}
		require.NoError(t, store.CreateMessage(ctx, &message))

		f1 := database.File{
			MessageId: message.Id,
			FileName:  "report.pdf",
			FileType:  "application/pdf",
			FileSize:  2048,
			FilePath:  "abc-report.pdf",
		}
		require.NoError(t, store.CreateFile(ctx, &f1))
		assert.Greater(t, f1.Id, int64(0))
		assert.False(t, f1.CreatedAt.IsZero())

		f2 := database.File{
			MessageId: message.Id,
			FileName:  "notes.txt",
			FileType:  "text/plain",
			FileSize:  128,
			FilePath:  "def-notes.txt",
		}
		require.NoError(t, store.CreateFile(ctx, &f2))

		got, err := store.GetFile(ctx, f1.Id)
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", got.FileName)
		assert.Equal(t, int64(2048), got.FileSize)

		files, err := store.GetFilesByMessageId(ctx, message.Id)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, f1.Id, files[0].Id)
		assert.Equal(t, f2.Id, files[1].Id)

		_, err = store.GetFile(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)

		files, err = store.GetFilesByMessageId(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
