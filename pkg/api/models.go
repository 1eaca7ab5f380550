package api

import (
	"encoding/json"
	"time"
)

type GoogleLoginRequest struct {
	IdToken string `json:"idToken"`
}

type AuthResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

type User struct {
	Id          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PictureUrl  string `json:"pictureUrl,omitempty"`
}

type ChatRequest struct {
	Content        string `json:"content"`
	ConversationId *int64 `json:"conversationId,omitempty"`
}

type ChatResponse struct {
	ConversationId int64     `json:"conversationId"`
	Messages       []Message `json:"messages"`
}

type Conversation struct {
	Id        int64     `json:"id"`
	UserId    int64     `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Message struct {
	Id             int64           `json:"id"`
	ConversationId int64           `json:"conversationId"`
	Content        string          `json:"content"`
	Role           string          `json:"role"` // "user" or "assistant"
	Timestamp      time.Time       `json:"timestamp"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	Files          []FileInfo      `json:"files,omitempty"`
}

type FileInfo struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	FileUrl  string `json:"fileUrl"`
}

type DeleteConversationResponse struct {
	Deleted bool `json:"deleted"`
}

type SearchParams struct {
	Query string `schema:"q"`
}
