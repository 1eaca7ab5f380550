package database

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

type User struct {
	Id          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"not null" json:"displayName"`
	PictureUrl  string `json:"pictureUrl,omitempty"`
	GoogleId    string `gorm:"uniqueIndex;not null" json:"googleId"`
}

type Conversation struct {
	Id     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId int64 `gorm:"index;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserId" json:"-"`

	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

type Message struct {
	Id             int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationId int64         `gorm:"index;not null" json:"conversationId"`
	Conversation   *Conversation `gorm:"foreignKey:ConversationId" json:"-"`

	Content   string         `gorm:"not null" json:"content"`
	Role      string         `gorm:"size:20;not null" json:"role"`
	Timestamp time.Time      `gorm:"index" json:"timestamp"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"` // {"model": "...", "latency_ms": ...}
}

type File struct {
	Id        int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageId int64    `gorm:"index;not null" json:"messageId"`
	Message   *Message `gorm:"foreignKey:MessageId" json:"-"`

	FileName  string    `gorm:"not null" json:"fileName"`
	FileType  string    `gorm:"not null" json:"fileType"`
	FileSize  int64     `gorm:"not null" json:"fileSize"`
	FilePath  string    `gorm:"not null" json:"filePath"`
	CreatedAt time.Time `json:"createdAt"`
}
