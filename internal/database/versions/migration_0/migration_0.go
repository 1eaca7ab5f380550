package migration_0

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The structs below are snapshots of the schema at the time of this
// migration. The live schema structs must not be referenced here, otherwise
// later schema changes would rewrite history.

type User struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	Username    string `gorm:"uniqueIndex;not null"`
	Email       string `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"not null"`
	PictureUrl  string
	GoogleId    string `gorm:"uniqueIndex;not null"`
}

type Conversation struct {
	Id     int64 `gorm:"primaryKey;autoIncrement"`
	UserId int64 `gorm:"index;not null"`
	User   *User `gorm:"foreignKey:UserId"`

	Title     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

type Message struct {
	Id             int64         `gorm:"primaryKey;autoIncrement"`
	ConversationId int64         `gorm:"index;not null"`
	Conversation   *Conversation `gorm:"foreignKey:ConversationId"`

	Content   string         `gorm:"not null"`
	Role      string         `gorm:"size:20;not null"`
	Timestamp time.Time      `gorm:"index"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
}

type File struct {
	Id        int64    `gorm:"primaryKey;autoIncrement"`
	MessageId int64    `gorm:"index;not null"`
	Message   *Message `gorm:"foreignKey:MessageId"`

	FileName  string `gorm:"not null"`
	FileType  string `gorm:"not null"`
	FileSize  int64  `gorm:"not null"`
	FilePath  string `gorm:"not null"`
	CreatedAt time.Time
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Conversation{}, &Message{}, &File{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&File{}, &Message{}, &Conversation{}, &User{}); err != nil {
		return fmt.Errorf("error dropping initial tables: %w", err)
	}
	return nil
}
