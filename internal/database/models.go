package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Models lists the schema in dependency order.
func Models() []any {
	return []any{
		&User{},
		&Recipe{},
		&Connection{},
		&Group{},
		&GroupMember{},
		&Conversation{},
		&Message{},
		&MessageRecipe{},
		&MessageSeenBy{},
	}
}

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserName       string     `gorm:"not null;uniqueIndex"`
	ProfileImageID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

type Recipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"not null"`
	CreatedAt time.Time
}

type Connection struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Account1ID uuid.UUID `gorm:"type:uuid;not null;index;check:chk_connections_distinct,account1_id <> account2_id"`
	Account1   User      `gorm:"foreignKey:Account1ID;constraint:OnDelete:CASCADE"`
	Account2ID uuid.UUID `gorm:"type:uuid;not null;index"`
	Account2   User      `gorm:"foreignKey:Account2ID;constraint:OnDelete:CASCADE"`
	Status     string    `gorm:"not null;default:Pending"`
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GroupMember struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Group    Group     `gorm:"constraint:OnDelete:CASCADE"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	Position int       `gorm:"not null"`
}

type Conversation struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ConnectionID  *uuid.UUID  `gorm:"type:uuid;uniqueIndex;check:chk_conversations_owner,(connection_id IS NULL) <> (group_id IS NULL)"`
	Connection    *Connection `gorm:"constraint:OnDelete:CASCADE"`
	GroupID       *uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Group         *Group      `gorm:"constraint:OnDelete:CASCADE"`
	LastMessageAt *time.Time  `gorm:"index"`
	CreatedAt     time.Time
}

type Message struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Seq            int64        `gorm:"autoIncrement;not null;uniqueIndex"`
	ConversationID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Conversation   Conversation `gorm:"constraint:OnDelete:CASCADE"`
	SenderID       uuid.UUID    `gorm:"type:uuid;not null"`
	Sender         User         `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	ContentType    string       `gorm:"not null"`
	TextContent    *string
	ImageURLs      pq.StringArray `gorm:"type:text[]"`
	SentDate       time.Time      `gorm:"not null"`
	UpdatedDate    *time.Time
	RepliedToID    *uuid.UUID `gorm:"type:uuid"`
	RepliedTo      *Message   `gorm:"foreignKey:RepliedToID;constraint:OnDelete:SET NULL"`
}

type MessageRecipe struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Message   Message   `gorm:"constraint:OnDelete:CASCADE"`
	Position  int       `gorm:"primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"`
}

// MessageSeenBy is stored in message_seen_by.
type MessageSeenBy struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Message   Message   `gorm:"constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Position  int       `gorm:"not null"`
}

func (MessageSeenBy) TableName() string {
	return "message_seen_by"
}
