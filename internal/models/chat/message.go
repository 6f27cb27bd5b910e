package chat

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MessageTypeText    = "text"
	MessageTypeSystem  = "system"
	MessageTypePayment = "payment_notification"
)

type Message struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DialogID string `gorm:"index;not null" json:"dialog_id"`
	SenderID string `gorm:"index;not null" json:"sender_id"`
	Type     string `gorm:"default:'text'" json:"type"` // text, system, payment_notification
	Content  string `gorm:"type:text" json:"content"`
	// Для payment_notification: {"payment_request_id": "...", "status": "...", "actions": [...]}
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	Status    string         `gorm:"default:'sent'" json:"status"` // sent, delivered, read
	DeletedAt *time.Time     `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}
