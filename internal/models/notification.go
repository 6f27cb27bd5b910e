package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // "offer_received", "payment_status", "review_moderated"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"offer_id": "...", "payment_request_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
