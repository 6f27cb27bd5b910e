package chat

import "time"

type Dialog struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RelatedOfferID *string   `gorm:"index" json:"related_offer_id,omitempty"`
	LastMessageID  *string   `gorm:"index" json:"last_message_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Participants []DialogParticipant `gorm:"foreignKey:DialogID" json:"participants,omitempty"`
	LastMessage  *Message            `gorm:"foreignKey:LastMessageID" json:"last_message,omitempty"`
}

type DialogParticipant struct {
	ID         string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DialogID   string     `gorm:"index;not null" json:"dialog_id"`
	UserID     string     `gorm:"index;not null" json:"user_id"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
