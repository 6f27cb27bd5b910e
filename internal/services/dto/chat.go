package dto

import (
	"time"

	chatmodels "admarket_backend/internal/models/chat"
)

// CreateDialogRequest - открытие диалога с другим пользователем
type CreateDialogRequest struct {
	RecipientID    string  `json:"recipient_id" binding:"required,uuid"`
	RelatedOfferID *string `json:"related_offer_id,omitempty" binding:"omitempty,uuid"`
}

// SendMessageRequest - отправка сообщения в диалог
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// MessagesQuery - пагинация истории сообщений
type MessagesQuery struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// DialogResponse - диалог со служебными полями для списка
type DialogResponse struct {
	ID             string              `json:"id"`
	RelatedOfferID *string             `json:"related_offer_id,omitempty"`
	Participants   []string            `json:"participants"`
	LastMessage    *chatmodels.Message `json:"last_message,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// WSOutgoingMessage - кадр, уходящий подписчикам по WebSocket
type WSOutgoingMessage struct {
	Type     string              `json:"type"` // "message.new", "dialog.read"
	Message  *chatmodels.Message `json:"message,omitempty"`
	DialogID string              `json:"dialog_id,omitempty"`
}
