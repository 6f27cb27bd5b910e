package repositories

import (
	"errors"

	chatmodels "admarket_backend/internal/models/chat"

	"gorm.io/gorm"
)

var (
	ErrDialogNotFound  = errors.New("dialog not found")
	ErrMessageNotFound = errors.New("message not found")
)

type ChatRepository interface {
	CreateDialog(dialog *chatmodels.Dialog, participantIDs []string) error
	FindDialogByID(id string) (*chatmodels.Dialog, error)
	FindDialogBetween(userA, userB string) (*chatmodels.Dialog, error)
	FindUserDialogs(userID string) ([]chatmodels.Dialog, error)
	IsParticipant(dialogID, userID string) (bool, error)
	OtherParticipant(dialogID, userID string) (string, error)

	CreateMessage(message *chatmodels.Message) error
	FindMessages(dialogID string, limit, offset int) ([]chatmodels.Message, error)
	FindPaymentNotification(outboxEventID string) (*chatmodels.Message, error)
	MarkDialogRead(dialogID, userID string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateDialog(dialog *chatmodels.Dialog, participantIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dialog).Error; err != nil {
			return err
		}
		for _, userID := range participantIDs {
			participant := &chatmodels.DialogParticipant{
				DialogID: dialog.ID,
				UserID:   userID,
			}
			if err := tx.Create(participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *chatRepository) FindDialogByID(id string) (*chatmodels.Dialog, error) {
	var dialog chatmodels.Dialog
	err := r.db.Preload("Participants").Preload("LastMessage").First(&dialog, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *chatRepository) FindDialogBetween(userA, userB string) (*chatmodels.Dialog, error) {
	var dialog chatmodels.Dialog
	err := r.db.
		Joins("JOIN dialog_participants pa ON pa.dialog_id = dialogs.id AND pa.user_id = ?", userA).
		Joins("JOIN dialog_participants pb ON pb.dialog_id = dialogs.id AND pb.user_id = ?", userB).
		First(&dialog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *chatRepository) FindUserDialogs(userID string) ([]chatmodels.Dialog, error) {
	var dialogs []chatmodels.Dialog
	err := r.db.
		Joins("JOIN dialog_participants p ON p.dialog_id = dialogs.id AND p.user_id = ?", userID).
		Preload("Participants").
		Preload("LastMessage").
		Order("dialogs.updated_at DESC").
		Find(&dialogs).Error
	return dialogs, err
}

func (r *chatRepository) IsParticipant(dialogID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&chatmodels.DialogParticipant{}).
		Where("dialog_id = ? AND user_id = ?", dialogID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *chatRepository) OtherParticipant(dialogID, userID string) (string, error) {
	var participant chatmodels.DialogParticipant
	err := r.db.Where("dialog_id = ? AND user_id <> ?", dialogID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDialogNotFound
		}
		return "", err
	}
	return participant.UserID, nil
}

func (r *chatRepository) CreateMessage(message *chatmodels.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&chatmodels.Dialog{}).
			Where("id = ?", message.DialogID).
			Update("last_message_id", message.ID).Error
	})
}

func (r *chatRepository) FindMessages(dialogID string, limit, offset int) ([]chatmodels.Message, error) {
	var messages []chatmodels.Message
	err := r.db.Where("dialog_id = ? AND deleted_at IS NULL", dialogID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

// FindPaymentNotification ищет платежное сообщение по id outbox-события,
// из которого оно было создано.
func (r *chatRepository) FindPaymentNotification(outboxEventID string) (*chatmodels.Message, error) {
	var message chatmodels.Message
	err := r.db.
		Where("type = ? AND data->>'outbox_event_id' = ?", chatmodels.MessageTypePayment, outboxEventID).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *chatRepository) MarkDialogRead(dialogID, userID string) error {
	return r.db.Model(&chatmodels.DialogParticipant{}).
		Where("dialog_id = ? AND user_id = ?", dialogID, userID).
		Update("last_read_at", gorm.Expr("NOW()")).Error
}
