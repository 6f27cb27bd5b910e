package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"admarket_backend/internal/logger"
	chatmodels "admarket_backend/internal/models/chat"
	"admarket_backend/internal/ratelimit"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// RealtimePusher доставляет кадры подключенным WebSocket-клиентам.
// Реализуется ws.Manager; в тестах подменяется заглушкой.
type RealtimePusher interface {
	PushToUser(userID string, payload interface{})
}

type ChatService interface {
	CreateDialog(userID string, req *dto.CreateDialogRequest) (*chatmodels.Dialog, error)
	ListDialogs(userID string) ([]chatmodels.Dialog, error)
	GetMessages(userID, dialogID string, query *dto.MessagesQuery) ([]chatmodels.Message, error)
	SendMessage(ctx context.Context, userID, dialogID string, req *dto.SendMessageRequest) (*chatmodels.Message, error)
	MarkDialogRead(userID, dialogID string) error

	// SendPaymentNotification создает интерактивное сообщение о смене
	// статуса оплаты. Вызывается outbox-воркером, не хендлерами;
	// повторная доставка одного события не дублирует сообщение.
	SendPaymentNotification(eventID string, payload *PaymentOutboxPayload) error
}

type chatService struct {
	chatRepo          repositories.ChatRepository
	userRepo          repositories.UserRepository
	pusher            RealtimePusher
	limiter           ratelimit.Limiter
	messagesPerMinute int
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	pusher RealtimePusher,
	limiter ratelimit.Limiter,
	messagesPerMinute int,
) ChatService {
	return &chatService{
		chatRepo:          chatRepo,
		userRepo:          userRepo,
		pusher:            pusher,
		limiter:           limiter,
		messagesPerMinute: messagesPerMinute,
	}
}

// CreateDialog открывает диалог с собеседником. Если диалог между этой
// парой уже есть, возвращается существующий.
func (s *chatService) CreateDialog(userID string, req *dto.CreateDialogRequest) (*chatmodels.Dialog, error) {
	if req.RecipientID == userID {
		return nil, apperrors.ErrInvalidOperation("chat", "нельзя открыть диалог с самим собой")
	}
	if _, err := s.userRepo.FindByID(req.RecipientID); err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	existing, err := s.chatRepo.FindDialogBetween(userID, req.RecipientID)
	if err == nil {
		return existing, nil
	}
	// Новый диалог заводим только когда пары точно нет: любая другая
	// ошибка поиска привела бы к дублю диалога.
	if err != repositories.ErrDialogNotFound {
		return nil, apperrors.InternalError(err)
	}

	dialog := &chatmodels.Dialog{
		RelatedOfferID: req.RelatedOfferID,
	}
	if err := s.chatRepo.CreateDialog(dialog, []string{userID, req.RecipientID}); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dialog, nil
}

func (s *chatService) ListDialogs(userID string) ([]chatmodels.Dialog, error) {
	dialogs, err := s.chatRepo.FindUserDialogs(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dialogs, nil
}

func (s *chatService) GetMessages(userID, dialogID string, query *dto.MessagesQuery) ([]chatmodels.Message, error) {
	if err := s.requireParticipant(dialogID, userID); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := s.chatRepo.FindMessages(dialogID, limit, query.Offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return messages, nil
}

// SendMessage сохраняет сообщение и пушит его собеседнику. Отправка
// ограничена общим счетчиком на отправителя; ошибка доставки по ws
// только логируется — сообщение уже в базе.
func (s *chatService) SendMessage(ctx context.Context, userID, dialogID string, req *dto.SendMessageRequest) (*chatmodels.Message, error) {
	allowed, err := s.limiter.Allow(ctx, "messages:"+userID, s.messagesPerMinute, time.Minute)
	if err != nil {
		logger.WithError(err).Warn("rate limiter недоступен, пропускаем проверку", "user_id", userID)
	} else if !allowed {
		return nil, apperrors.ErrRateLimited("chat",
			"слишком много сообщений, попробуйте через минуту")
	}

	if err := s.requireParticipant(dialogID, userID); err != nil {
		return nil, err
	}

	message := &chatmodels.Message{
		DialogID: dialogID,
		SenderID: userID,
		Type:     chatmodels.MessageTypeText,
		Content:  req.Content,
		Status:   "sent",
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.pushToCounterpart(dialogID, userID, message)
	return message, nil
}

func (s *chatService) MarkDialogRead(userID, dialogID string) error {
	if err := s.requireParticipant(dialogID, userID); err != nil {
		return err
	}
	if err := s.chatRepo.MarkDialogRead(dialogID, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// SendPaymentNotification создает сообщение типа payment_notification в
// диалоге сторон окна оплаты. В Data лежат кнопки следующих действий.
// Сообщение привязано к outbox-событию: ретрай после частично удавшейся
// доставки (например, упала внешняя публикация) не создает второе.
func (s *chatService) SendPaymentNotification(eventID string, payload *PaymentOutboxPayload) error {
	if _, err := s.chatRepo.FindPaymentNotification(eventID); err == nil {
		return nil
	} else if err != repositories.ErrMessageNotFound {
		return err
	}

	dialog, err := s.chatRepo.FindDialogBetween(payload.PayerID, payload.PayeeID)
	if err != nil {
		if err != repositories.ErrDialogNotFound {
			return err
		}
		dialog = &chatmodels.Dialog{RelatedOfferID: nil}
		if cerr := s.chatRepo.CreateDialog(dialog, []string{payload.PayerID, payload.PayeeID}); cerr != nil {
			return cerr
		}
	}

	data, err := json.Marshal(map[string]interface{}{
		"outbox_event_id":    eventID,
		"payment_request_id": payload.PaymentRequestID,
		"status":             payload.Status,
		"actions":            payload.NextActions,
	})
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Статус оплаты: %s (%.2f %s)",
		payload.Status, payload.Amount, payload.Currency)
	if payload.Note != "" {
		content += " — " + payload.Note
	}

	message := &chatmodels.Message{
		DialogID: dialog.ID,
		SenderID: payload.ActorID,
		Type:     chatmodels.MessageTypePayment,
		Content:  content,
		Data:     datatypes.JSON(data),
		Status:   "sent",
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return err
	}

	s.pusher.PushToUser(payload.RecipientID, dto.WSOutgoingMessage{
		Type:    "message.new",
		Message: message,
	})
	return nil
}

func (s *chatService) requireParticipant(dialogID, userID string) error {
	ok, err := s.chatRepo.IsParticipant(dialogID, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrDialogAccessDenied
	}
	return nil
}

func (s *chatService) pushToCounterpart(dialogID, senderID string, message *chatmodels.Message) {
	recipient, err := s.chatRepo.OtherParticipant(dialogID, senderID)
	if err != nil {
		logger.WithError(err).Warn("не удалось определить собеседника для пуша", "dialog_id", dialogID)
		return
	}
	s.pusher.PushToUser(recipient, dto.WSOutgoingMessage{
		Type:    "message.new",
		Message: message,
	})
}
