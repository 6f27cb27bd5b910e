package services

import (
	"encoding/json"
	"fmt"

	"admarket_backend/internal/logger"
	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Типы in-app уведомлений.
const (
	NotificationTypeOfferReceived     = "offer_received"
	NotificationTypeOfferResponded    = "offer_responded"
	NotificationTypeApplicationStatus = "application_status"
	NotificationTypePaymentStatus     = "payment_status"
	NotificationTypeReviewReceived    = "review_received"
	NotificationTypeReviewModerated   = "review_moderated"
)

type NotificationService interface {
	List(userID string, query *dto.NotificationsQuery) ([]models.Notification, int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	UnreadCount(userID string) (int64, error)

	// Фабрики. Ошибки создания уведомлений только логируются:
	// уведомление никогда не валит основную операцию.
	NotifyOfferReceived(influencerID, offerID, companyName string, amount float64)
	NotifyOfferResponded(advertiserID, offerID string, status models.OfferStatus)
	NotifyApplicationStatus(influencerID, campaignTitle string, status models.ApplicationStatus)
	NotifyPaymentStatus(userID, paymentRequestID string, status models.PaymentStatus)
	NotifyReviewReceived(subjectID, reviewID string)
	NotifyReviewModerated(authorID, reviewID string, status models.ReviewStatus)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(userID string, query *dto.NotificationsQuery) ([]models.Notification, int64, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	notifications, total, err := s.notificationRepo.FindByUser(userID, query.OnlyUnread, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return notifications, total, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(notificationID, userID); err != nil {
		if err == repositories.ErrNotificationNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// --- фабрики ---

func (s *notificationService) NotifyOfferReceived(influencerID, offerID, companyName string, amount float64) {
	s.create(influencerID, NotificationTypeOfferReceived,
		"Новое предложение",
		fmt.Sprintf("%s предлагает сотрудничество на сумму %.2f", companyName, amount),
		map[string]string{"offer_id": offerID},
	)
}

func (s *notificationService) NotifyOfferResponded(advertiserID, offerID string, status models.OfferStatus) {
	var message string
	switch status {
	case models.OfferStatusAccepted:
		message = "Блогер принял ваше предложение"
	case models.OfferStatusDeclined:
		message = "Блогер отклонил ваше предложение"
	case models.OfferStatusCountered:
		message = "Блогер предложил встречные условия"
	default:
		message = "Статус предложения изменился"
	}
	s.create(advertiserID, NotificationTypeOfferResponded,
		"Ответ на предложение", message,
		map[string]string{"offer_id": offerID, "status": string(status)},
	)
}

func (s *notificationService) NotifyApplicationStatus(influencerID, campaignTitle string, status models.ApplicationStatus) {
	var message string
	switch status {
	case models.ApplicationStatusAccepted:
		message = fmt.Sprintf("Ваш отклик на кампанию «%s» принят", campaignTitle)
	case models.ApplicationStatusDeclined:
		message = fmt.Sprintf("Ваш отклик на кампанию «%s» отклонен", campaignTitle)
	default:
		message = fmt.Sprintf("Статус отклика на кампанию «%s» изменился", campaignTitle)
	}
	s.create(influencerID, NotificationTypeApplicationStatus,
		"Отклик на кампанию", message, nil)
}

func (s *notificationService) NotifyPaymentStatus(userID, paymentRequestID string, status models.PaymentStatus) {
	s.create(userID, NotificationTypePaymentStatus,
		"Окно оплаты",
		fmt.Sprintf("Статус оплаты изменился: %s", status),
		map[string]string{"payment_request_id": paymentRequestID, "status": string(status)},
	)
}

func (s *notificationService) NotifyReviewReceived(subjectID, reviewID string) {
	s.create(subjectID, NotificationTypeReviewReceived,
		"Новый отзыв",
		"О вас оставлен отзыв. Он появится в профиле после модерации.",
		map[string]string{"review_id": reviewID},
	)
}

func (s *notificationService) NotifyReviewModerated(authorID, reviewID string, status models.ReviewStatus) {
	message := "Ваш отзыв опубликован"
	if status == models.ReviewStatusRejected {
		message = "Ваш отзыв отклонен модератором"
	}
	s.create(authorID, NotificationTypeReviewModerated,
		"Модерация отзыва", message,
		map[string]string{"review_id": reviewID, "status": string(status)},
	)
}

func (s *notificationService) create(userID, notifType, title, message string, data map[string]string) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.WithError(err).Error("не удалось создать уведомление",
			"user_id", userID, "type", notifType)
	}
}
