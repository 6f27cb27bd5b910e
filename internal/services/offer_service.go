package services

import (
	"context"
	"fmt"
	"time"

	"admarket_backend/internal/logger"
	"admarket_backend/internal/models"
	"admarket_backend/internal/ratelimit"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"
)

const (
	offerUpdateAttempts = 3
	offerRetryBackoff   = 50 * time.Millisecond
)

type OfferService interface {
	CreateOffer(ctx context.Context, advertiserID string, req *dto.CreateOfferRequest) (*dto.OfferResponse, error)
	GetOffer(userID, offerID string) (*dto.OfferResponse, error)
	ListMyOffers(userID string) ([]dto.OfferResponse, error)
	RespondToOffer(influencerID, offerID string, req *dto.OfferDecisionRequest) (*dto.OfferResponse, error)
	AcceptCounter(advertiserID, offerID string) (*dto.OfferResponse, error)
	WithdrawOffer(advertiserID, offerID string) error
	CompleteOffer(advertiserID, offerID string) error
	CancelOffer(userID, offerID string) error
}

type offerService struct {
	offerRepo           repositories.OfferRepository
	profileRepo         repositories.ProfileRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
	limiter             ratelimit.Limiter
	offersPerMinute     int
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	limiter ratelimit.Limiter,
	offersPerMinute int,
) OfferService {
	return &offerService{
		offerRepo:           offerRepo,
		profileRepo:         profileRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		limiter:             limiter,
		offersPerMinute:     offersPerMinute,
	}
}

// CreateOffer создает прямое предложение блогеру. Создание ограничено
// общим счетчиком: лимит на отправителя в минуту, разделяемый между
// инстансами через Redis.
func (s *offerService) CreateOffer(ctx context.Context, advertiserID string, req *dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	allowed, err := s.limiter.Allow(ctx, "offers:"+advertiserID, s.offersPerMinute, time.Minute)
	if err != nil {
		// Недоступный лимитер не должен блокировать продукт
		logger.WithError(err).Warn("rate limiter недоступен, пропускаем проверку", "user_id", advertiserID)
	} else if !allowed {
		return nil, apperrors.ErrRateLimited("offer",
			"слишком много предложений, попробуйте через минуту")
	}

	advertiser, err := s.userRepo.FindByID(advertiserID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if advertiser.Role != models.UserRoleAdvertiser {
		return nil, apperrors.ErrInvalidUserRole
	}

	influencer, err := s.profileRepo.FindInfluencerByUserID(req.InfluencerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !influencer.IsPublic {
		return nil, apperrors.ErrProfileNotPublic
	}

	offer := &models.Offer{
		AdvertiserID: advertiserID,
		InfluencerID: req.InfluencerID,
		Brief:        req.Brief,
		Amount:       req.Amount,
		Currency:     defaultCurrency(req.Currency),
		Status:       models.OfferStatusPending,
	}
	if err := s.offerRepo.Create(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	companyName := ""
	if profile, perr := s.profileRepo.FindAdvertiserByUserID(advertiserID); perr == nil {
		companyName = profile.CompanyName
	}
	s.notificationService.NotifyOfferReceived(req.InfluencerID, offer.ID, companyName, offer.Amount)

	return buildOfferResponse(offer), nil
}

func (s *offerService) GetOffer(userID, offerID string) (*dto.OfferResponse, error) {
	offer, err := s.loadForParticipant(userID, offerID)
	if err != nil {
		return nil, err
	}
	return buildOfferResponse(offer), nil
}

func (s *offerService) ListMyOffers(userID string) ([]dto.OfferResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	var offers []models.Offer
	switch user.Role {
	case models.UserRoleAdvertiser:
		offers, err = s.offerRepo.FindByAdvertiser(userID)
	case models.UserRoleInfluencer:
		offers, err = s.offerRepo.FindByInfluencer(userID)
	default:
		return nil, apperrors.ErrInvalidUserRole
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		out = append(out, *buildOfferResponse(&offers[i]))
	}
	return out, nil
}

// RespondToOffer - ответ блогера на ожидающее предложение:
// accept, decline или counter со встречной суммой.
func (s *offerService) RespondToOffer(influencerID, offerID string, req *dto.OfferDecisionRequest) (*dto.OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if offer.InfluencerID != influencerID {
		return nil, apperrors.NewForbiddenError("Only the offer recipient can respond")
	}
	if offer.Status != models.OfferStatusPending {
		return nil, apperrors.ErrInvalidStatus("offer",
			fmt.Sprintf("ответить можно только на ожидающее предложение (текущий статус '%s')", offer.Status))
	}

	var status models.OfferStatus
	switch req.Action {
	case "accept":
		status = models.OfferStatusAccepted
	case "decline":
		status = models.OfferStatusDeclined
	case "counter":
		if req.CounterAmount == nil {
			return nil, apperrors.ErrInvalidOperation("offer",
				"для встречного предложения нужна сумма counter_amount")
		}
		status = models.OfferStatusCountered
	}

	if err := s.updateStatusWithRetry(offerID, status, req.CounterAmount, req.CounterNote); err != nil {
		return nil, err
	}

	s.notificationService.NotifyOfferResponded(offer.AdvertiserID, offerID, status)

	updated, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildOfferResponse(updated), nil
}

// AcceptCounter - рекламодатель соглашается на встречные условия.
// Сумма предложения заменяется встречной.
func (s *offerService) AcceptCounter(advertiserID, offerID string) (*dto.OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if offer.AdvertiserID != advertiserID {
		return nil, apperrors.NewForbiddenError("Only the offer author can accept the counter")
	}
	if offer.Status != models.OfferStatusCountered || offer.CounterAmount == nil {
		return nil, apperrors.ErrInvalidStatus("offer", "встречных условий нет")
	}

	offer.Amount = *offer.CounterAmount
	offer.Status = models.OfferStatusAccepted
	if err := s.offerRepo.Update(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.NotifyOfferResponded(offer.InfluencerID, offerID, models.OfferStatusAccepted)
	return buildOfferResponse(offer), nil
}

func (s *offerService) WithdrawOffer(advertiserID, offerID string) error {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if offer.AdvertiserID != advertiserID {
		return apperrors.NewForbiddenError("Only the offer author can withdraw it")
	}
	if offer.Status != models.OfferStatusPending && offer.Status != models.OfferStatusCountered {
		return apperrors.ErrInvalidStatus("offer",
			fmt.Sprintf("отозвать можно только ожидающее предложение (текущий статус '%s')", offer.Status))
	}

	return s.updateStatusWithRetry(offerID, models.OfferStatusWithdrawn, nil, nil)
}

func (s *offerService) CompleteOffer(advertiserID, offerID string) error {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if offer.AdvertiserID != advertiserID {
		return apperrors.NewForbiddenError("Only the offer author can complete it")
	}
	if offer.Status != models.OfferStatusAccepted {
		return apperrors.ErrInvalidStatus("offer", "завершить можно только принятое предложение")
	}

	return s.updateStatusWithRetry(offerID, models.OfferStatusCompleted, nil, nil)
}

func (s *offerService) CancelOffer(userID, offerID string) error {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if offer.AdvertiserID != userID && offer.InfluencerID != userID {
		return apperrors.NewForbiddenError("Access to offer denied")
	}
	if offer.Status != models.OfferStatusAccepted {
		return apperrors.ErrInvalidStatus("offer", "отменить можно только принятое предложение")
	}

	return s.updateStatusWithRetry(offerID, models.OfferStatusCancelled, nil, nil)
}

// updateStatusWithRetry оборачивает одиночный UPDATE оптимистичным
// ретраем: 3 попытки с линейной задержкой между ними.
func (s *offerService) updateStatusWithRetry(offerID string, status models.OfferStatus, counterAmount *float64, counterNote *string) error {
	var lastErr error
	for attempt := 1; attempt <= offerUpdateAttempts; attempt++ {
		lastErr = s.offerRepo.UpdateStatus(offerID, status, counterAmount, counterNote)
		if lastErr == nil {
			return nil
		}
		if lastErr == repositories.ErrOfferNotFound {
			return apperrors.ErrNotFound(lastErr)
		}

		logger.WithError(lastErr).Warn("не удалось обновить статус предложения, повтор",
			"offer_id", offerID, "attempt", attempt)
		time.Sleep(time.Duration(attempt) * offerRetryBackoff)
	}
	return apperrors.InternalError(lastErr)
}

func (s *offerService) loadForParticipant(userID, offerID string) (*models.Offer, error) {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if offer.AdvertiserID != userID && offer.InfluencerID != userID {
		return nil, apperrors.NewForbiddenError("Access to offer denied")
	}
	return offer, nil
}

func buildOfferResponse(o *models.Offer) *dto.OfferResponse {
	return &dto.OfferResponse{
		ID:            o.ID,
		AdvertiserID:  o.AdvertiserID,
		InfluencerID:  o.InfluencerID,
		Brief:         o.Brief,
		Amount:        o.Amount,
		Currency:      o.Currency,
		CounterAmount: o.CounterAmount,
		CounterNote:   o.CounterNote,
		Status:        o.Status,
	}
}
