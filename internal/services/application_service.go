package services

import (
	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"
)

type ApplicationService interface {
	Apply(influencerID, campaignID string, req *dto.CreateApplicationRequest) (*models.Application, error)
	ListForCampaign(advertiserID, campaignID string) ([]models.Application, error)
	ListMyApplications(influencerID string) ([]models.Application, error)
	Decide(advertiserID, applicationID string, status models.ApplicationStatus) error
	Withdraw(influencerID, applicationID string) error
}

type applicationService struct {
	applicationRepo     repositories.ApplicationRepository
	campaignRepo        repositories.CampaignRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	campaignRepo repositories.CampaignRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo:     applicationRepo,
		campaignRepo:        campaignRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// Apply создает отклик блогера на активную кампанию. Повторный отклик
// на ту же кампанию запрещен.
func (s *applicationService) Apply(influencerID, campaignID string, req *dto.CreateApplicationRequest) (*models.Application, error) {
	user, err := s.userRepo.FindByID(influencerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if user.Role != models.UserRoleInfluencer {
		return nil, apperrors.ErrInvalidUserRole
	}

	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if campaign.Status != models.CampaignStatusActive {
		return nil, apperrors.ErrInvalidCampaignStatus
	}

	application := &models.Application{
		CampaignID:    campaignID,
		InfluencerID:  influencerID,
		Message:       req.Message,
		ProposedPrice: req.ProposedPrice,
		Status:        models.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(application); err != nil {
		if err == repositories.ErrAlreadyApplied {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return application, nil
}

func (s *applicationService) ListForCampaign(advertiserID, campaignID string) ([]models.Application, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if campaign.AdvertiserID != advertiserID {
		return nil, apperrors.NewForbiddenError("Only the campaign owner can view applications")
	}

	applications, err := s.applicationRepo.FindByCampaign(campaignID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return applications, nil
}

func (s *applicationService) ListMyApplications(influencerID string) ([]models.Application, error) {
	applications, err := s.applicationRepo.FindByInfluencer(influencerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return applications, nil
}

// Decide принимает или отклоняет отклик. Решение принимает только
// владелец кампании, и только по ожидающему отклику.
func (s *applicationService) Decide(advertiserID, applicationID string, status models.ApplicationStatus) error {
	if status != models.ApplicationStatusAccepted && status != models.ApplicationStatusDeclined {
		return apperrors.ErrInvalidOperation("application", "допустимые решения: accepted, declined")
	}

	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if application.Campaign == nil || application.Campaign.AdvertiserID != advertiserID {
		return apperrors.NewForbiddenError("Only the campaign owner can decide on applications")
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrInvalidStatus("application",
			"решение уже принято по этому отклику")
	}

	application.Status = status
	application.IsViewed = true
	if err := s.applicationRepo.Update(application); err != nil {
		return apperrors.InternalError(err)
	}

	title := ""
	if application.Campaign != nil {
		title = application.Campaign.Title
	}
	s.notificationService.NotifyApplicationStatus(application.InfluencerID, title, status)

	return nil
}

func (s *applicationService) Withdraw(influencerID, applicationID string) error {
	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if application.InfluencerID != influencerID {
		return apperrors.NewForbiddenError("Only the author can withdraw the application")
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrInvalidStatus("application",
			"отозвать можно только ожидающий отклик")
	}

	application.Status = models.ApplicationStatusWithdrawn
	if err := s.applicationRepo.Update(application); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
