package services

import (
	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"
)

type CampaignService interface {
	CreateCampaign(advertiserID string, req *dto.CreateCampaignRequest) (*models.Campaign, error)
	GetCampaign(campaignID string) (*models.Campaign, error)
	ListActiveCampaigns(query *dto.ListQuery) ([]models.Campaign, int64, error)
	ListMyCampaigns(advertiserID string) ([]models.Campaign, error)
	UpdateCampaign(advertiserID, campaignID string, req *dto.UpdateCampaignRequest) (*models.Campaign, error)
	SetCampaignStatus(advertiserID, campaignID string, status models.CampaignStatus) error
}

type campaignService struct {
	campaignRepo repositories.CampaignRepository
	userRepo     repositories.UserRepository
}

func NewCampaignService(
	campaignRepo repositories.CampaignRepository,
	userRepo repositories.UserRepository,
) CampaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
	}
}

func (s *campaignService) CreateCampaign(advertiserID string, req *dto.CreateCampaignRequest) (*models.Campaign, error) {
	user, err := s.userRepo.FindByID(advertiserID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if user.Role != models.UserRoleAdvertiser {
		return nil, apperrors.ErrInvalidUserRole
	}

	campaign := &models.Campaign{
		AdvertiserID: advertiserID,
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		Currency:     defaultCurrency(req.Currency),
		Topics:       req.Topics,
		Deadline:     req.Deadline,
		Status:       models.CampaignStatusDraft,
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return campaign, nil
}

func (s *campaignService) GetCampaign(campaignID string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return campaign, nil
}

func (s *campaignService) ListActiveCampaigns(query *dto.ListQuery) ([]models.Campaign, int64, error) {
	query.Normalize()

	campaigns, total, err := s.campaignRepo.FindActive(query.PageSize, query.Offset())
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return campaigns, total, nil
}

func (s *campaignService) ListMyCampaigns(advertiserID string) ([]models.Campaign, error) {
	campaigns, err := s.campaignRepo.FindByAdvertiser(advertiserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return campaigns, nil
}

// UpdateCampaign правит кампанию владельца. Закрытые и отмененные
// кампании неизменяемы.
func (s *campaignService) UpdateCampaign(advertiserID, campaignID string, req *dto.UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if campaign.AdvertiserID != advertiserID {
		return nil, apperrors.NewForbiddenError("Only the campaign owner can edit it")
	}
	if campaign.Status == models.CampaignStatusClosed || campaign.Status == models.CampaignStatusCancelled {
		return nil, apperrors.ErrInvalidCampaignStatus
	}

	if req.Title != nil {
		campaign.Title = *req.Title
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Budget != nil {
		campaign.Budget = *req.Budget
	}
	if req.Topics != nil {
		campaign.Topics = *req.Topics
	}
	if req.Deadline != nil {
		campaign.Deadline = req.Deadline
	}

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return campaign, nil
}

func (s *campaignService) SetCampaignStatus(advertiserID, campaignID string, status models.CampaignStatus) error {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if campaign.AdvertiserID != advertiserID {
		return apperrors.NewForbiddenError("Only the campaign owner can change its status")
	}

	if !campaignTransitionAllowed(campaign.Status, status) {
		return apperrors.ErrInvalidCampaignStatus
	}

	if err := s.campaignRepo.UpdateStatus(campaignID, status); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Жизненный цикл кампании: draft→active|cancelled, active→closed|cancelled.
func campaignTransitionAllowed(from, to models.CampaignStatus) bool {
	switch from {
	case models.CampaignStatusDraft:
		return to == models.CampaignStatusActive || to == models.CampaignStatusCancelled
	case models.CampaignStatusActive:
		return to == models.CampaignStatusClosed || to == models.CampaignStatusCancelled
	}
	return false
}
