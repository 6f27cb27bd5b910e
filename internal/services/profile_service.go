package services

import (
	"encoding/json"

	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type ProfileService interface {
	GetInfluencerProfile(viewerID, userID string) (*dto.InfluencerProfileResponse, error)
	GetAdvertiserProfile(userID string) (*dto.AdvertiserProfileResponse, error)
	UpdateInfluencerProfile(userID string, req *dto.UpdateInfluencerProfileRequest) (*dto.InfluencerProfileResponse, error)
	UpdateAdvertiserProfile(userID string, req *dto.UpdateAdvertiserProfileRequest) (*dto.AdvertiserProfileResponse, error)
	ListPublicInfluencers(query *dto.ListQuery) ([]dto.InfluencerProfileResponse, int64, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

// GetInfluencerProfile отдает анкету. Закрытая анкета видна только владельцу.
func (s *profileService) GetInfluencerProfile(viewerID, userID string) (*dto.InfluencerProfileResponse, error) {
	profile, err := s.profileRepo.FindInfluencerByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if !profile.IsPublic && viewerID != userID {
		return nil, apperrors.ErrProfileNotPublic
	}

	return buildInfluencerResponse(profile), nil
}

func (s *profileService) GetAdvertiserProfile(userID string) (*dto.AdvertiserProfileResponse, error) {
	profile, err := s.profileRepo.FindAdvertiserByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildAdvertiserResponse(profile), nil
}

func (s *profileService) UpdateInfluencerProfile(userID string, req *dto.UpdateInfluencerProfileRequest) (*dto.InfluencerProfileResponse, error) {
	profile, err := s.profileRepo.FindInfluencerByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Topics != nil {
		raw, merr := json.Marshal(req.Topics)
		if merr != nil {
			return nil, apperrors.InternalError(merr)
		}
		profile.Topics = datatypes.JSON(raw)
	}
	if req.AudienceSize != nil {
		profile.AudienceSize = *req.AudienceSize
	}
	if req.Platforms != nil {
		raw, merr := json.Marshal(req.Platforms)
		if merr != nil {
			return nil, apperrors.InternalError(merr)
		}
		profile.Platforms = datatypes.JSON(raw)
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}

	if err := s.profileRepo.UpdateInfluencerProfile(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildInfluencerResponse(profile), nil
}

func (s *profileService) UpdateAdvertiserProfile(userID string, req *dto.UpdateAdvertiserProfileRequest) (*dto.AdvertiserProfileResponse, error) {
	profile, err := s.profileRepo.FindAdvertiserByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.About != nil {
		profile.About = *req.About
	}

	if err := s.profileRepo.UpdateAdvertiserProfile(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildAdvertiserResponse(profile), nil
}

func (s *profileService) ListPublicInfluencers(query *dto.ListQuery) ([]dto.InfluencerProfileResponse, int64, error) {
	query.Normalize()

	profiles, total, err := s.profileRepo.FindPublicInfluencers(query.PageSize, query.Offset())
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.InfluencerProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, *buildInfluencerResponse(&profiles[i]))
	}
	return out, total, nil
}

// --- builders ---

func buildInfluencerResponse(p *models.InfluencerProfile) *dto.InfluencerProfileResponse {
	resp := &dto.InfluencerProfileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		City:         p.City,
		AudienceSize: p.AudienceSize,
		Rating:       p.Rating,
		ReviewCount:  p.ReviewCount,
	}
	if len(p.Topics) > 0 {
		_ = json.Unmarshal(p.Topics, &resp.Topics)
	}
	if len(p.Platforms) > 0 {
		_ = json.Unmarshal(p.Platforms, &resp.Platforms)
	}
	return resp
}

func buildAdvertiserResponse(p *models.AdvertiserProfile) *dto.AdvertiserProfileResponse {
	return &dto.AdvertiserProfileResponse{
		UserID:      p.UserID,
		CompanyName: p.CompanyName,
		Website:     p.Website,
		City:        p.City,
		About:       p.About,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		IsVerified:  p.IsVerified,
	}
}
