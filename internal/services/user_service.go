package services

import (
	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"
)

type UserService interface {
	GetMe(userID string) (*dto.UserResponse, error)

	// Admin
	ListUsers(filter *dto.AdminUserFilter) ([]dto.UserDTO, int64, error)
	SetUserStatus(userID string, status models.UserStatus) error
}

type userService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
) UserService {
	return &userService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *userService) GetMe(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	resp := &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		Status:     user.Status,
		IsVerified: user.IsVerified,
	}

	switch user.Role {
	case models.UserRoleInfluencer:
		if profile, perr := s.profileRepo.FindInfluencerByUserID(userID); perr == nil {
			resp.Profile = profile
		}
	case models.UserRoleAdvertiser:
		if profile, perr := s.profileRepo.FindAdvertiserByUserID(userID); perr == nil {
			resp.Profile = profile
		}
	}

	return resp, nil
}

func (s *userService) ListUsers(filter *dto.AdminUserFilter) ([]dto.UserDTO, int64, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	users, total, err := s.userRepo.FindAll(filter.Role, filter.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserDTO{
			ID:         u.ID,
			Email:      u.Email,
			Role:       u.Role,
			Status:     u.Status,
			IsVerified: u.IsVerified,
			CreatedAt:  u.CreatedAt,
		})
	}
	return out, total, nil
}

func (s *userService) SetUserStatus(userID string, status models.UserStatus) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if user.Role == models.UserRoleAdmin {
		return apperrors.NewForbiddenError("Cannot change status of an admin account")
	}

	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
