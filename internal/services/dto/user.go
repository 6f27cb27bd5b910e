package dto

import "admarket_backend/internal/models"

// UserResponse содержит полные данные о пользователе вместе с профилем.
// Используется для эндпоинтов типа /users/me
type UserResponse struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Role       models.UserRole   `json:"role"`
	Status     models.UserStatus `json:"status"`
	IsVerified bool              `json:"is_verified"`
	Profile    interface{}       `json:"profile,omitempty"`
}

// AdminUserFilter - фильтрация пользователей администратором
type AdminUserFilter struct {
	Role     models.UserRole   `form:"role" validate:"omitempty,is-user-role"`
	Status   models.UserStatus `form:"status" validate:"omitempty,is-user-status"`
	Page     int               `form:"page" validate:"omitempty,min=1"`
	PageSize int               `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminUserStatusRequest - смена статуса пользователя администратором
type AdminUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required" validate:"is-user-status"`
	Reason string            `json:"reason,omitempty"`
}

// ChangePasswordRequest - смена пароля авторизованным пользователем
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
