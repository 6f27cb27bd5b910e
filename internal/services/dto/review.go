package dto

import (
	"time"

	"admarket_backend/internal/models"
)

// CreateReviewRequest - отзыв по завершенной сделке
type CreateReviewRequest struct {
	SubjectID        string  `json:"subject_id" binding:"required,uuid"`
	PaymentRequestID *string `json:"payment_request_id,omitempty" binding:"omitempty,uuid"`
	Rating           int     `json:"rating" binding:"required,min=1,max=5"`
	ReviewText       string  `json:"review_text,omitempty" binding:"omitempty,max=3000"`
}

// ModerateReviewRequest - решение модератора по отзыву
type ModerateReviewRequest struct {
	Status         models.ReviewStatus `json:"status" binding:"required,oneof=approved rejected"`
	ModerationNote string              `json:"moderation_note,omitempty" binding:"omitempty,max=1000"`
}

// ReviewResponse - публичное представление отзыва
type ReviewResponse struct {
	ID         string              `json:"id"`
	AuthorID   string              `json:"author_id"`
	SubjectID  string              `json:"subject_id"`
	Rating     int                 `json:"rating"`
	ReviewText string              `json:"review_text,omitempty"`
	Status     models.ReviewStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ReviewModerationFilter - очередь модерации
type ReviewModerationFilter struct {
	Status   models.ReviewStatus `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Page     int                 `form:"page" validate:"omitempty,min=1"`
	PageSize int                 `form:"page_size" validate:"omitempty,min=1,max=100"`
}
