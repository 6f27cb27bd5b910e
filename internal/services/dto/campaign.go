package dto

import (
	"time"

	"admarket_backend/internal/models"
)

// CreateCampaignRequest - создание кампании рекламодателем
type CreateCampaignRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"required,min=10"`
	Budget      float64    `json:"budget" binding:"required,gt=0"`
	Currency    string     `json:"currency,omitempty" binding:"omitempty,len=3"`
	Topics      string     `json:"topics,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateCampaignRequest - частичное обновление черновика кампании
type UpdateCampaignRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description,omitempty" binding:"omitempty,min=10"`
	Budget      *float64   `json:"budget,omitempty" binding:"omitempty,gt=0"`
	Topics      *string    `json:"topics,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// CampaignStatusRequest - смена статуса кампании владельцем
type CampaignStatusRequest struct {
	Status models.CampaignStatus `json:"status" binding:"required" validate:"is-campaign-status"`
}

// CreateApplicationRequest - отклик блогера на кампанию
type CreateApplicationRequest struct {
	Message       *string  `json:"message,omitempty" binding:"omitempty,max=2000"`
	ProposedPrice *float64 `json:"proposed_price,omitempty" binding:"omitempty,gt=0"`
}

// ApplicationDecisionRequest - решение рекламодателя по отклику
type ApplicationDecisionRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=accepted declined"`
}
