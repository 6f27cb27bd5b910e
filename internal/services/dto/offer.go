package dto

import "admarket_backend/internal/models"

// CreateOfferRequest - прямое предложение рекламодателя блогеру
type CreateOfferRequest struct {
	InfluencerID string  `json:"influencer_id" binding:"required,uuid"`
	Brief        string  `json:"brief" binding:"required,min=10,max=5000"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Currency     string  `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// OfferDecisionRequest - ответ блогера на предложение.
// counter требует counter_amount.
type OfferDecisionRequest struct {
	Action        string   `json:"action" binding:"required,oneof=accept decline counter"`
	CounterAmount *float64 `json:"counter_amount,omitempty" binding:"omitempty,gt=0"`
	CounterNote   *string  `json:"counter_note,omitempty" binding:"omitempty,max=2000"`
}

// OfferResponse - представление предложения в API
type OfferResponse struct {
	ID            string             `json:"id"`
	AdvertiserID  string             `json:"advertiser_id"`
	InfluencerID  string             `json:"influencer_id"`
	Brief         string             `json:"brief"`
	Amount        float64            `json:"amount"`
	Currency      string             `json:"currency"`
	CounterAmount *float64           `json:"counter_amount,omitempty"`
	CounterNote   *string            `json:"counter_note,omitempty"`
	Status        models.OfferStatus `json:"status"`
}
