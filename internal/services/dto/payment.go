package dto

import (
	"time"

	"admarket_backend/internal/models"
)

// CreatePaymentRequestDTO - создание окна оплаты блогером
type CreatePaymentRequestDTO struct {
	PayerID              string  `json:"payer_id" binding:"required,uuid"`
	RelatedOfferID       *string `json:"related_offer_id,omitempty" binding:"omitempty,uuid"`
	RelatedApplicationID *string `json:"related_application_id,omitempty" binding:"omitempty,uuid"`

	Amount         float64            `json:"amount" binding:"required,gt=0"`
	Currency       string             `json:"currency,omitempty" binding:"omitempty,len=3"`
	PaymentType    models.PaymentType `json:"payment_type,omitempty" validate:"omitempty,is-payment-type"`
	PaymentDetails string             `json:"payment_details" binding:"required,min=5,max=5000"`
}

// UpdatePaymentStatusDTO - ролевой переход статуса окна оплаты
type UpdatePaymentStatusDTO struct {
	Status models.PaymentStatus `json:"status" binding:"required" validate:"is-payment-status"`
	Note   string               `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// EditPaymentRequestDTO - правка окна оплаты. Разрешена только
// в редактируемых статусах (pending, failed).
type EditPaymentRequestDTO struct {
	Amount         *float64             `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Currency       *string              `json:"currency,omitempty" binding:"omitempty,len=3"`
	PaymentType    *models.PaymentType  `json:"payment_type,omitempty" validate:"omitempty,is-payment-type"`
	PaymentStage   *models.PaymentStage `json:"payment_stage,omitempty" validate:"omitempty,is-payment-stage"`
	PaymentDetails *string              `json:"payment_details,omitempty" binding:"omitempty,min=5,max=5000"`
}

// PaymentRequestResponse - представление окна оплаты в API
type PaymentRequestResponse struct {
	ID                   string  `json:"id"`
	PayerID              string  `json:"payer_id"`
	PayeeID              string  `json:"payee_id"`
	RelatedOfferID       *string `json:"related_offer_id,omitempty"`
	RelatedApplicationID *string `json:"related_application_id,omitempty"`

	Amount         float64             `json:"amount"`
	Currency       string              `json:"currency"`
	PaymentType    models.PaymentType  `json:"payment_type"`
	PaymentStage   models.PaymentStage `json:"payment_stage"`
	PaymentDetails string              `json:"payment_details"`

	Status     models.PaymentStatus         `json:"status"`
	IsEditable bool                         `json:"is_editable"`
	History    []models.PaymentStatusChange `json:"history,omitempty"`

	// Статусы, в которые текущий пользователь может перевести окно
	AvailableTransitions []models.PaymentStatus `json:"available_transitions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminPaymentFilter - фильтр окон оплаты в админке
type AdminPaymentFilter struct {
	Status   models.PaymentStatus `form:"status" validate:"omitempty,is-payment-status"`
	Page     int                  `form:"page" validate:"omitempty,min=1"`
	PageSize int                  `form:"page_size" validate:"omitempty,min=1,max=100"`
}
