package validator

import (
	"admarket_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Кастомные правила для доменных enum'ов. Регистрируются при создании
// валидатора; пустое значение пропускают omitempty-теги.
func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("is-user-role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(fl.Field().String()) {
		case models.UserRoleInfluencer, models.UserRoleAdvertiser, models.UserRoleAdmin:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("is-user-status", func(fl validator.FieldLevel) bool {
		switch models.UserStatus(fl.Field().String()) {
		case models.UserStatusPending, models.UserStatusActive,
			models.UserStatusSuspended, models.UserStatusBanned:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("is-campaign-status", func(fl validator.FieldLevel) bool {
		switch models.CampaignStatus(fl.Field().String()) {
		case models.CampaignStatusDraft, models.CampaignStatusActive,
			models.CampaignStatusClosed, models.CampaignStatusCancelled:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("is-payment-status", func(fl validator.FieldLevel) bool {
		switch models.PaymentStatus(fl.Field().String()) {
		case models.PaymentStatusPending, models.PaymentStatusPaying,
			models.PaymentStatusPaid, models.PaymentStatusFailed,
			models.PaymentStatusConfirmed, models.PaymentStatusCompleted,
			models.PaymentStatusCancelled:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("is-payment-type", func(fl validator.FieldLevel) bool {
		switch models.PaymentType(fl.Field().String()) {
		case models.PaymentTypeFullPrepay, models.PaymentTypePartialPrepayPostpay,
			models.PaymentTypePostpay:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("is-payment-stage", func(fl validator.FieldLevel) bool {
		switch models.PaymentStage(fl.Field().String()) {
		case models.PaymentStagePrepay, models.PaymentStagePostpay:
			return true
		}
		return false
	})
}
