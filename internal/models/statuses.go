package models

type UserStatus string
type UserRole string
type CampaignStatus string
type ApplicationStatus string
type OfferStatus string
type PaymentStatus string
type PaymentType string
type PaymentStage string
type ReviewStatus string
type OutboxStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleInfluencer UserRole = "influencer"
	UserRoleAdvertiser UserRole = "advertiser"
	UserRoleAdmin      UserRole = "admin"

	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusClosed    CampaignStatus = "closed"
	CampaignStatusCancelled CampaignStatus = "cancelled"

	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"

	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusDeclined  OfferStatus = "declined"
	OfferStatusCountered OfferStatus = "countered"
	OfferStatusCompleted OfferStatus = "completed"
	OfferStatusCancelled OfferStatus = "cancelled"
	OfferStatusWithdrawn OfferStatus = "withdrawn"

	// Статусы окна оплаты. completed и cancelled — финальные,
	// переходов из них нет (см. services.allowedPaymentTransitions).
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaying    PaymentStatus = "paying"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"

	PaymentTypeFullPrepay           PaymentType = "full_prepay"
	PaymentTypePartialPrepayPostpay PaymentType = "partial_prepay_postpay"
	PaymentTypePostpay              PaymentType = "postpay"

	PaymentStagePrepay  PaymentStage = "prepay"
	PaymentStagePostpay PaymentStage = "postpay"

	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"

	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// PaymentStatusEditable сообщает, можно ли редактировать окно оплаты
// в данном статусе. isEditable пересчитывается при каждой смене статуса.
func PaymentStatusEditable(s PaymentStatus) bool {
	return s == PaymentStatusPending || s == PaymentStatusFailed
}

// PaymentStatusTerminal — финальные статусы окна оплаты.
func PaymentStatusTerminal(s PaymentStatus) bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}
