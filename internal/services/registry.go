package services

import "admarket_backend/internal/email"

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService           AuthService
	UserService           UserService
	ProfileService        ProfileService
	CampaignService       CampaignService
	ApplicationService    ApplicationService
	OfferService          OfferService
	PaymentRequestService PaymentRequestService
	ChatService           ChatService
	ReviewService         ReviewService
	NotificationService   NotificationService
	EmailService          email.Provider
}
