package handlers

// AppHandlers содержит все HTTP-хендлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProfileHandler      *ProfileHandler
	CampaignHandler     *CampaignHandler
	OfferHandler        *OfferHandler
	PaymentHandler      *PaymentHandler
	ChatHandler         *ChatHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
	AdminHandler        *AdminHandler
}
