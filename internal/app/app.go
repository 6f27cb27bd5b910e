package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"admarket_backend/database"
	"admarket_backend/internal/config"
	"admarket_backend/internal/email"
	"admarket_backend/internal/events"
	"admarket_backend/internal/handlers"
	"admarket_backend/internal/logger"
	"admarket_backend/internal/middleware"
	"admarket_backend/internal/models"
	"admarket_backend/internal/ratelimit"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/routes"
	"admarket_backend/internal/services"
	"admarket_backend/internal/validator"
	"admarket_backend/internal/workers"
	"admarket_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	publisher := buildPublisher(cfg)
	defer publisher.Close()

	ginRouter, svc := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, cfg, gormDB, svc, publisher)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает полный граф зависимостей и возвращает роутер
// вместе с контейнером сервисов (он нужен воркерам и тестам).
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	limiter := buildLimiter(cfg)
	emailProvider := buildEmailProvider(cfg)

	wsManager := ws.NewManager()
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager)

	svc := initializeServices(gormDB, cfg, limiter, emailProvider, wsManager)
	appHandlers := initializeHandlers(svc, gormDB)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, svc
}

func initializeServices(
	gormDB *gorm.DB,
	cfg *config.Config,
	limiter ratelimit.Limiter,
	emailProvider email.Provider,
	pusher services.RealtimePusher,
) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	campaignRepo := repositories.NewCampaignRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	offerRepo := repositories.NewOfferRepository(gormDB)
	paymentRepo := repositories.NewPaymentRequestRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	notificationService := services.NewNotificationService(notificationRepo)

	return &services.ServiceContainer{
		AuthService:           services.NewAuthService(userRepo, profileRepo, refreshTokenRepo, emailProvider),
		UserService:           services.NewUserService(userRepo, profileRepo),
		ProfileService:        services.NewProfileService(profileRepo),
		CampaignService:       services.NewCampaignService(campaignRepo, userRepo),
		ApplicationService:    services.NewApplicationService(applicationRepo, campaignRepo, userRepo, notificationService),
		OfferService:          services.NewOfferService(offerRepo, profileRepo, userRepo, notificationService, limiter, cfg.RateLimit.OffersPerMinute),
		PaymentRequestService: services.NewPaymentRequestService(paymentRepo, userRepo),
		ChatService:           services.NewChatService(chatRepo, userRepo, pusher, limiter, cfg.RateLimit.MessagesPerMinute),
		ReviewService:         services.NewReviewService(reviewRepo, paymentRepo, userRepo, profileRepo, notificationService),
		NotificationService:   notificationService,
		EmailService:          emailProvider,
	}
}

func initializeHandlers(svc *services.ServiceContainer, gormDB *gorm.DB) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	outboxRepo := repositories.NewOutboxRepository(gormDB)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService, svc.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, svc.ProfileService),
		CampaignHandler:     handlers.NewCampaignHandler(baseHandler, svc.CampaignService, svc.ApplicationService),
		OfferHandler:        handlers.NewOfferHandler(baseHandler, svc.OfferService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, svc.PaymentRequestService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, svc.ChatService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, svc.ReviewService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, svc.UserService, svc.ReviewService, svc.PaymentRequestService, outboxRepo),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func startWorkers(
	ctx context.Context,
	cfg *config.Config,
	gormDB *gorm.DB,
	svc *services.ServiceContainer,
	publisher events.Publisher,
) {
	outboxWorker := workers.NewOutboxWorker(
		repositories.NewOutboxRepository(gormDB),
		svc.ChatService,
		svc.NotificationService,
		publisher,
		time.Duration(cfg.Outbox.PollIntervalSeconds)*time.Second,
		cfg.Outbox.MaxAttempts,
	)
	go outboxWorker.Start(ctx)

	maintenanceWorker := workers.NewMaintenanceWorker(
		repositories.NewCampaignRepository(gormDB),
		repositories.NewRefreshTokenRepository(gormDB),
		repositories.NewNotificationRepository(gormDB),
	)
	go maintenanceWorker.Start(ctx)
}

// buildLimiter выбирает счетчик лимитов: Redis, если адрес задан
// (общий между инстансами), иначе in-memory.
func buildLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS не сконфигурирован, rate limit считается локально в памяти")
		return ratelimit.NewMemoryLimiter()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("Redis rate limiter configured", "addr", cfg.Redis.Addr)
	return ratelimit.NewRedisLimiter(client)
}

func buildPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NoopPublisher{}
	}
	logger.Info("Kafka publisher configured", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP не сконфигурирован, письма не отправляются")
		return email.NoopProvider{}
	}

	smtpConfig := email.DefaultConfig()
	smtpConfig.Host = cfg.Email.SMTPHost
	smtpConfig.Port = cfg.Email.SMTPPort
	smtpConfig.Username = cfg.Email.SMTPUsername
	smtpConfig.Password = cfg.Email.SMTPPassword
	smtpConfig.FromEmail = cfg.Email.FromEmail
	smtpConfig.FromName = cfg.Email.FromName
	smtpConfig.UseTLS = cfg.Email.UseTLS
	return email.NewSMTPProvider(smtpConfig)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email / first_admin_password не заданы, пропускаем создание админа")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
