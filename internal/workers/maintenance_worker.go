package workers

import (
	"context"
	"time"

	"admarket_backend/internal/logger"
	"admarket_backend/internal/repositories"
)

// Старые прочитанные уведомления храним три месяца.
const notificationRetentionDays = 90

// MaintenanceWorker выполняет периодические фоновые задачи:
// автозакрытие кампаний с прошедшим дедлайном, чистку протухших
// refresh-токенов и старых уведомлений.
type MaintenanceWorker struct {
	campaignRepo     repositories.CampaignRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notificationRepo repositories.NotificationRepository
}

func NewMaintenanceWorker(
	campaignRepo repositories.CampaignRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notificationRepo repositories.NotificationRepository,
) *MaintenanceWorker {
	return &MaintenanceWorker{
		campaignRepo:     campaignRepo,
		refreshTokenRepo: refreshTokenRepo,
		notificationRepo: notificationRepo,
	}
}

func (w *MaintenanceWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	logger.Info("maintenance worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("maintenance worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *MaintenanceWorker) runOnce() {
	if n, err := w.campaignRepo.CloseExpired(); err != nil {
		logger.WorkerLog("maintenance", "close_expired_campaigns", err)
	} else if n > 0 {
		logger.Info("закрыты кампании с истекшим дедлайном", "count", n)
	}

	if _, err := w.refreshTokenRepo.DeleteExpired(); err != nil {
		logger.WorkerLog("maintenance", "delete_expired_tokens", err)
	}

	if _, err := w.notificationRepo.DeleteOld(notificationRetentionDays); err != nil {
		logger.WorkerLog("maintenance", "delete_old_notifications", err)
	}
}
