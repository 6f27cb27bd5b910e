package workers

import (
	"context"
	"encoding/json"
	"time"

	"admarket_backend/internal/events"
	"admarket_backend/internal/logger"
	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services"
)

const outboxBatchSize = 50

// OutboxWorker доставляет события, записанные в одной транзакции со
// сменой статуса окна оплаты: интерактивное сообщение в чат, in-app
// уведомление и публикация во внешний канал. Неудачная доставка
// планируется повторно с линейным backoff; после maxAttempts событие
// уходит в failed и видно в админке.
type OutboxWorker struct {
	outboxRepo          repositories.OutboxRepository
	chatService         services.ChatService
	notificationService services.NotificationService
	publisher           events.Publisher

	pollInterval time.Duration
	maxAttempts  int
	retryBackoff time.Duration
}

func NewOutboxWorker(
	outboxRepo repositories.OutboxRepository,
	chatService services.ChatService,
	notificationService services.NotificationService,
	publisher events.Publisher,
	pollInterval time.Duration,
	maxAttempts int,
) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo:          outboxRepo,
		chatService:         chatService,
		notificationService: notificationService,
		publisher:           publisher,
		pollInterval:        pollInterval,
		maxAttempts:         maxAttempts,
		retryBackoff:        30 * time.Second,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("outbox worker started", "poll_interval", w.pollInterval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) {
	batch, err := w.outboxRepo.FindDue(outboxBatchSize)
	if err != nil {
		logger.WorkerLog("outbox", "find_due", err)
		return
	}

	for i := range batch {
		event := &batch[i]
		if err := w.deliver(ctx, event); err != nil {
			logger.WorkerLog("outbox", "deliver", err)
			if mErr := w.outboxRepo.MarkFailedAttempt(event, err, w.maxAttempts, w.retryBackoff); mErr != nil {
				logger.WorkerLog("outbox", "mark_failed", mErr)
			}
			continue
		}
		if err := w.outboxRepo.MarkSent(event.ID); err != nil {
			logger.WorkerLog("outbox", "mark_sent", err)
		}
	}
}

// deliver выполняет все каналы доставки для одного события. Порядок
// фиксированный: сначала чат (основной канал), затем уведомление и
// внешняя публикация.
func (w *OutboxWorker) deliver(ctx context.Context, event *models.OutboxEvent) error {
	var payload services.PaymentOutboxPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	if err := w.chatService.SendPaymentNotification(event.ID, &payload); err != nil {
		return err
	}

	w.notificationService.NotifyPaymentStatus(payload.RecipientID, payload.PaymentRequestID, payload.Status)

	return w.publisher.Publish(ctx, events.PaymentEvent{
		PaymentRequestID: payload.PaymentRequestID,
		Status:           string(payload.Status),
		ChangedBy:        payload.ActorID,
		OccurredAt:       time.Now().UTC(),
	})
}
