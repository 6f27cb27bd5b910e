package integration_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"admarket_backend/internal/events"
	"admarket_backend/internal/models"
	chatmodels "admarket_backend/internal/models/chat"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services"
	"admarket_backend/internal/workers"
	"admarket_backend/test/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Смена статуса пишет outbox-событие в одной транзакции, воркер доставляет
// его: интерактивное сообщение в чат + in-app уведомление.
func TestOutbox_WorkerDeliversPaymentNotification(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)

	// Рекламодатель начинает оплату — в outbox ложится событие
	res, bodyStr := ts.SendRequest(t, http.MethodPut,
		fmt.Sprintf("/api/v1/payment-requests/%s/status", pr.ID), advToken,
		map[string]interface{}{"status": "paying", "note": "перевожу сегодня"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var pending int64
	require.NoError(t, ts.DB.Model(&models.OutboxEvent{}).
		Where("payload->>'payment_request_id' = ? AND status = ?", pr.ID, models.OutboxStatusPending).
		Count(&pending).Error)
	require.EqualValues(t, 1, pending, "событие записано вместе со сменой статуса")

	// Поднимаем воркер с коротким poll-интервалом
	worker := workers.NewOutboxWorker(
		repositories.NewOutboxRepository(ts.DB),
		ts.Services.ChatService,
		ts.Services.NotificationService,
		events.NoopPublisher{},
		20*time.Millisecond,
		5,
	)
	ctx, cancel := context.WithCancel(context.Background())
	go worker.Start(ctx)
	defer cancel()

	// Событие уходит в sent
	require.Eventually(t, func() bool {
		var sent int64
		ts.DB.Model(&models.OutboxEvent{}).
			Where("payload->>'payment_request_id' = ? AND status = ?", pr.ID, models.OutboxStatusSent).
			Count(&sent)
		return sent == 1
	}, 3*time.Second, 50*time.Millisecond, "воркер должен доставить событие")

	// В диалоге сторон появилось интерактивное сообщение
	var message chatmodels.Message
	require.NoError(t, ts.DB.
		Where("type = ? AND data->>'payment_request_id' = ?", chatmodels.MessageTypePayment, pr.ID).
		First(&message).Error)
	assert.Contains(t, message.Content, "Статус оплаты: paying")
	assert.Contains(t, message.Content, "перевожу сегодня")
	assert.Contains(t, string(message.Data), `"actions"`)

	// Блогер получил in-app уведомление о смене статуса
	var notifCount int64
	require.NoError(t, ts.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", influencer.ID, "payment_status").
		Count(&notifCount).Error)
	assert.GreaterOrEqual(t, notifCount, int64(1))
}

// Повторная доставка одного outbox-события (например, после падения
// внешней публикации) не дублирует сообщение в чате.
func TestOutbox_RedeliveryDoesNotDuplicateChatMessage(t *testing.T) {
	ts := GetTestServer(t)

	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPaying)

	eventID := uuid.NewString()
	payload := services.PaymentOutboxPayload{
		PaymentRequestID: pr.ID,
		PayerID:          advertiser.ID,
		PayeeID:          influencer.ID,
		ActorID:          advertiser.ID,
		RecipientID:      influencer.ID,
		Status:           models.PaymentStatusPaying,
		Amount:           pr.Amount,
		Currency:         pr.Currency,
	}

	require.NoError(t, ts.Services.ChatService.SendPaymentNotification(eventID, &payload))
	require.NoError(t, ts.Services.ChatService.SendPaymentNotification(eventID, &payload))

	var count int64
	require.NoError(t, ts.DB.Model(&chatmodels.Message{}).
		Where("data->>'outbox_event_id' = ?", eventID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "ретрай не должен создавать второе сообщение")
}

// Недоставляемое событие копит попытки и после лимита уходит в failed.
func TestOutbox_FailedAttemptsRespectBackoff(t *testing.T) {
	ts := GetTestServer(t)

	outboxRepo := repositories.NewOutboxRepository(ts.DB)

	event := &models.OutboxEvent{
		Type:    "payment.status_changed",
		Payload: []byte(`{"payment_request_id": "00000000-0000-0000-0000-000000000000"}`),
		Status:  models.OutboxStatusPending,
	}
	require.NoError(t, outboxRepo.Create(event))

	backoff := time.Minute
	deliveryErr := fmt.Errorf("получатель недоступен")

	// Первые попытки планируют повтор со сдвигом attempts * backoff
	require.NoError(t, outboxRepo.MarkFailedAttempt(event, deliveryErr, 3, backoff))
	var stored models.OutboxEvent
	require.NoError(t, ts.DB.First(&stored, "id = ?", event.ID).Error)
	assert.Equal(t, models.OutboxStatusPending, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	assert.Contains(t, stored.LastError, "получатель недоступен")
	assert.WithinDuration(t, time.Now().Add(backoff), stored.NextAttemptAt, 5*time.Second)

	// Отложенное событие не попадает в выборку FindDue
	due, err := outboxRepo.FindDue(100)
	require.NoError(t, err)
	for _, d := range due {
		assert.NotEqual(t, event.ID, d.ID, "событие с будущим next_attempt_at не должно выбираться")
	}

	// После исчерпания попыток - failed, виден в админской dead-letter выборке
	require.NoError(t, outboxRepo.MarkFailedAttempt(&stored, deliveryErr, 3, backoff))
	require.NoError(t, ts.DB.First(&stored, "id = ?", event.ID).Error)
	require.NoError(t, outboxRepo.MarkFailedAttempt(&stored, deliveryErr, 3, backoff))

	require.NoError(t, ts.DB.First(&stored, "id = ?", event.ID).Error)
	assert.Equal(t, models.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 3, stored.Attempts)
}
