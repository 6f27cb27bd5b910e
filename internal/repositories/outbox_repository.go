package repositories

import (
	"time"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	Create(event *models.OutboxEvent) error
	FindDue(limit int) ([]models.OutboxEvent, error)
	MarkSent(id string) error
	// MarkFailedAttempt увеличивает счетчик попыток и либо планирует
	// следующую (линейный backoff), либо переводит событие в failed.
	MarkFailedAttempt(event *models.OutboxEvent, attemptErr error, maxAttempts int, backoff time.Duration) error
	FindFailed(limit, offset int) ([]models.OutboxEvent, int64, error)
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(event *models.OutboxEvent) error {
	return r.db.Create(event).Error
}

func (r *outboxRepository) FindDue(limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.db.Where("status = ? AND next_attempt_at <= ?", models.OutboxStatusPending, time.Now()).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *outboxRepository) MarkSent(id string) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OutboxStatusSent,
			"last_error": "",
		}).Error
}

func (r *outboxRepository) MarkFailedAttempt(event *models.OutboxEvent, attemptErr error, maxAttempts int, backoff time.Duration) error {
	event.Attempts++
	event.LastError = attemptErr.Error()

	if event.Attempts >= maxAttempts {
		event.Status = models.OutboxStatusFailed
	} else {
		// Линейный backoff: attempt * базовый интервал
		event.NextAttemptAt = time.Now().Add(time.Duration(event.Attempts) * backoff)
	}

	return r.db.Save(event).Error
}

func (r *outboxRepository) FindFailed(limit, offset int) ([]models.OutboxEvent, int64, error) {
	var events []models.OutboxEvent
	var total int64

	query := r.db.Model(&models.OutboxEvent{}).Where("status = ?", models.OutboxStatusFailed)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}
