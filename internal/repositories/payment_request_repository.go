package repositories

import (
	"errors"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentRequestNotFound = errors.New("payment request not found")

type PaymentRequestRepository interface {
	Create(pr *models.PaymentRequest) error
	FindByID(id string) (*models.PaymentRequest, error)
	FindByParticipant(userID string) ([]models.PaymentRequest, error)
	FindAll(status models.PaymentStatus, limit, offset int) ([]models.PaymentRequest, int64, error)
	// SaveWithOutbox сохраняет окно оплаты и outbox-событие в одной
	// транзакции: уведомление не может потеряться между коммитом
	// статуса и постановкой в очередь.
	SaveWithOutbox(pr *models.PaymentRequest, event *models.OutboxEvent) error
	HasCompletedBetween(userA, userB string) (bool, error)
}

type paymentRequestRepository struct {
	db *gorm.DB
}

func NewPaymentRequestRepository(db *gorm.DB) PaymentRequestRepository {
	return &paymentRequestRepository{db: db}
}

func (r *paymentRequestRepository) Create(pr *models.PaymentRequest) error {
	return r.db.Create(pr).Error
}

func (r *paymentRequestRepository) FindByID(id string) (*models.PaymentRequest, error) {
	var pr models.PaymentRequest
	err := r.db.First(&pr, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentRequestNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (r *paymentRequestRepository) FindByParticipant(userID string) ([]models.PaymentRequest, error) {
	var prs []models.PaymentRequest
	err := r.db.Where("payer_id = ? OR payee_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&prs).Error
	return prs, err
}

func (r *paymentRequestRepository) FindAll(status models.PaymentStatus, limit, offset int) ([]models.PaymentRequest, int64, error) {
	var prs []models.PaymentRequest
	var total int64

	query := r.db.Model(&models.PaymentRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&prs).Error
	return prs, total, err
}

func (r *paymentRequestRepository) SaveWithOutbox(pr *models.PaymentRequest, event *models.OutboxEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(pr).Error; err != nil {
			return err
		}
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *paymentRequestRepository) HasCompletedBetween(userA, userB string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaymentRequest{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Where("(payer_id = ? AND payee_id = ?) OR (payer_id = ? AND payee_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}
