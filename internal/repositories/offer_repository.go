package repositories

import (
	"errors"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository interface {
	Create(offer *models.Offer) error
	FindByID(id string) (*models.Offer, error)
	FindByAdvertiser(advertiserID string) ([]models.Offer, error)
	FindByInfluencer(influencerID string) ([]models.Offer, error)
	Update(offer *models.Offer) error
	// UpdateStatus выполняет одиночный UPDATE строки предложения;
	// сервис оборачивает его оптимистичным ретраем.
	UpdateStatus(id string, status models.OfferStatus, counterAmount *float64, counterNote *string) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

func (r *offerRepository) FindByID(id string) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.Preload("Advertiser").Preload("Influencer").First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) FindByAdvertiser(advertiserID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Preload("Influencer").
		Where("advertiser_id = ?", advertiserID).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *offerRepository) FindByInfluencer(influencerID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Preload("Advertiser").
		Where("influencer_id = ?", influencerID).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *offerRepository) Update(offer *models.Offer) error {
	return r.db.Save(offer).Error
}

func (r *offerRepository) UpdateStatus(id string, status models.OfferStatus, counterAmount *float64, counterNote *string) error {
	updates := map[string]interface{}{"status": status}
	if counterAmount != nil {
		updates["counter_amount"] = *counterAmount
	}
	if counterNote != nil {
		updates["counter_note"] = *counterNote
	}

	result := r.db.Model(&models.Offer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}
