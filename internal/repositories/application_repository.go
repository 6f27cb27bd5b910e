package repositories

import (
	"errors"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("influencer already responded to this campaign")
)

type ApplicationRepository interface {
	Create(application *models.Application) error
	FindByID(id string) (*models.Application, error)
	FindByCampaign(campaignID string) ([]models.Application, error)
	FindByInfluencer(influencerID string) ([]models.Application, error)
	ExistsForCampaign(campaignID, influencerID string) (bool, error)
	Update(application *models.Application) error
	Delete(id string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(application *models.Application) error {
	exists, err := r.ExistsForCampaign(application.CampaignID, application.InfluencerID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyApplied
	}
	return r.db.Create(application).Error
}

func (r *applicationRepository) FindByID(id string) (*models.Application, error) {
	var application models.Application
	err := r.db.Preload("Campaign").Preload("Influencer").First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) FindByCampaign(campaignID string) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.Preload("Influencer").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) FindByInfluencer(influencerID string) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.Preload("Campaign").
		Where("influencer_id = ?", influencerID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) ExistsForCampaign(campaignID, influencerID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("campaign_id = ? AND influencer_id = ?", campaignID, influencerID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) Update(application *models.Application) error {
	return r.db.Save(application).Error
}

func (r *applicationRepository) Delete(id string) error {
	return r.db.Delete(&models.Application{}, "id = ?", id).Error
}
