package repositories

import (
	"errors"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCampaignNotFound = errors.New("campaign not found")

type CampaignRepository interface {
	Create(campaign *models.Campaign) error
	FindByID(id string) (*models.Campaign, error)
	FindByAdvertiser(advertiserID string) ([]models.Campaign, error)
	FindActive(limit, offset int) ([]models.Campaign, int64, error)
	Update(campaign *models.Campaign) error
	UpdateStatus(id string, status models.CampaignStatus) error
	CloseExpired() (int64, error)
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *campaignRepository) FindByID(id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Preload("Advertiser").First(&campaign, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) FindByAdvertiser(advertiserID string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Where("advertiser_id = ?", advertiserID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) FindActive(limit, offset int) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign
	var total int64

	query := r.db.Model(&models.Campaign{}).Where("status = ?", models.CampaignStatusActive)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Advertiser").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&campaigns).Error
	return campaigns, total, err
}

func (r *campaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

func (r *campaignRepository) UpdateStatus(id string, status models.CampaignStatus) error {
	result := r.db.Model(&models.Campaign{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// CloseExpired закрывает активные кампании с прошедшим дедлайном.
// Вызывается воркером по расписанию.
func (r *campaignRepository) CloseExpired() (int64, error) {
	result := r.db.Exec(`
		UPDATE campaigns
		SET status = 'closed', updated_at = NOW()
		WHERE status = 'active'
		AND deadline IS NOT NULL
		AND deadline < NOW()
	`)
	return result.RowsAffected, result.Error
}
