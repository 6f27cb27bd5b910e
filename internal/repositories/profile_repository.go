package repositories

import (
	"errors"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	CreateInfluencerProfile(profile *models.InfluencerProfile) error
	CreateAdvertiserProfile(profile *models.AdvertiserProfile) error
	FindInfluencerByUserID(userID string) (*models.InfluencerProfile, error)
	FindAdvertiserByUserID(userID string) (*models.AdvertiserProfile, error)
	UpdateInfluencerProfile(profile *models.InfluencerProfile) error
	UpdateAdvertiserProfile(profile *models.AdvertiserProfile) error
	FindPublicInfluencers(limit, offset int) ([]models.InfluencerProfile, int64, error)
	UpdateInfluencerRating(userID string, rating float64, reviewCount int64) error
	UpdateAdvertiserRating(userID string, rating float64, reviewCount int64) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateInfluencerProfile(profile *models.InfluencerProfile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) CreateAdvertiserProfile(profile *models.AdvertiserProfile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindInfluencerByUserID(userID string) (*models.InfluencerProfile, error) {
	var profile models.InfluencerProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindAdvertiserByUserID(userID string) (*models.AdvertiserProfile, error) {
	var profile models.AdvertiserProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UpdateInfluencerProfile(profile *models.InfluencerProfile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) UpdateAdvertiserProfile(profile *models.AdvertiserProfile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) FindPublicInfluencers(limit, offset int) ([]models.InfluencerProfile, int64, error) {
	var profiles []models.InfluencerProfile
	var total int64

	query := r.db.Model(&models.InfluencerProfile{}).Where("is_public = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("rating DESC, created_at DESC").Limit(limit).Offset(offset).Find(&profiles).Error
	return profiles, total, err
}

func (r *profileRepository) UpdateInfluencerRating(userID string, rating float64, reviewCount int64) error {
	return r.db.Model(&models.InfluencerProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"rating": rating, "review_count": reviewCount}).Error
}

func (r *profileRepository) UpdateAdvertiserRating(userID string, rating float64, reviewCount int64) error {
	return r.db.Model(&models.AdvertiserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"rating": rating, "review_count": reviewCount}).Error
}
