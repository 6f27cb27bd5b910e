package repositories

import (
	"errors"

	"admarket_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this deal")
)

// RatingStats - агрегаты одобренных отзывов по пользователю
type RatingStats struct {
	AverageRating float64       `json:"average_rating"`
	TotalReviews  int64         `json:"total_reviews"`
	RatingCounts  map[int]int64 `json:"rating_counts"`
}

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id string) (*models.Review, error)
	FindApprovedBySubject(subjectID string, limit, offset int) ([]models.Review, int64, error)
	FindByAuthor(authorID string) ([]models.Review, error)
	FindByStatus(status models.ReviewStatus, limit, offset int) ([]models.Review, int64, error)
	Update(review *models.Review) error
	Delete(id string) error
	GetRatingStats(subjectID string) (*RatingStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	// Один отзыв на сделку от автора
	if review.PaymentRequestID != nil {
		var existing models.Review
		err := r.db.Where("payment_request_id = ? AND author_id = ?",
			*review.PaymentRequestID, review.AuthorID).
			First(&existing).Error
		if err == nil {
			return ErrReviewAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Author").Preload("Subject").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindApprovedBySubject(subjectID string, limit, offset int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.Model(&models.Review{}).
		Where("subject_id = ? AND status = ?", subjectID, models.ReviewStatusApproved)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) FindByAuthor(authorID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Subject").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindByStatus(status models.ReviewStatus, limit, offset int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.Model(&models.Review{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").Preload("Subject").
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(id string) error {
	return r.db.Delete(&models.Review{}, "id = ?", id).Error
}

func (r *reviewRepository) GetRatingStats(subjectID string) (*RatingStats, error) {
	stats := &RatingStats{RatingCounts: make(map[int]int64)}

	row := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0), COUNT(*)").
		Where("subject_id = ? AND status = ?", subjectID, models.ReviewStatusApproved).
		Row()
	if err := row.Scan(&stats.AverageRating, &stats.TotalReviews); err != nil {
		return nil, err
	}

	rows, err := r.db.Model(&models.Review{}).
		Select("rating, COUNT(*)").
		Where("subject_id = ? AND status = ?", subjectID, models.ReviewStatusApproved).
		Group("rating").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.RatingCounts[rating] = count
	}

	return stats, nil
}
