package services

import (
	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"
)

type ReviewService interface {
	CreateReview(authorID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetUserReviews(subjectID string, query *dto.ListQuery) ([]dto.ReviewResponse, int64, error)
	GetMyReviews(authorID string) ([]dto.ReviewResponse, error)
	GetRatingStats(subjectID string) (*repositories.RatingStats, error)

	// Admin moderation
	ListModerationQueue(filter *dto.ReviewModerationFilter) ([]dto.ReviewResponse, int64, error)
	ModerateReview(reviewID string, req *dto.ModerateReviewRequest) error
}

type reviewService struct {
	reviewRepo          repositories.ReviewRepository
	paymentRepo         repositories.PaymentRequestRepository
	userRepo            repositories.UserRepository
	profileRepo         repositories.ProfileRepository
	notificationService NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	paymentRepo repositories.PaymentRequestRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	notificationService NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:          reviewRepo,
		paymentRepo:         paymentRepo,
		userRepo:            userRepo,
		profileRepo:         profileRepo,
		notificationService: notificationService,
	}
}

// CreateReview принимает отзыв и ставит его в очередь модерации.
// Отзыв разрешен только участнику завершенной сделки с subject.
func (s *reviewService) CreateReview(authorID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if req.SubjectID == authorID {
		return nil, apperrors.ErrInvalidOperation("review", "нельзя оставить отзыв о себе")
	}
	if _, err := s.userRepo.FindByID(req.SubjectID); err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	hasDeal, err := s.paymentRepo.HasCompletedBetween(authorID, req.SubjectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !hasDeal {
		return nil, apperrors.ErrCannotReviewWithoutDeal
	}

	review := &models.Review{
		AuthorID:         authorID,
		SubjectID:        req.SubjectID,
		PaymentRequestID: req.PaymentRequestID,
		Rating:           req.Rating,
		ReviewText:       req.ReviewText,
		Status:           models.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if err == repositories.ErrReviewAlreadyExists {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.NotifyReviewReceived(req.SubjectID, review.ID)
	return buildReviewResponse(review), nil
}

// GetUserReviews отдает только одобренные отзывы.
func (s *reviewService) GetUserReviews(subjectID string, query *dto.ListQuery) ([]dto.ReviewResponse, int64, error) {
	query.Normalize()

	reviews, total, err := s.reviewRepo.FindApprovedBySubject(subjectID, query.PageSize, query.Offset())
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return buildReviewList(reviews), total, nil
}

func (s *reviewService) GetMyReviews(authorID string) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByAuthor(authorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildReviewList(reviews), nil
}

func (s *reviewService) GetRatingStats(subjectID string) (*repositories.RatingStats, error) {
	stats, err := s.reviewRepo.GetRatingStats(subjectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

func (s *reviewService) ListModerationQueue(filter *dto.ReviewModerationFilter) ([]dto.ReviewResponse, int64, error) {
	status := filter.Status
	if status == "" {
		status = models.ReviewStatusPending
	}
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	reviews, total, err := s.reviewRepo.FindByStatus(status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return buildReviewList(reviews), total, nil
}

// ModerateReview одобряет или отклоняет отзыв. Одобрение пересчитывает
// рейтинг профиля subject.
func (s *reviewService) ModerateReview(reviewID string, req *dto.ModerateReviewRequest) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if review.Status != models.ReviewStatusPending {
		return apperrors.ErrInvalidStatus("review", "отзыв уже прошел модерацию")
	}

	review.Status = req.Status
	review.ModerationNote = req.ModerationNote
	if err := s.reviewRepo.Update(review); err != nil {
		return apperrors.InternalError(err)
	}

	if req.Status == models.ReviewStatusApproved {
		if err := s.recalculateRating(review.SubjectID); err != nil {
			return err
		}
	}

	s.notificationService.NotifyReviewModerated(review.AuthorID, reviewID, req.Status)
	return nil
}

func (s *reviewService) recalculateRating(subjectID string) error {
	stats, err := s.reviewRepo.GetRatingStats(subjectID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	subject, err := s.userRepo.FindByID(subjectID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	switch subject.Role {
	case models.UserRoleInfluencer:
		err = s.profileRepo.UpdateInfluencerRating(subjectID, stats.AverageRating, stats.TotalReviews)
	case models.UserRoleAdvertiser:
		err = s.profileRepo.UpdateAdvertiserRating(subjectID, stats.AverageRating, stats.TotalReviews)
	}
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func buildReviewResponse(r *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		SubjectID:  r.SubjectID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}

func buildReviewList(reviews []models.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, *buildReviewResponse(&reviews[i]))
	}
	return out
}
