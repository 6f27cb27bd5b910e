package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"admarket_backend/internal/models"
	"admarket_backend/internal/services/dto"
	"admarket_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Отзыв возможен только после завершенной сделки, проходит модерацию
// и после одобрения попадает в рейтинг.
func TestReview_FullModerationFlow(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	reviewBody := map[string]interface{}{
		"subject_id":  influencer.ID,
		"rating":      5,
		"review_text": "Отличная работа, все в срок!",
	}

	// Без завершенной сделки отзыв запрещен
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", advToken, reviewBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)

	// Завершаем сделку и пробуем снова
	CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusCompleted)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", advToken, reviewBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var review dto.ReviewResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &review))
	assert.Equal(t, models.ReviewStatusPending, review.Status)

	// До модерации отзыв не виден публично
	res, bodyStr = ts.SendRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%s/reviews", influencer.ID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, bodyStr, review.ID)

	// Админ одобряет
	res, bodyStr = ts.SendRequest(t, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/reviews/%s/moderate", review.ID), adminToken,
		map[string]interface{}{"status": "approved"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// Теперь отзыв публичен, рейтинг профиля пересчитан
	res, bodyStr = ts.SendRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%s/reviews", influencer.ID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Отличная работа")

	var profile models.InfluencerProfile
	require.NoError(t, ts.DB.Where("user_id = ?", influencer.ID).First(&profile).Error)
	assert.Equal(t, float64(5), profile.Rating)
	assert.EqualValues(t, 1, profile.ReviewCount)

	// Повторная модерация запрещена
	res, bodyStr = ts.SendRequest(t, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/reviews/%s/moderate", review.ID), adminToken,
		map[string]interface{}{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "отзыв уже прошел модерацию")
}

func TestReview_NoSelfReviewAndNoDuplicates(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusCompleted)

	// Отзыв о себе
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", advToken, map[string]interface{}{
		"subject_id": advertiser.ID,
		"rating":     5,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "нельзя оставить отзыв о себе")

	// Первый отзыв проходит, дубликат - нет
	body := map[string]interface{}{"subject_id": influencer.ID, "rating": 4}
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", advToken, body)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", advToken, body)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestReview_RatingStatsAggregation(t *testing.T) {
	ts := GetTestServer(t)

	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	// Два одобренных отзыва от разных рекламодателей, один отклоненный
	for i, tc := range []struct {
		rating int
		status models.ReviewStatus
	}{
		{5, models.ReviewStatusApproved},
		{3, models.ReviewStatusApproved},
		{1, models.ReviewStatusRejected},
	} {
		_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
		review := models.Review{
			AuthorID:  advertiser.ID,
			SubjectID: influencer.ID,
			Rating:    tc.rating,
			Status:    tc.status,
		}
		require.NoError(t, ts.DB.Create(&review).Error, "отзыв %d", i)
	}

	res, bodyStr := ts.SendRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%s/rating", influencer.ID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var stats struct {
		AverageRating float64       `json:"average_rating"`
		TotalReviews  int64         `json:"total_reviews"`
		RatingCounts  map[int]int64 `json:"rating_counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &stats))
	assert.EqualValues(t, 2, stats.TotalReviews, "отклоненный отзыв не считается")
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.EqualValues(t, 1, stats.RatingCounts[5])
	assert.EqualValues(t, 1, stats.RatingCounts[3])
}
