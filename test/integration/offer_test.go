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

func TestOffer_CreateAndAccept(t *testing.T) {
	ts := GetTestServer(t)

	advToken, _, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	createBody := map[string]interface{}{
		"influencer_id": influencer.ID,
		"brief":         "Нужен обзор нашего приложения в reels",
		"amount":        40000,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/offers", advToken, createBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var offer dto.OfferResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &offer))
	assert.Equal(t, models.OfferStatusPending, offer.Status)

	// Блогер получил in-app уведомление о предложении
	var notifCount int64
	require.NoError(t, ts.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", influencer.ID, "offer_received").
		Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)

	// Блогер принимает
	res, bodyStr = ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/respond", offer.ID), infToken,
		map[string]interface{}{"action": "accept"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &offer))
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)
}

func TestOffer_CounterFlow(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	offer := CreateTestOffer(t, ts.DB, advertiser.ID, influencer.ID, models.OfferStatusPending)

	// Контрпредложение без суммы отклоняется
	res, bodyStr := ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/respond", offer.ID), infToken,
		map[string]interface{}{"action": "counter"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "counter_amount")

	// С суммой — офер уходит в countered
	res, bodyStr = ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/respond", offer.ID), infToken,
		map[string]interface{}{"action": "counter", "counter_amount": 65000, "counter_note": "за такой объем дороже"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var countered dto.OfferResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &countered))
	assert.Equal(t, models.OfferStatusCountered, countered.Status)
	require.NotNil(t, countered.CounterAmount)
	assert.Equal(t, float64(65000), *countered.CounterAmount)

	// Рекламодатель принимает контрпредложение: сумма заменяется
	res, bodyStr = ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/accept-counter", offer.ID), advToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var accepted dto.OfferResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &accepted))
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)
	assert.Equal(t, float64(65000), accepted.Amount)
}

func TestOffer_OnlyPendingAcceptsDecision(t *testing.T) {
	ts := GetTestServer(t)

	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	offer := CreateTestOffer(t, ts.DB, advertiser.ID, influencer.ID, models.OfferStatusAccepted)

	res, _ := ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/respond", offer.ID), infToken,
		map[string]interface{}{"action": "decline"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestOffer_StrangerCannotRespond(t *testing.T) {
	ts := GetTestServer(t)

	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	strangerToken, _, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	offer := CreateTestOffer(t, ts.DB, advertiser.ID, influencer.ID, models.OfferStatusPending)

	res, _ := ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/respond", offer.ID), strangerToken,
		map[string]interface{}{"action": "accept"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestOffer_CompleteAndCancel(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	completed := CreateTestOffer(t, ts.DB, advertiser.ID, influencer.ID, models.OfferStatusAccepted)
	res, bodyStr := ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/complete", completed.ID), advToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// Отменить принятый офер может любая из сторон
	cancelled := CreateTestOffer(t, ts.DB, advertiser.ID, influencer.ID, models.OfferStatusAccepted)
	res, bodyStr = ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/offers/%s/cancel", cancelled.ID), infToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var fromDB models.Offer
	require.NoError(t, ts.DB.First(&fromDB, "id = ?", cancelled.ID).Error)
	assert.Equal(t, models.OfferStatusCancelled, fromDB.Status)

	require.NoError(t, ts.DB.First(&fromDB, "id = ?", completed.ID).Error)
	assert.Equal(t, models.OfferStatusCompleted, fromDB.Status)
}

// Лимит на создание предложений: in-memory лимитер в тестовом окружении.
func TestOffer_RateLimited(t *testing.T) {
	ts := GetTestServer(t)

	advToken, _, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	body := map[string]interface{}{
		"influencer_id": influencer.ID,
		"brief":         "Интеграция в выпуск подкаста",
		"amount":        10000,
	}

	limited := false
	for i := 0; i < 11; i++ {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/offers", advToken, body)
		if res.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}
	assert.True(t, limited, "одиннадцатое предложение за минуту должно упереться в лимит")
}
