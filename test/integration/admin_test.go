package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"admarket_backend/internal/models"
	"admarket_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresAdminRole(t *testing.T) {
	ts := GetTestServer(t)

	advToken, _, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", advToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAdmin_SuspendAndReactivateUser(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)
	_, user, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	statusURL := fmt.Sprintf("/api/v1/admin/users/%s/status", user.ID)

	res, bodyStr := ts.SendRequest(t, http.MethodPut, statusURL, adminToken,
		map[string]interface{}{"status": "suspended", "reason": "жалобы на спам"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// Приостановленный пользователь не может залогиниться
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": user.Email, "password": "password123"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPut, statusURL, adminToken,
		map[string]interface{}{"status": "active"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": user.Email, "password": "password123"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAdmin_CannotTouchOtherAdmins(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)
	_, otherAdmin := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	res, _ := ts.SendRequest(t, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/users/%s/status", otherAdmin.ID), adminToken,
		map[string]interface{}{"status": "banned"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestAdmin_ListUsersWithFilter(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)

	res, bodyStr := ts.SendRequest(t, http.MethodGet,
		"/api/v1/admin/users?role=influencer&page_size=100", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, influencer.ID)
	assert.NotContains(t, bodyStr, advertiser.ID)
}

func TestAdmin_PaymentRequestsOverview(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)
	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	paying := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPaying)
	CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)

	res, bodyStr := ts.SendRequest(t, http.MethodGet,
		"/api/v1/admin/payment-requests?status=paying&page_size=100", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var listing struct {
		Items []json.RawMessage `json:"items"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &listing))
	assert.Contains(t, bodyStr, paying.ID)
	for _, item := range listing.Items {
		assert.Contains(t, string(item), `"status":"paying"`)
	}
}

func TestAdmin_FailedOutboxVisible(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	event := models.OutboxEvent{
		Type:      "payment.status_changed",
		Payload:   []byte(`{"payment_request_id": "11111111-1111-1111-1111-111111111111"}`),
		Status:    models.OutboxStatusFailed,
		Attempts:  5,
		LastError: "получатель недоступен",
	}
	require.NoError(t, ts.DB.Create(&event).Error)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/outbox/failed", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, event.ID)
	assert.Contains(t, bodyStr, "получатель недоступен")
}
