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

// Полный счастливый путь окна оплаты:
// pending -> paying -> paid -> confirmed -> completed.
func TestPayment_FullLifecycle(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, _, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	// 1. Блогер создает окно оплаты
	createBody := map[string]interface{}{
		"payer_id":        advertiser.ID,
		"amount":          75000,
		"payment_details": "Карта 1234 5678 9012 3456, Иванов И.И.",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/payment-requests", infToken, createBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Создание окна оплаты: "+bodyStr)

	var pr dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &pr))
	assert.Equal(t, models.PaymentStatusPending, pr.Status)
	assert.True(t, pr.IsEditable)
	// Блогеру из pending доступна только отмена
	assert.ElementsMatch(t, []models.PaymentStatus{models.PaymentStatusCancelled}, pr.AvailableTransitions)
	// История начинается с записи о создании
	require.Len(t, pr.History, 1)
	assert.Equal(t, "окно оплаты создано", pr.History[0].Note)

	statusURL := fmt.Sprintf("/api/v1/payment-requests/%s/status", pr.ID)

	// 2. Рекламодатель начинает оплату
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, advToken, map[string]interface{}{"status": "paying"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &pr))
	assert.Equal(t, models.PaymentStatusPaying, pr.Status)
	assert.False(t, pr.IsEditable, "после pending окно больше не редактируется")

	// 3. Рекламодатель отмечает оплату выполненной
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, advToken, map[string]interface{}{"status": "paid"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// 4. Блогер подтверждает получение денег
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, infToken,
		map[string]interface{}{"status": "confirmed", "note": "деньги пришли"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &pr))
	assert.Equal(t, models.PaymentStatusConfirmed, pr.Status)

	// 5. Рекламодатель закрывает сделку
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, advToken, map[string]interface{}{"status": "completed"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &pr))
	assert.Equal(t, models.PaymentStatusCompleted, pr.Status)
	assert.Empty(t, pr.AvailableTransitions, "из финального статуса переходов нет")

	// История только дописывалась: создание + 4 перехода
	require.Len(t, pr.History, 5)
	assert.Equal(t, "деньги пришли", pr.History[3].Note)

	// Каждая смена статуса записала outbox-событие в той же транзакции
	var outboxCount int64
	err := ts.DB.Model(&models.OutboxEvent{}).
		Where("payload->>'payment_request_id' = ?", pr.ID).
		Count(&outboxCount).Error
	require.NoError(t, err)
	assert.EqualValues(t, 5, outboxCount, "создание + 4 перехода")
}

// Отказ в переходе перечисляет все нарушенные правила через "; ".
func TestPayment_RejectionEnumeratesViolations(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)
	statusURL := fmt.Sprintf("/api/v1/payment-requests/%s/status", pr.ID)

	// Блогер не может двигать оплату
	res, bodyStr := ts.SendRequest(t, http.MethodPut, statusURL, infToken, map[string]interface{}{"status": "paying"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "блогер не может устанавливать статус 'paying'")

	// Рекламодатель не может отменять и подтверждать
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, advToken, map[string]interface{}{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "рекламодатель не может устанавливать статус 'cancelled'")

	// Переход "в тот же статус" дает сразу две причины, склеенные через "; "
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, advToken, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "окно оплаты уже находится в статусе 'pending'; рекламодатель не может устанавливать статус 'pending'")

	// Подтверждение возможно только из paid
	pr2 := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)
	res, bodyStr = ts.SendRequest(t, http.MethodPut,
		fmt.Sprintf("/api/v1/payment-requests/%s/status", pr2.ID), infToken,
		map[string]interface{}{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "переход из статуса 'pending' в 'confirmed' недоступен")
}

// Финальные статусы неизменяемы для обеих ролей.
func TestPayment_TerminalStatusesAreFrozen(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusCancelled)
	statusURL := fmt.Sprintf("/api/v1/payment-requests/%s/status", pr.ID)

	for _, token := range []string{advToken, infToken} {
		res, bodyStr := ts.SendRequest(t, http.MethodPut, statusURL, token, map[string]interface{}{"status": "pending"})
		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Contains(t, bodyStr, "финальном статусе 'cancelled'")
	}
}

// После неудачной оплаты блогер может подать окно повторно.
func TestPayment_ResubmitAfterFailure(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)
	statusURL := fmt.Sprintf("/api/v1/payment-requests/%s/status", pr.ID)

	res, bodyStr := ts.SendRequest(t, http.MethodPut, statusURL, advToken, map[string]interface{}{"status": "failed"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// В failed окно снова редактируемо — блогер правит реквизиты
	res, bodyStr = ts.SendRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/v1/payment-requests/%s", pr.ID), infToken,
		map[string]interface{}{"payment_details": "Другая карта 9999 8888 7777 6666"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// И подает повторно
	res, bodyStr = ts.SendRequest(t, http.MethodPut, statusURL, infToken, map[string]interface{}{"status": "pending"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var updated dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &updated))
	assert.Equal(t, models.PaymentStatusPending, updated.Status)
	assert.Equal(t, "Другая карта 9999 8888 7777 6666", updated.PaymentDetails)
}

// Правка окна оплаты: только payee и только в pending/failed.
func TestPayment_EditRules(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)
	editURL := fmt.Sprintf("/api/v1/payment-requests/%s", pr.ID)

	// Рекламодатель не может редактировать (роль отрезается на маршруте)
	res, _ := ts.SendRequest(t, http.MethodPatch, editURL, advToken, map[string]interface{}{"amount": 1})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Блогер может, пока статус редактируемый; правятся все поля окна,
	// включая валюту
	res, bodyStr := ts.SendRequest(t, http.MethodPatch, editURL, infToken, map[string]interface{}{
		"amount":   90000,
		"currency": "kzt",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var updated dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &updated))
	assert.Equal(t, float64(90000), updated.Amount)
	assert.Equal(t, "KZT", updated.Currency)

	// В paid правка запрещена
	paidPR := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPaid)
	res, bodyStr = ts.SendRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/v1/payment-requests/%s", paidPR.ID), infToken,
		map[string]interface{}{"amount": 90000})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "окно оплаты нельзя редактировать в статусе 'paid'")
}

// Этап оплаты выводится из типа при создании; при правке блогер может
// перевести окно на постоплатную часть явно.
func TestPayment_StageFollowsType(t *testing.T) {
	ts := GetTestServer(t)

	infToken, _, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)

	// Чистая постоплата сразу на этапе postpay
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/payment-requests", infToken, map[string]interface{}{
		"payer_id":        advertiser.ID,
		"amount":          30000,
		"payment_type":    "postpay",
		"payment_details": "Карта 1111 2222 3333 4444",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var postpay dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &postpay))
	assert.Equal(t, models.PaymentStagePostpay, postpay.PaymentStage)

	// Частичная предоплата начинает с prepay
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/payment-requests", infToken, map[string]interface{}{
		"payer_id":        advertiser.ID,
		"amount":          60000,
		"payment_type":    "partial_prepay_postpay",
		"payment_details": "Карта 1111 2222 3333 4444",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var partial dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &partial))
	assert.Equal(t, models.PaymentStagePrepay, partial.PaymentStage)

	// На повторном выставлении блогер переводит окно на postpay-часть
	res, bodyStr = ts.SendRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/v1/payment-requests/%s", partial.ID), infToken,
		map[string]interface{}{"payment_stage": "postpay"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var resubmitted dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resubmitted))
	assert.Equal(t, models.PaymentStagePostpay, resubmitted.PaymentStage)
	assert.Equal(t, models.PaymentTypePartialPrepayPostpay, resubmitted.PaymentType)
}

// Создание окна: все нарушения перечисляются одним сообщением.
func TestPayment_CreateValidation(t *testing.T) {
	ts := GetTestServer(t)

	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	advToken, _, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)

	// Рекламодатель не может создавать окна оплаты вообще
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/payment-requests", advToken, map[string]interface{}{
		"payer_id":        influencer.ID,
		"amount":          1000,
		"payment_details": "Карта 1234",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Окно самому себе отклоняется доменной проверкой
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/payment-requests", infToken, map[string]interface{}{
		"payer_id":        influencer.ID,
		"amount":          1000,
		"payment_details": "Карта 1234 5678",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "нельзя создать окно оплаты самому себе")
}

// Чужое окно оплаты недоступно, админ видит любое.
func TestPayment_AccessControl(t *testing.T) {
	ts := GetTestServer(t)

	_, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	strangerToken, _, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	pr := CreateTestPaymentRequest(t, ts.DB, advertiser.ID, influencer.ID, models.PaymentStatusPending)
	getURL := fmt.Sprintf("/api/v1/payment-requests/%s", pr.ID)

	res, _ := ts.SendRequest(t, http.MethodGet, getURL, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, getURL, adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var adminView dto.PaymentRequestResponse
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &adminView))
	assert.Empty(t, adminView.AvailableTransitions, "у админа нет кнопок действий")
}
