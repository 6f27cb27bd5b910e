package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	chatmodels "admarket_backend/internal/models/chat"
	"admarket_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_DialogAndMessages(t *testing.T) {
	ts := GetTestServer(t)

	advToken, _, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	infToken, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	// Рекламодатель открывает диалог
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/dialogs", advToken,
		map[string]interface{}{"recipient_id": influencer.ID})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var dialog chatmodels.Dialog
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &dialog))
	require.NotEmpty(t, dialog.ID)

	// Повторное открытие возвращает тот же диалог
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/dialogs", advToken,
		map[string]interface{}{"recipient_id": influencer.ID})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var dialog2 chatmodels.Dialog
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &dialog2))
	assert.Equal(t, dialog.ID, dialog2.ID, "диалог между парой пользователей один")

	// Обмен сообщениями
	messagesURL := fmt.Sprintf("/api/v1/chat/dialogs/%s/messages", dialog.ID)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, messagesURL, advToken,
		map[string]interface{}{"content": "Здравствуйте! Интересует интеграция."})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, messagesURL, infToken,
		map[string]interface{}{"content": "Добрый день, пришлите бриф."})
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, messagesURL, advToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var history struct {
		Items []chatmodels.Message `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &history))
	assert.Len(t, history.Items, 2)

	// Отметка о прочтении
	res, _ = ts.SendRequest(t, http.MethodPost,
		fmt.Sprintf("/api/v1/chat/dialogs/%s/read", dialog.ID), infToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestChat_StrangerHasNoAccess(t *testing.T) {
	ts := GetTestServer(t)

	advToken, _, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)
	_, influencer, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)
	strangerToken, _, _ := helpers.CreateAndLoginInfluencer(t, ts, ts.DB)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/dialogs", advToken,
		map[string]interface{}{"recipient_id": influencer.ID})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var dialog chatmodels.Dialog
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &dialog))

	messagesURL := fmt.Sprintf("/api/v1/chat/dialogs/%s/messages", dialog.ID)

	res, _ = ts.SendRequest(t, http.MethodGet, messagesURL, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, messagesURL, strangerToken,
		map[string]interface{}{"content": "я мимо проходил"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestChat_CannotDialogWithSelf(t *testing.T) {
	ts := GetTestServer(t)

	advToken, advertiser, _ := helpers.CreateAndLoginAdvertiser(t, ts, ts.DB)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/dialogs", advToken,
		map[string]interface{}{"recipient_id": advertiser.ID})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "нельзя открыть диалог с самим собой")
}
