package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"admarket_backend/internal/models"
	"admarket_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginRefreshLogout(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("reg_%d@test.com", time.Now().UnixNano())

	// Регистрация блогера создает и пользователя, и профиль
	registerBody := map[string]interface{}{
		"email":        email,
		"password":     "password123",
		"role":         "influencer",
		"display_name": "Новый блогер",
		"city":         "Алматы",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var user models.User
	require.NoError(t, ts.DB.Where("email = ?", email).First(&user).Error)
	assert.Equal(t, models.UserRoleInfluencer, user.Role)
	assert.NotEmpty(t, user.VerificationToken)

	var profile models.InfluencerProfile
	require.NoError(t, ts.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "Новый блогер", profile.DisplayName)

	// Логин выдает пару токенов
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// Refresh ротирует refresh-токен
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]interface{}{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var rotated struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken, "refresh-токен должен ротироваться")

	// Старый refresh-токен больше не работает
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]interface{}{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Logout инвалидирует актуальный refresh-токен
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/logout", rotated.AccessToken,
		map[string]interface{}{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]interface{}{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuth_RegisterRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("dup_%d@test.com", time.Now().UnixNano())
	body := map[string]interface{}{
		"email":        email,
		"password":     "password123",
		"role":         "advertiser",
		"company_name": "ООО Ромашка",
	}

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Повторная регистрация на тот же email
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Короткий пароль режется валидацией
	body["email"] = fmt.Sprintf("weak_%d@test.com", time.Now().UnixNano())
	body["password"] = "short"
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAuth_LoginRejectsWrongPassword(t *testing.T) {
	ts := GetTestServer(t)

	_, user := helpers.CreateAndLoginUser(t, ts, ts.DB,
		fmt.Sprintf("wrongpass_%d@test.com", time.Now().UnixNano()), "password123", models.UserRoleInfluencer)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": user.Email, "password": "не тот пароль"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuth_VerifyEmail(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("verify_%d@test.com", time.Now().UnixNano())
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":        email,
		"password":     "password123",
		"role":         "influencer",
		"display_name": "Верифицируемый",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var user models.User
	require.NoError(t, ts.DB.Where("email = ?", email).First(&user).Error)
	require.False(t, user.IsVerified)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/verify-email", "",
		map[string]interface{}{"token": user.VerificationToken})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	require.NoError(t, ts.DB.Where("email = ?", email).First(&user).Error)
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.VerificationToken)

	// Повторное использование токена
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/verify-email", "",
		map[string]interface{}{"token": "несуществующий токен"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuth_SuspendedUserCannotLogin(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("suspended_%d@test.com", time.Now().UnixNano())
	user := &models.User{
		Email:        email,
		PasswordHash: "password123",
		Role:         models.UserRoleInfluencer,
		Status:       models.UserStatusSuspended,
	}
	require.NoError(t, helpers.CreateUser(t, ts.DB, user))

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": email, "password": "password123"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, bodyStr)
}
