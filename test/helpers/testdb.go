package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"admarket_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateUser создает пользователя напрямую в БД, хешируя сырой пароль.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		user.PasswordHash = string(hashed)
	}

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.IsVerified = true

	if err := db.Create(user).Error; err != nil {
		t.Logf("ОШИБКА: не удалось создать пользователя %s: %v", user.Email, err)
		return err
	}
	return nil
}

// CreateAndLoginUser создает пользователя и логинит его через API.
func CreateAndLoginUser(t *testing.T, ts *TestServer, db *gorm.DB, email, password string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		Email:        email,
		PasswordHash: password, // сырой пароль, CreateUser захеширует
		Role:         role,
	}
	err := CreateUser(t, db, user)
	assert.NoError(t, err, "Создание тестового пользователя не должно вызывать ошибку")

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	err = json.Unmarshal([]byte(bodyStr), &loginResponse)
	assert.NoError(t, err, "Не удалось распарсить JSON")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	user.PasswordHash = password
	return loginResponse.Token, user
}

// CreateAndLoginAdvertiser создает рекламодателя с профилем и уникальным email.
func CreateAndLoginAdvertiser(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User, *models.AdvertiserProfile) {
	email := fmt.Sprintf("advertiser_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, db, email, "password123", models.UserRoleAdvertiser)

	profile := &models.AdvertiserProfile{
		UserID:      user.ID,
		CompanyName: "Test Company Inc.",
		City:        "Алматы",
		IsVerified:  true,
	}
	assert.NoError(t, db.Create(profile).Error, "Не удалось создать профиль рекламодателя")

	return token, user, profile
}

// CreateAndLoginInfluencer создает блогера с публичным профилем и уникальным email.
func CreateAndLoginInfluencer(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User, *models.InfluencerProfile) {
	email := fmt.Sprintf("influencer_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, db, email, "password123", models.UserRoleInfluencer)

	profile := &models.InfluencerProfile{
		UserID:       user.ID,
		DisplayName:  "Test Influencer",
		City:         "Алматы",
		Topics:       datatypes.JSON(`["tech"]`),
		Platforms:    datatypes.JSON(`{"instagram": "@test"}`),
		AudienceSize: 10000,
		IsPublic:     true,
	}
	assert.NoError(t, db.Create(profile).Error, "Не удалось создать профиль блогера")

	return token, user, profile
}

// CreateAndLoginAdmin создает администратора с уникальным email.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, db, email, "password123", models.UserRoleAdmin)
}
