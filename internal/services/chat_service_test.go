package services

import (
	"errors"
	"testing"

	"admarket_backend/internal/models"
	chatmodels "admarket_backend/internal/models/chat"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatRepo struct {
	repositories.ChatRepository
	dialog  *chatmodels.Dialog
	findErr error
	created bool
}

func (s *stubChatRepo) FindDialogBetween(userA, userB string) (*chatmodels.Dialog, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.dialog, nil
}

func (s *stubChatRepo) CreateDialog(dialog *chatmodels.Dialog, participantIDs []string) error {
	s.created = true
	return nil
}

type stubUserRepo struct {
	repositories.UserRepository
}

func (stubUserRepo) FindByID(id string) (*models.User, error) {
	return &models.User{}, nil
}

func newChatServiceWithStubs(chatRepo *stubChatRepo) ChatService {
	return NewChatService(chatRepo, stubUserRepo{}, nil, nil, 0)
}

func TestChatService_CreateDialog_ReturnsExistingPair(t *testing.T) {
	existing := &chatmodels.Dialog{ID: "d-1"}
	repo := &stubChatRepo{dialog: existing}
	svc := newChatServiceWithStubs(repo)

	dialog, err := svc.CreateDialog("user-a", &dto.CreateDialogRequest{RecipientID: "user-b"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, dialog.ID)
	assert.False(t, repo.created, "существующая пара не должна создаваться заново")
}

func TestChatService_CreateDialog_CreatesWhenPairNotFound(t *testing.T) {
	repo := &stubChatRepo{findErr: repositories.ErrDialogNotFound}
	svc := newChatServiceWithStubs(repo)

	_, err := svc.CreateDialog("user-a", &dto.CreateDialogRequest{RecipientID: "user-b"})
	require.NoError(t, err)
	assert.True(t, repo.created)
}

// Сбой поиска пары не повод заводить второй диалог между теми же людьми.
func TestChatService_CreateDialog_LookupErrorDoesNotCreateDuplicate(t *testing.T) {
	repo := &stubChatRepo{findErr: errors.New("connection reset by peer")}
	svc := newChatServiceWithStubs(repo)

	_, err := svc.CreateDialog("user-a", &dto.CreateDialogRequest{RecipientID: "user-b"})
	require.Error(t, err)
	assert.False(t, repo.created, "при ошибке поиска диалог создаваться не должен")
}
