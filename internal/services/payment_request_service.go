package services

import (
	"encoding/json"
	"strings"
	"time"

	"admarket_backend/internal/models"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services/dto"
	"admarket_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Типы outbox-событий платежного домена.
const (
	OutboxTypePaymentCreated       = "payment.created"
	OutboxTypePaymentStatusChanged = "payment.status_changed"
	OutboxTypePaymentEdited        = "payment.edited"
)

// PaymentOutboxPayload - полезная нагрузка outbox-события. Содержит все,
// что нужно воркеру для доставки: адресата, текст и кнопки следующих
// действий, чтобы не перечитывать окно оплаты в момент доставки.
type PaymentOutboxPayload struct {
	PaymentRequestID string               `json:"payment_request_id"`
	PayerID          string               `json:"payer_id"`
	PayeeID          string               `json:"payee_id"`
	ActorID          string               `json:"actor_id"`     // кто совершил переход
	RecipientID      string               `json:"recipient_id"` // кому адресовано уведомление
	Status           models.PaymentStatus `json:"status"`
	Note             string               `json:"note,omitempty"`
	Amount           float64              `json:"amount"`
	Currency         string               `json:"currency"`
	// Статусы, доступные адресату из нового состояния — кнопки действий
	// в интерактивном сообщении чата.
	NextActions []models.PaymentStatus `json:"next_actions"`
}

type PaymentRequestService interface {
	CreatePaymentRequest(payeeID string, req *dto.CreatePaymentRequestDTO) (*dto.PaymentRequestResponse, error)
	UpdatePaymentStatus(userID, paymentID string, req *dto.UpdatePaymentStatusDTO) (*dto.PaymentRequestResponse, error)
	EditPaymentRequest(userID, paymentID string, req *dto.EditPaymentRequestDTO) (*dto.PaymentRequestResponse, error)
	GetPaymentRequest(userID, paymentID string) (*dto.PaymentRequestResponse, error)
	ListForUser(userID string) ([]dto.PaymentRequestResponse, error)

	// Admin
	ListAll(filter *dto.AdminPaymentFilter) ([]dto.PaymentRequestResponse, int64, error)
}

type paymentRequestService struct {
	paymentRepo repositories.PaymentRequestRepository
	userRepo    repositories.UserRepository
}

func NewPaymentRequestService(
	paymentRepo repositories.PaymentRequestRepository,
	userRepo repositories.UserRepository,
) PaymentRequestService {
	return &paymentRequestService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
	}
}

// CreatePaymentRequest создает окно оплаты. Инициатор всегда блогер
// (payee): он выставляет сумму и реквизиты рекламодателю.
func (s *paymentRequestService) CreatePaymentRequest(payeeID string, req *dto.CreatePaymentRequestDTO) (*dto.PaymentRequestResponse, error) {
	var violations []string
	if req.Amount <= 0 {
		violations = append(violations, "сумма должна быть больше нуля")
	}
	if req.PayerID == payeeID {
		violations = append(violations, "нельзя создать окно оплаты самому себе")
	}
	if strings.TrimSpace(req.PaymentDetails) == "" {
		violations = append(violations, "не указаны реквизиты для оплаты")
	}
	if len(violations) > 0 {
		return nil, apperrors.ErrInvalidOperation("payment", strings.Join(violations, "; "))
	}

	payee, err := s.userRepo.FindByID(payeeID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if payee.Role != models.UserRoleInfluencer {
		return nil, apperrors.ErrInvalidUserRole
	}

	payer, err := s.userRepo.FindByID(req.PayerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if payer.Role != models.UserRoleAdvertiser {
		return nil, apperrors.ErrInvalidUserRole
	}

	paymentType := defaultPaymentType(req.PaymentType)
	pr := &models.PaymentRequest{
		PayerID:              req.PayerID,
		PayeeID:              payeeID,
		RelatedOfferID:       req.RelatedOfferID,
		RelatedApplicationID: req.RelatedApplicationID,
		Amount:               req.Amount,
		Currency:             defaultCurrency(req.Currency),
		PaymentType:          paymentType,
		PaymentStage:         initialPaymentStage(paymentType),
		PaymentDetails:       req.PaymentDetails,
		Status:               models.PaymentStatusPending,
		IsEditable:           true,
	}
	if err := pr.AppendHistory(models.PaymentStatusChange{
		Status:    models.PaymentStatusPending,
		ChangedBy: payeeID,
		ChangedAt: time.Now(),
		Note:      "окно оплаты создано",
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	event, err := s.buildOutboxEvent(OutboxTypePaymentCreated, pr, payeeID, req.PayerID, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.paymentRepo.SaveWithOutbox(pr, event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildResponse(pr, paymentRolePayee), nil
}

// UpdatePaymentStatus выполняет ролевой переход по таблице
// allowedPaymentTransitions. Отказ перечисляет все нарушенные правила.
func (s *paymentRequestService) UpdatePaymentStatus(userID, paymentID string, req *dto.UpdatePaymentStatusDTO) (*dto.PaymentRequestResponse, error) {
	pr, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	role, ok := participantRole(pr, userID)
	if !ok {
		return nil, apperrors.NewForbiddenError("Access to payment request denied")
	}

	if violations := paymentTransitionViolations(role, pr.Status, req.Status); len(violations) > 0 {
		return nil, apperrors.ErrInvalidStatus("payment", strings.Join(violations, "; "))
	}

	pr.Status = req.Status
	pr.IsEditable = models.PaymentStatusEditable(req.Status)
	if err := pr.AppendHistory(models.PaymentStatusChange{
		Status:    req.Status,
		ChangedBy: userID,
		ChangedAt: time.Now(),
		Note:      req.Note,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Уведомление адресуется второй стороне перехода.
	recipient := pr.PayerID
	if role == paymentRolePayer {
		recipient = pr.PayeeID
	}
	event, err := s.buildOutboxEvent(OutboxTypePaymentStatusChanged, pr, userID, recipient, req.Note)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.paymentRepo.SaveWithOutbox(pr, event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildResponse(pr, role), nil
}

// EditPaymentRequest правит сумму/валюту/тип/этап/реквизиты. Разрешено
// только создателю (payee) и только пока isEditable.
func (s *paymentRequestService) EditPaymentRequest(userID, paymentID string, req *dto.EditPaymentRequestDTO) (*dto.PaymentRequestResponse, error) {
	pr, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if pr.PayeeID != userID {
		return nil, apperrors.NewForbiddenError("Only the payee can edit the payment request")
	}
	if !pr.IsEditable {
		return nil, apperrors.ErrInvalidStatus("payment",
			"окно оплаты нельзя редактировать в статусе '"+string(pr.Status)+"'")
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, apperrors.ErrInvalidOperation("payment", "сумма должна быть больше нуля")
		}
		pr.Amount = *req.Amount
	}
	if req.Currency != nil {
		pr.Currency = defaultCurrency(*req.Currency)
	}
	if req.PaymentType != nil {
		pr.PaymentType = *req.PaymentType
		pr.PaymentStage = initialPaymentStage(*req.PaymentType)
	}
	// Явный этап важнее выведенного из типа: так блогер переводит окно
	// с частичной предоплатой на постоплатную часть при повторном выставлении.
	if req.PaymentStage != nil {
		pr.PaymentStage = *req.PaymentStage
	}
	if req.PaymentDetails != nil {
		if strings.TrimSpace(*req.PaymentDetails) == "" {
			return nil, apperrors.ErrInvalidOperation("payment", "не указаны реквизиты для оплаты")
		}
		pr.PaymentDetails = *req.PaymentDetails
	}

	event, err := s.buildOutboxEvent(OutboxTypePaymentEdited, pr, userID, pr.PayerID, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.paymentRepo.SaveWithOutbox(pr, event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildResponse(pr, paymentRolePayee), nil
}

func (s *paymentRequestService) GetPaymentRequest(userID, paymentID string) (*dto.PaymentRequestResponse, error) {
	pr, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	role, ok := participantRole(pr, userID)
	if !ok {
		// Админ видит любое окно, но без кнопок действий
		user, uerr := s.userRepo.FindByID(userID)
		if uerr != nil || user.Role != models.UserRoleAdmin {
			return nil, apperrors.NewForbiddenError("Access to payment request denied")
		}
		return s.buildResponse(pr, ""), nil
	}

	return s.buildResponse(pr, role), nil
}

func (s *paymentRequestService) ListForUser(userID string) ([]dto.PaymentRequestResponse, error) {
	prs, err := s.paymentRepo.FindByParticipant(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.PaymentRequestResponse, 0, len(prs))
	for i := range prs {
		role, _ := participantRole(&prs[i], userID)
		out = append(out, *s.buildResponse(&prs[i], role))
	}
	return out, nil
}

func (s *paymentRequestService) ListAll(filter *dto.AdminPaymentFilter) ([]dto.PaymentRequestResponse, int64, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	prs, total, err := s.paymentRepo.FindAll(filter.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.PaymentRequestResponse, 0, len(prs))
	for i := range prs {
		out = append(out, *s.buildResponse(&prs[i], ""))
	}
	return out, total, nil
}

// --- helpers ---

func participantRole(pr *models.PaymentRequest, userID string) (paymentRole, bool) {
	switch userID {
	case pr.PayerID:
		return paymentRolePayer, true
	case pr.PayeeID:
		return paymentRolePayee, true
	}
	return "", false
}

func (s *paymentRequestService) buildOutboxEvent(eventType string, pr *models.PaymentRequest, actorID, recipientID, note string) (*models.OutboxEvent, error) {
	recipientRole := paymentRolePayer
	if recipientID == pr.PayeeID {
		recipientRole = paymentRolePayee
	}

	payload := PaymentOutboxPayload{
		PaymentRequestID: pr.ID,
		PayerID:          pr.PayerID,
		PayeeID:          pr.PayeeID,
		ActorID:          actorID,
		RecipientID:      recipientID,
		Status:           pr.Status,
		Note:             note,
		Amount:           pr.Amount,
		Currency:         pr.Currency,
		NextActions:      availablePaymentTransitions(recipientRole, pr.Status),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &models.OutboxEvent{
		Type:          eventType,
		Payload:       datatypes.JSON(raw),
		Status:        models.OutboxStatusPending,
		NextAttemptAt: time.Now(),
	}, nil
}

func (s *paymentRequestService) buildResponse(pr *models.PaymentRequest, role paymentRole) *dto.PaymentRequestResponse {
	history, err := pr.StatusHistory()
	if err != nil {
		// Битая история не должна ронять чтение окна
		history = nil
	}

	var transitions []models.PaymentStatus
	if role != "" {
		transitions = availablePaymentTransitions(role, pr.Status)
	}

	return &dto.PaymentRequestResponse{
		ID:                   pr.ID,
		PayerID:              pr.PayerID,
		PayeeID:              pr.PayeeID,
		RelatedOfferID:       pr.RelatedOfferID,
		RelatedApplicationID: pr.RelatedApplicationID,
		Amount:               pr.Amount,
		Currency:             pr.Currency,
		PaymentType:          pr.PaymentType,
		PaymentStage:         pr.PaymentStage,
		PaymentDetails:       pr.PaymentDetails,
		Status:               pr.Status,
		IsEditable:           pr.IsEditable,
		History:              history,
		AvailableTransitions: transitions,
		CreatedAt:            pr.CreatedAt,
		UpdatedAt:            pr.UpdatedAt,
	}
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "RUB"
	}
	return strings.ToUpper(currency)
}

func defaultPaymentType(t models.PaymentType) models.PaymentType {
	if t == "" {
		return models.PaymentTypeFullPrepay
	}
	return t
}

// initialPaymentStage выводит стартовый этап из типа оплаты: чистая
// постоплата сразу на этапе postpay, остальные типы начинают с prepay.
func initialPaymentStage(t models.PaymentType) models.PaymentStage {
	if t == models.PaymentTypePostpay {
		return models.PaymentStagePostpay
	}
	return models.PaymentStagePrepay
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
