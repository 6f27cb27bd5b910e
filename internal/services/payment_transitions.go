package services

import (
	"fmt"

	"admarket_backend/internal/models"
)

// Роль пользователя относительно конкретного окна оплаты.
type paymentRole string

const (
	paymentRolePayer paymentRole = "payer" // рекламодатель
	paymentRolePayee paymentRole = "payee" // блогер
)

// allowedPaymentTransitions - единственный источник правды о переходах
// статусов окна оплаты. У completed и cancelled исходящих ребер нет ни
// для одной роли: это настоящие финальные статусы.
//
// Payer (рекламодатель) двигает оплату вперед и фиксирует неудачи,
// payee (блогер) подтверждает получение и может отменить сделку.
var allowedPaymentTransitions = map[paymentRole]map[models.PaymentStatus][]models.PaymentStatus{
	paymentRolePayer: {
		models.PaymentStatusPending:   {models.PaymentStatusPaying, models.PaymentStatusFailed},
		models.PaymentStatusPaying:    {models.PaymentStatusPaid, models.PaymentStatusFailed},
		models.PaymentStatusConfirmed: {models.PaymentStatusCompleted},
	},
	paymentRolePayee: {
		models.PaymentStatusPending: {models.PaymentStatusCancelled},
		models.PaymentStatusPaying:  {models.PaymentStatusCancelled},
		models.PaymentStatusPaid:    {models.PaymentStatusConfirmed, models.PaymentStatusCancelled},
		// Повторная подача после неудачной оплаты
		models.PaymentStatusFailed: {models.PaymentStatusPending, models.PaymentStatusCancelled},
	},
}

// availablePaymentTransitions возвращает статусы, в которые роль может
// перевести окно из текущего статуса. Пустой список для финальных статусов.
func availablePaymentTransitions(role paymentRole, from models.PaymentStatus) []models.PaymentStatus {
	targets := allowedPaymentTransitions[role][from]
	out := make([]models.PaymentStatus, len(targets))
	copy(out, targets)
	return out
}

// roleCanEverSet сообщает, встречается ли статус среди целей роли
// хоть в одном переходе.
func roleCanEverSet(role paymentRole, status models.PaymentStatus) bool {
	for _, targets := range allowedPaymentTransitions[role] {
		for _, t := range targets {
			if t == status {
				return true
			}
		}
	}
	return false
}

// paymentTransitionViolations проверяет переход и возвращает список
// нарушенных правил. Сообщения пользовательские, на русском; вызывающая
// сторона склеивает их через "; ". Пустой список — переход разрешен.
func paymentTransitionViolations(role paymentRole, from, to models.PaymentStatus) []string {
	var violations []string

	if models.PaymentStatusTerminal(from) {
		violations = append(violations,
			fmt.Sprintf("окно оплаты находится в финальном статусе '%s' и не может быть изменено", from))
		return violations
	}

	if from == to {
		violations = append(violations,
			fmt.Sprintf("окно оплаты уже находится в статусе '%s'", from))
	}

	if !roleCanEverSet(role, to) {
		switch role {
		case paymentRolePayer:
			violations = append(violations,
				fmt.Sprintf("рекламодатель не может устанавливать статус '%s'", to))
		default:
			violations = append(violations,
				fmt.Sprintf("блогер не может устанавливать статус '%s'", to))
		}
	} else if !transitionListed(role, from, to) {
		violations = append(violations,
			fmt.Sprintf("переход из статуса '%s' в '%s' недоступен", from, to))
	}

	return violations
}

func transitionListed(role paymentRole, from, to models.PaymentStatus) bool {
	for _, t := range allowedPaymentTransitions[role][from] {
		if t == to {
			return true
		}
	}
	return false
}
