package services

import (
	"strings"
	"testing"

	"admarket_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// Статусы, которые каждая роль в принципе не может устанавливать.
func TestPaymentTransitions_RoleCanEverSet(t *testing.T) {
	t.Parallel()

	// Payer (рекламодатель) двигает оплату, но не отменяет и не подтверждает
	assert.True(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusPaying))
	assert.True(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusPaid))
	assert.True(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusFailed))
	assert.True(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusCompleted))
	assert.False(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusCancelled))
	assert.False(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusConfirmed))
	assert.False(t, roleCanEverSet(paymentRolePayer, models.PaymentStatusPending))

	// Payee (блогер) подтверждает и отменяет, но не двигает оплату
	assert.True(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusCancelled))
	assert.True(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusConfirmed))
	assert.True(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusPending)) // повторная подача
	assert.False(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusPaying))
	assert.False(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusPaid))
	assert.False(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusFailed))
	assert.False(t, roleCanEverSet(paymentRolePayee, models.PaymentStatusCompleted))
}

func TestPaymentTransitions_AllowedPaths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		role paymentRole
		from models.PaymentStatus
		to   models.PaymentStatus
	}{
		{"payer starts paying", paymentRolePayer, models.PaymentStatusPending, models.PaymentStatusPaying},
		{"payer marks paid", paymentRolePayer, models.PaymentStatusPaying, models.PaymentStatusPaid},
		{"payer fails from pending", paymentRolePayer, models.PaymentStatusPending, models.PaymentStatusFailed},
		{"payer fails mid-payment", paymentRolePayer, models.PaymentStatusPaying, models.PaymentStatusFailed},
		{"payer completes confirmed", paymentRolePayer, models.PaymentStatusConfirmed, models.PaymentStatusCompleted},
		{"payee confirms paid", paymentRolePayee, models.PaymentStatusPaid, models.PaymentStatusConfirmed},
		{"payee cancels pending", paymentRolePayee, models.PaymentStatusPending, models.PaymentStatusCancelled},
		{"payee cancels paying", paymentRolePayee, models.PaymentStatusPaying, models.PaymentStatusCancelled},
		{"payee cancels paid", paymentRolePayee, models.PaymentStatusPaid, models.PaymentStatusCancelled},
		{"payee resubmits after failure", paymentRolePayee, models.PaymentStatusFailed, models.PaymentStatusPending},
		{"payee cancels after failure", paymentRolePayee, models.PaymentStatusFailed, models.PaymentStatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			violations := paymentTransitionViolations(tc.role, tc.from, tc.to)
			assert.Empty(t, violations, "переход должен быть разрешен")
		})
	}
}

func TestPaymentTransitions_ForbiddenPaths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		role     paymentRole
		from     models.PaymentStatus
		to       models.PaymentStatus
		expected string
	}{
		{
			"payee cannot mark paid",
			paymentRolePayee, models.PaymentStatusPaying, models.PaymentStatusPaid,
			"блогер не может устанавливать статус 'paid'",
		},
		{
			"payee cannot start paying",
			paymentRolePayee, models.PaymentStatusPending, models.PaymentStatusPaying,
			"блогер не может устанавливать статус 'paying'",
		},
		{
			"payer cannot cancel",
			paymentRolePayer, models.PaymentStatusPending, models.PaymentStatusCancelled,
			"рекламодатель не может устанавливать статус 'cancelled'",
		},
		{
			"payer cannot confirm own payment",
			paymentRolePayer, models.PaymentStatusPaid, models.PaymentStatusConfirmed,
			"рекламодатель не может устанавливать статус 'confirmed'",
		},
		{
			"confirm only from paid",
			paymentRolePayee, models.PaymentStatusPending, models.PaymentStatusConfirmed,
			"переход из статуса 'pending' в 'confirmed' недоступен",
		},
		{
			"payer cannot skip to completed",
			paymentRolePayer, models.PaymentStatusPaid, models.PaymentStatusCompleted,
			"переход из статуса 'paid' в 'completed' недоступен",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			violations := paymentTransitionViolations(tc.role, tc.from, tc.to)
			assert.Contains(t, violations, tc.expected)
		})
	}
}

// Финальные статусы не имеют исходящих ребер ни для одной роли,
// и любая попытка перехода из них получает единственную причину отказа.
func TestPaymentTransitions_TerminalStatuses(t *testing.T) {
	t.Parallel()

	all := []models.PaymentStatus{
		models.PaymentStatusPending, models.PaymentStatusPaying, models.PaymentStatusPaid,
		models.PaymentStatusFailed, models.PaymentStatusConfirmed,
		models.PaymentStatusCompleted, models.PaymentStatusCancelled,
	}

	for _, terminal := range []models.PaymentStatus{models.PaymentStatusCompleted, models.PaymentStatusCancelled} {
		for _, role := range []paymentRole{paymentRolePayer, paymentRolePayee} {
			assert.Empty(t, availablePaymentTransitions(role, terminal))

			for _, to := range all {
				violations := paymentTransitionViolations(role, terminal, to)
				assert.Len(t, violations, 1)
				assert.Contains(t, violations[0], "финальном статусе")
			}
		}
	}
}

// Отказ перечисляет все нарушенные правила, а не первое попавшееся.
func TestPaymentTransitions_AllViolationsReported(t *testing.T) {
	t.Parallel()

	// Тот же статус + payer вообще не может устанавливать pending
	violations := paymentTransitionViolations(paymentRolePayer, models.PaymentStatusPending, models.PaymentStatusPending)
	assert.Len(t, violations, 2)

	joined := strings.Join(violations, "; ")
	assert.Contains(t, joined, "уже находится в статусе 'pending'")
	assert.Contains(t, joined, "рекламодатель не может устанавливать статус 'pending'")
}

func TestPaymentTransitions_AvailableForRole(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t,
		[]models.PaymentStatus{models.PaymentStatusPaying, models.PaymentStatusFailed},
		availablePaymentTransitions(paymentRolePayer, models.PaymentStatusPending))

	assert.ElementsMatch(t,
		[]models.PaymentStatus{models.PaymentStatusConfirmed, models.PaymentStatusCancelled},
		availablePaymentTransitions(paymentRolePayee, models.PaymentStatusPaid))

	assert.ElementsMatch(t,
		[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusCancelled},
		availablePaymentTransitions(paymentRolePayee, models.PaymentStatusFailed))

	// У payer нет ходов из paid: подтверждение за payee
	assert.Empty(t, availablePaymentTransitions(paymentRolePayer, models.PaymentStatusPaid))
}
