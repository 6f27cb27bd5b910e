package models

import (
	"time"

	"gorm.io/datatypes"
)

// OutboxEvent — событие, записанное в одной транзакции со сменой статуса
// окна оплаты. Доставляется воркером с ретраями; после MaxAttempts
// переводится в failed и остается видимым в админке.
type OutboxEvent struct {
	BaseModel
	Type          string         `gorm:"not null;index"` // "payment.status_changed", "payment.edited"
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"`
	Status        OutboxStatus   `gorm:"type:varchar(20);default:'pending';index"`
	Attempts      int            `gorm:"default:0"`
	NextAttemptAt time.Time      `gorm:"index"`
	LastError     string
}
