package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// PaymentRequest ("окно оплаты") — запись о согласованной оплате между
// рекламодателем (payer) и блогером (payee). Создается блогером, двигается
// по статусам ролевыми переходами, история статусов только дописывается.
type PaymentRequest struct {
	BaseModel
	PayerID              string  `gorm:"not null;index"` // рекламодатель
	PayeeID              string  `gorm:"not null;index"` // блогер
	RelatedOfferID       *string `gorm:"index"`
	RelatedApplicationID *string `gorm:"index"`

	Amount         float64      `gorm:"not null"`
	Currency       string       `gorm:"type:varchar(10);default:'RUB'"`
	PaymentType    PaymentType  `gorm:"type:varchar(30);default:'full_prepay'"`
	PaymentStage   PaymentStage `gorm:"type:varchar(10);default:'prepay'"`
	PaymentDetails string       `gorm:"type:text;not null"` // реквизиты/инструкции, без схемы

	Status     PaymentStatus  `gorm:"type:varchar(20);default:'pending';index"`
	IsEditable bool           `gorm:"default:true"`
	History    datatypes.JSON `gorm:"type:jsonb"` // append-only []PaymentStatusChange

	// Relations
	Payer *User  `gorm:"foreignKey:PayerID"`
	Payee *User  `gorm:"foreignKey:PayeeID"`
	Offer *Offer `gorm:"foreignKey:RelatedOfferID"`
}

// PaymentStatusChange — одна запись в истории статусов.
type PaymentStatusChange struct {
	Status    PaymentStatus `json:"status"`
	ChangedBy string        `json:"changed_by"`
	ChangedAt time.Time     `json:"changed_at"`
	Note      string        `json:"note,omitempty"`
}

// StatusHistory декодирует JSONB-историю. Пустая колонка — пустой список.
func (p *PaymentRequest) StatusHistory() ([]PaymentStatusChange, error) {
	if len(p.History) == 0 {
		return nil, nil
	}
	var entries []PaymentStatusChange
	if err := json.Unmarshal(p.History, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendHistory дописывает запись в историю. История никогда не переписывается.
func (p *PaymentRequest) AppendHistory(change PaymentStatusChange) error {
	entries, err := p.StatusHistory()
	if err != nil {
		return err
	}
	entries = append(entries, change)
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	p.History = datatypes.JSON(raw)
	return nil
}
