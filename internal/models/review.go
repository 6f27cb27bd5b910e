package models

// Review — отзыв по завершенной сделке. Публикуется только после
// модерации (status = approved).
type Review struct {
	BaseModel
	AuthorID         string  `gorm:"not null;index"`
	SubjectID        string  `gorm:"not null;index"`
	PaymentRequestID *string `gorm:"index"`
	Rating           int     `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText       string  `gorm:"type:text"`
	Status           ReviewStatus `gorm:"type:varchar(20);default:'pending';index"`
	ModerationNote   string

	// Relations
	Author  *User `gorm:"foreignKey:AuthorID"`
	Subject *User `gorm:"foreignKey:SubjectID"`
}
