package models

import "time"

// Campaign — рекламная кампания, на которую откликаются блогеры.
type Campaign struct {
	BaseModel
	AdvertiserID string         `gorm:"not null;index"`
	Title        string         `gorm:"not null"`
	Description  string         `gorm:"type:text"`
	Budget       float64        `gorm:"not null"`
	Currency     string         `gorm:"type:varchar(10);default:'RUB'"`
	Topics       string         // comma-separated, фильтр для поиска
	Deadline     *time.Time     `gorm:"index"`
	Status       CampaignStatus `gorm:"type:varchar(20);default:'draft';index"`

	// Relations
	Advertiser   *AdvertiserProfile `gorm:"foreignKey:AdvertiserID;references:UserID"`
	Applications []Application      `gorm:"foreignKey:CampaignID"`
}
