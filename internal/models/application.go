package models

// Application — отклик блогера на кампанию.
type Application struct {
	BaseModel
	CampaignID    string  `gorm:"not null;index"`
	InfluencerID  string  `gorm:"not null;index"`
	Message       *string `gorm:"type:text"`
	ProposedPrice *float64
	Status        ApplicationStatus `gorm:"type:varchar(20);default:'pending'"`
	IsViewed      bool              `gorm:"default:false"`

	// Relations
	Campaign   *Campaign          `gorm:"foreignKey:CampaignID"`
	Influencer *InfluencerProfile `gorm:"foreignKey:InfluencerID;references:UserID"`
}
