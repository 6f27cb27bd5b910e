package models

// Offer — прямое предложение рекламодателя блогеру (вне кампании).
type Offer struct {
	BaseModel
	AdvertiserID  string  `gorm:"not null;index"`
	InfluencerID  string  `gorm:"not null;index"`
	Brief         string  `gorm:"type:text;not null"`
	Amount        float64 `gorm:"not null"`
	Currency      string  `gorm:"type:varchar(10);default:'RUB'"`
	CounterAmount *float64
	CounterNote   *string     `gorm:"type:text"`
	Status        OfferStatus `gorm:"type:varchar(20);default:'pending';index"`

	// Relations
	Advertiser *AdvertiserProfile `gorm:"foreignKey:AdvertiserID;references:UserID"`
	Influencer *InfluencerProfile `gorm:"foreignKey:InfluencerID;references:UserID"`
}
