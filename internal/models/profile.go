package models

import "gorm.io/datatypes"

// InfluencerProfile — публичная анкета блогера.
type InfluencerProfile struct {
	BaseModel
	UserID       string `gorm:"not null;uniqueIndex"`
	DisplayName  string `gorm:"not null"`
	Bio          string `gorm:"type:text"`
	City         string
	Topics       datatypes.JSON `gorm:"type:jsonb"` // ["beauty", "tech", ...]
	AudienceSize int64          `gorm:"default:0"`
	Platforms    datatypes.JSON `gorm:"type:jsonb"` // {"instagram": "...", "youtube": "..."}
	Rating       float64        `gorm:"default:0"`
	ReviewCount  int64          `gorm:"default:0"`
	IsPublic     bool           `gorm:"default:true"`
}

// AdvertiserProfile — профиль рекламодателя (компании).
type AdvertiserProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	CompanyName string `gorm:"not null"`
	Website     string
	City        string
	About       string  `gorm:"type:text"`
	Rating      float64 `gorm:"default:0"`
	ReviewCount int64   `gorm:"default:0"`
	IsVerified  bool    `gorm:"default:false"`
}
