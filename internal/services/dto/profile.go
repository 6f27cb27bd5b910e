package dto

// UpdateInfluencerProfileRequest - обновление анкеты блогера.
// Указатели отличают "не прислано" от пустого значения.
type UpdateInfluencerProfileRequest struct {
	DisplayName  *string           `json:"display_name,omitempty" binding:"omitempty,min=2,max=100"`
	Bio          *string           `json:"bio,omitempty" binding:"omitempty,max=2000"`
	City         *string           `json:"city,omitempty"`
	Topics       []string          `json:"topics,omitempty" binding:"omitempty,max=20,dive,min=2,max=50"`
	AudienceSize *int64            `json:"audience_size,omitempty" binding:"omitempty,min=0"`
	Platforms    map[string]string `json:"platforms,omitempty"`
	IsPublic     *bool             `json:"is_public,omitempty"`
}

// UpdateAdvertiserProfileRequest - обновление профиля рекламодателя
type UpdateAdvertiserProfileRequest struct {
	CompanyName *string `json:"company_name,omitempty" binding:"omitempty,min=2,max=200"`
	Website     *string `json:"website,omitempty" binding:"omitempty,url"`
	City        *string `json:"city,omitempty"`
	About       *string `json:"about,omitempty" binding:"omitempty,max=2000"`
}

// InfluencerProfileResponse - публичное представление анкеты
type InfluencerProfileResponse struct {
	UserID       string            `json:"user_id"`
	DisplayName  string            `json:"display_name"`
	Bio          string            `json:"bio,omitempty"`
	City         string            `json:"city,omitempty"`
	Topics       []string          `json:"topics,omitempty"`
	AudienceSize int64             `json:"audience_size"`
	Platforms    map[string]string `json:"platforms,omitempty"`
	Rating       float64           `json:"rating"`
	ReviewCount  int64             `json:"review_count"`
}

// AdvertiserProfileResponse - публичное представление рекламодателя
type AdvertiserProfileResponse struct {
	UserID      string  `json:"user_id"`
	CompanyName string  `json:"company_name"`
	Website     string  `json:"website,omitempty"`
	City        string  `json:"city,omitempty"`
	About       string  `json:"about,omitempty"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
	IsVerified  bool    `json:"is_verified"`
}

// ListQuery - общая пагинация списков
type ListQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// Normalize проставляет дефолты пагинации
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}

// Offset вычисляет смещение для текущей страницы
func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
