package dto

// NotificationsQuery - список уведомлений пользователя
type NotificationsQuery struct {
	OnlyUnread bool `form:"only_unread"`
	Page       int  `form:"page" validate:"omitempty,min=1"`
	PageSize   int  `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// UnreadCountResponse - счетчик непрочитанных
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
