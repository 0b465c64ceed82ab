package model

import "time"

// Credential 一个用户在一个平台上的访问令牌，(user_id, platform_id) 唯一。
// OAuth2 平台只有 Token 和过期时间；OAuth1 平台是 Token + TokenSecret
type Credential struct {
	ID          uint64     `gorm:"primaryKey"`
	UserID      uint64     `gorm:"not null;uniqueIndex:idx_user_platform,priority:1"`
	PlatformID  uint64     `gorm:"not null;uniqueIndex:idx_user_platform,priority:2"`
	Token       string     `gorm:"type:varchar(1000);not null"`
	TokenSecret string     `gorm:"type:varchar(1000)"`
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Credential) TableName() string {
	return "credentials"
}
