package model

import "time"

// FollowersCount 粉丝数时序采样，只追加不修改。
// Automatic 区分定时快照和发帖后的手动采样
type FollowersCount struct {
	ID         uint64    `gorm:"primaryKey"`
	UserID     uint64    `gorm:"not null;index:idx_followers_user_platform_ts,priority:1"`
	PlatformID uint64    `gorm:"not null;index:idx_followers_user_platform_ts,priority:2"`
	Timestamp  time.Time `gorm:"not null;autoCreateTime;index:idx_followers_user_platform_ts,priority:3"`
	Followers  int       `gorm:"not null"`
	Automatic  bool      `gorm:"not null;default:0"`
}

func (FollowersCount) TableName() string {
	return "followers_count"
}
