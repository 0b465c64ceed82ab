package model

import "time"

// Stats 单窗口的互动汇总行，由外部产出方写入，这里只追加和按窗口读取
type Stats struct {
	ID         uint64    `gorm:"primaryKey"`
	UserID     uint64    `gorm:"not null;index:idx_stats_user_platform_ts,priority:1"`
	PlatformID uint64    `gorm:"not null;index:idx_stats_user_platform_ts,priority:2"`
	Timestamp  time.Time `gorm:"not null;autoCreateTime;index:idx_stats_user_platform_ts,priority:3"`

	LikesSum    int     `gorm:"not null"`
	LikesAvg    float64 `gorm:"not null"`
	SharesSum   int     `gorm:"not null"`
	SharesAvg   float64 `gorm:"not null"`
	CommentsSum int     `gorm:"not null"`
	CommentsAvg float64 `gorm:"not null"`
}

func (Stats) TableName() string {
	return "stats"
}
