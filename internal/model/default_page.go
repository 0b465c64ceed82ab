package model

// DefaultPage 用户在某平台上选定的默认子页面（如 Tumblr 博客名），
// 未设置时客户端用平台的主页面
type DefaultPage struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;uniqueIndex:idx_default_page_user_platform,priority:1"`
	PlatformID uint64 `gorm:"not null;uniqueIndex:idx_default_page_user_platform,priority:2"`
	PageID     string `gorm:"type:varchar(100);not null"`
}

func (DefaultPage) TableName() string {
	return "default_pages"
}
