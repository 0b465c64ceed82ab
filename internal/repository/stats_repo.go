package repository

import (
	"context"
	"time"

	"SocialHub/internal/model"

	"gorm.io/gorm"
)

type StatsRepo interface {
	// Create 追加一行汇总，产出方在本服务之外
	Create(ctx context.Context, row *model.Stats) error
	// ListWindow 取 [begin, end) 窗口内的汇总行，时间倒序
	ListWindow(ctx context.Context, userID, platformID uint64, begin, end time.Time) ([]*model.Stats, error)
}

type statsRepoImpl struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepo {
	return &statsRepoImpl{db: db}
}

func (r *statsRepoImpl) Create(ctx context.Context, row *model.Stats) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *statsRepoImpl) ListWindow(ctx context.Context, userID, platformID uint64, begin, end time.Time) ([]*model.Stats, error) {
	rows := make([]*model.Stats, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND platform_id = ?", userID, platformID).
		Where("timestamp >= ? AND timestamp < ?", begin, end).
		Order("timestamp DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
