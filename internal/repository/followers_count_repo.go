package repository

import (
	"context"
	"time"

	"SocialHub/internal/model"

	"gorm.io/gorm"
)

type FollowersCountRepo interface {
	Create(ctx context.Context, row *model.FollowersCount) error
	// CreateBatch 快照任务的整批落库，一次事务写入
	CreateBatch(ctx context.Context, rows []*model.FollowersCount) error
	// ListWindow 取 [begin, end) 窗口内的采样，时间倒序
	ListWindow(ctx context.Context, userID, platformID uint64, begin, end time.Time) ([]*model.FollowersCount, error)
}

type followersCountRepoImpl struct {
	db *gorm.DB
}

func NewFollowersCountRepository(db *gorm.DB) FollowersCountRepo {
	return &followersCountRepoImpl{db: db}
}

func (r *followersCountRepoImpl) Create(ctx context.Context, row *model.FollowersCount) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *followersCountRepoImpl) CreateBatch(ctx context.Context, rows []*model.FollowersCount) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *followersCountRepoImpl) ListWindow(ctx context.Context, userID, platformID uint64, begin, end time.Time) ([]*model.FollowersCount, error) {
	rows := make([]*model.FollowersCount, 0)
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
