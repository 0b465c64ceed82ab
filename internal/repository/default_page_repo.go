package repository

import (
	"context"
	"errors"

	"SocialHub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPageRepo interface {
	SaveOrUpdate(ctx context.Context, page *model.DefaultPage) error
	// Get 不存在时返回 (nil, nil)
	Get(ctx context.Context, userID, platformID uint64) (*model.DefaultPage, error)
}

type defaultPageRepoImpl struct {
	db *gorm.DB
}

func NewDefaultPageRepository(db *gorm.DB) DefaultPageRepo {
	return &defaultPageRepoImpl{db: db}
}

func (r *defaultPageRepoImpl) SaveOrUpdate(ctx context.Context, page *model.DefaultPage) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"page_id"}),
	}).Create(page).Error
}

func (r *defaultPageRepoImpl) Get(ctx context.Context, userID, platformID uint64) (*model.DefaultPage, error) {
	var page model.DefaultPage
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform_id = ?", userID, platformID).
		First(&page).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}
