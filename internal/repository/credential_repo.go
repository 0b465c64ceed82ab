package repository

import (
	"context"
	"errors"

	"SocialHub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialRepo interface {
	// SaveOrUpdate 按 (user_id, platform_id) 原子 Upsert，重新授权覆盖旧凭据
	SaveOrUpdate(ctx context.Context, cred *model.Credential) error
	// Get 不存在时返回 (nil, nil)
	Get(ctx context.Context, userID, platformID uint64) (*model.Credential, error)
	// ListAll 快照任务用，取全部平台的全部凭据
	ListAll(ctx context.Context) ([]*model.Credential, error)
	Delete(ctx context.Context, userID, platformID uint64) error
}

type credentialRepoImpl struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepo {
	return &credentialRepoImpl{db: db}
}

func (r *credentialRepoImpl) SaveOrUpdate(ctx context.Context, cred *model.Credential) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"token",
			"token_secret",
			"expires_at",
			"updated_at",
		}),
	}).Create(cred).Error
}

func (r *credentialRepoImpl) Get(ctx context.Context, userID, platformID uint64) (*model.Credential, error) {
	var cred model.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform_id = ?", userID, platformID).
		First(&cred).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepoImpl) ListAll(ctx context.Context) ([]*model.Credential, error) {
	creds := make([]*model.Credential, 0)
	result := r.db.WithContext(ctx).Find(&creds)
	if result.Error != nil {
		return nil, result.Error
	}
	return creds, nil
}

func (r *credentialRepoImpl) Delete(ctx context.Context, userID, platformID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND platform_id = ?", userID, platformID).
		Delete(&model.Credential{}).Error
}
