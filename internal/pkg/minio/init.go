package minio

import (
	"context"
	"fmt"
	log "log/slog"

	"SocialHub/internal/api/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// DraftBucket 草稿附件暂存桶，附件从上传到被发布消费只活很短时间
	DraftBucket string
)

// Init 初始化 MinIO 客户端
func Init() error {
	cfg := config.Cfg.MinIO

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx := context.Background()
	if _, err = client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}

	Client = client
	DraftBucket = cfg.DraftBucket
	return ensureDraftBucketLifecycle(ctx)
}

// ensureDraftBucketLifecycle 草稿桶一天过期，清掉没被发布消费的附件
func ensureDraftBucketLifecycle(ctx context.Context) error {
	const targetDays = 1

	lcConfig, err := Client.GetBucketLifecycle(ctx, DraftBucket)
	if err != nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	for _, rule := range lcConfig.Rules {
		if rule.Status == "Enabled" &&
			rule.Expiration.Days == targetDays &&
			rule.RuleFilter.Prefix == "" {
			log.Info("draft bucket lifecycle already configured", "ruleID", rule.ID)
			return nil
		}
	}

	lcConfig.Rules = append(lcConfig.Rules, lifecycle.Rule{
		ID:         "DraftAutoDeleteRule",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: targetDays},
	})
	return Client.SetBucketLifecycle(ctx, DraftBucket, lcConfig)
}
