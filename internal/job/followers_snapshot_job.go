package job

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"SocialHub/internal/model"
	"SocialHub/internal/pkg/logger"
	"SocialHub/internal/platform"
	"SocialHub/internal/repository"
	"SocialHub/internal/service"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultParallelism = 4
	defaultPerCredTime = 30 * time.Second
)

// FollowersSnapshotJob 遍历全部平台凭据采样粉丝数。
// 单个凭据失败只记日志跳过，不能影响同批其他凭据
type FollowersSnapshotJob struct {
	gateway      service.PlatformGateway
	credRepo     repository.CredentialRepo
	followerRepo repository.FollowersCountRepo
	parallelism  int
	perCredTime  time.Duration
}

func NewFollowersSnapshotJob(
	gateway service.PlatformGateway,
	credRepo repository.CredentialRepo,
	followerRepo repository.FollowersCountRepo,
	parallelism int,
	perCredTimeout time.Duration,
) *FollowersSnapshotJob {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	if perCredTimeout <= 0 {
		perCredTimeout = defaultPerCredTime
	}
	return &FollowersSnapshotJob{
		gateway:      gateway,
		credRepo:     credRepo,
		followerRepo: followerRepo,
		parallelism:  parallelism,
		perCredTime:  perCredTimeout,
	}
}

func (s *FollowersSnapshotJob) Run() {
	traceID := "job-snapshot-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	creds, err := s.credRepo.ListAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list credentials error", "err", err)
		return
	}
	log.InfoContext(ctx, "start followers snapshot job", "credentials", len(creds))

	var mu sync.Mutex
	rows := make([]*model.FollowersCount, 0, len(creds))

	g := &errgroup.Group{}
	g.SetLimit(s.parallelism)
	for _, cred := range creds {
		g.Go(func() error {
			row := s.sample(ctx, cred)
			if row == nil {
				return nil
			}
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := s.followerRepo.CreateBatch(ctx, rows); err != nil {
		log.ErrorContext(ctx, "save followers snapshot batch error", "rows", len(rows), "err", err)
		return
	}
	log.InfoContext(ctx, "followers snapshot job finished",
		"sampled", len(rows), "skipped", len(creds)-len(rows))
}

// sample 采样单个凭据，失败返回 nil
func (s *FollowersSnapshotJob) sample(ctx context.Context, cred *model.Credential) *model.FollowersCount {
	name, ok := platform.NameByID(cred.PlatformID)
	if !ok {
		log.WarnContext(ctx, "skip credential with unknown platform",
			"platform_id", cred.PlatformID, "user_id", cred.UserID)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.perCredTime)
	defer cancel()

	client, err := s.gateway.Client(name, platform.Credential{
		Token:       cred.Token,
		TokenSecret: cred.TokenSecret,
		ExpiresAt:   cred.ExpiresAt,
	}, "")
	if err != nil {
		log.WarnContext(ctx, "skip credential, build client error",
			"platform", name, "user_id", cred.UserID, "err", err)
		return nil
	}

	count, err := client.GetFollowersCount(callCtx)
	if err != nil {
		log.WarnContext(ctx, "skip credential, fetch followers error",
			"platform", name, "user_id", cred.UserID, "err", err)
		return nil
	}

	return &model.FollowersCount{
		UserID:     cred.UserID,
		PlatformID: cred.PlatformID,
		Timestamp:  time.Now(),
		Followers:  count,
		Automatic:  true,
	}
}
