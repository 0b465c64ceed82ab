package wire

import (
	"time"

	"SocialHub/internal/api"
	"SocialHub/internal/api/config"
	"SocialHub/internal/api/handler"
	"SocialHub/internal/job"
	"SocialHub/internal/pkg/cron"
	"SocialHub/internal/platform"
	"SocialHub/internal/repository"
	"SocialHub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	credRepo := repository.NewCredentialRepository(db)
	followerRepo := repository.NewFollowersCountRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	pageRepo := repository.NewDefaultPageRepository(db)

	factory := platform.NewFactory(map[platform.Name]platform.AppKey{
		platform.LinkedIn: {ClientKey: cfg.Platforms.LinkedIn.ClientKey, ClientSecret: cfg.Platforms.LinkedIn.ClientSecret},
		platform.Tumblr:   {ClientKey: cfg.Platforms.Tumblr.ClientKey, ClientSecret: cfg.Platforms.Tumblr.ClientSecret},
		platform.Twitter:  {ClientKey: cfg.Platforms.Twitter.ClientKey, ClientSecret: cfg.Platforms.Twitter.ClientSecret},
	})

	platformService := service.NewPlatformService(
		factory,
		service.NewRedisStateStore(),
		credRepo,
		pageRepo,
		followerRepo,
		cfg.Server.BaseDomain,
	)
	statsService := service.NewStatsService(statsRepo, followerRepo)

	handlers := &api.HandlersGroup{
		PlatformHandler: handler.NewPlatformHandler(platformService),
		StatsHandler:    handler.NewStatsHandler(statsService),
		MediaHandler:    handler.NewMediaHandler(),
	}

	router := api.SetupRouter(handlers)

	snapshotJob := job.NewFollowersSnapshotJob(
		factory,
		credRepo,
		followerRepo,
		cfg.Snapshot.Parallelism,
		time.Duration(cfg.Snapshot.TimeoutSeconds)*time.Second,
	)
	cronMgr := cron.NewCronManager(snapshotJob, cfg.Snapshot.Spec)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
