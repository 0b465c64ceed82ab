package cron

import (
	log "log/slog"

	"SocialHub/internal/job"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine      *cron.Cron
	snapshotJob *job.FollowersSnapshotJob
	spec        string
}

func NewCronManager(snapshotJob *job.FollowersSnapshotJob, spec string) *Manager {
	if spec == "" {
		spec = "@daily"
	}
	return &Manager{
		engine:      cron.New(cron.WithSeconds()),
		snapshotJob: snapshotJob,
		spec:        spec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.spec, s.snapshotJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
