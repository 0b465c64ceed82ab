package service

import (
	"context"
	"log/slog"
	"time"

	"SocialHub/internal/model"
	"SocialHub/internal/platform"
	"SocialHub/internal/repository"
)

// StatsSummary 窗口内全部汇总行再聚合的结果，空窗口时各项为零
type StatsSummary struct {
	LikesSum    int     `json:"likes_sum"`
	LikesAvg    float64 `json:"likes_avg"`
	SharesSum   int     `json:"shares_sum"`
	SharesAvg   float64 `json:"shares_avg"`
	CommentsSum int     `json:"comments_sum"`
	CommentsAvg float64 `json:"comments_avg"`
}

type StatsService interface {
	// FollowersStats 粉丝数采样序列，时间倒序
	FollowersStats(ctx context.Context, userID uint64, name platform.Name, begin, end *time.Time) ([]*model.FollowersCount, error)
	// GeneralStats 互动汇总原始行，时间倒序
	GeneralStats(ctx context.Context, userID uint64, name platform.Name, begin, end *time.Time) ([]*model.Stats, error)
	// Summary 把窗口内的汇总行再聚合成一行
	Summary(ctx context.Context, userID uint64, name platform.Name, begin, end *time.Time) (*StatsSummary, error)
}

type StatsServiceImpl struct {
	statsRepo    repository.StatsRepo
	followerRepo repository.FollowersCountRepo
}

func NewStatsService(statsRepo repository.StatsRepo, followerRepo repository.FollowersCountRepo) StatsService {
	return &StatsServiceImpl{statsRepo: statsRepo, followerRepo: followerRepo}
}

// window 补齐窗口边界：起点缺省取纪元零点，终点缺省取当前时刻
func window(begin, end *time.Time) (time.Time, time.Time) {
	b := time.Unix(0, 0)
	if begin != nil {
		b = *begin
	}
	e := time.Now()
	if end != nil {
		e = *end
	}
	return b, e
}

func (s *StatsServiceImpl) FollowersStats(ctx context.Context, userID uint64, name platform.Name, begin, end *time.Time) ([]*model.FollowersCount, error) {
	b, e := window(begin, end)
	rows, err := s.followerRepo.ListWindow(ctx, userID, name.ID(), b, e)
	if err != nil {
		slog.ErrorContext(ctx, "list followers samples failed", "platform", name, "error", err)
		return nil, UnExpectedError
	}
	return rows, nil
}

func (s *StatsServiceImpl) GeneralStats(ctx context.Context, userID uint64, name platform.Name, begin, end *time.Time) ([]*model.Stats, error) {
	b, e := window(begin, end)
	rows, err := s.statsRepo.ListWindow(ctx, userID, name.ID(), b, e)
	if err != nil {
		slog.ErrorContext(ctx, "list stats failed", "platform", name, "error", err)
		return nil, UnExpectedError
	}
	return rows, nil
}

func (s *StatsServiceImpl) Summary(ctx context.Context, userID uint64, name platform.Name, begin, end *time.Time) (*StatsSummary, error) {
	rows, err := s.GeneralStats(ctx, userID, name, begin, end)
	if err != nil {
		return nil, err
	}

	summary := &StatsSummary{}
	if len(rows) == 0 {
		return summary, nil
	}
	for _, row := range rows {
		summary.LikesSum += row.LikesSum
		summary.SharesSum += row.SharesSum
		summary.CommentsSum += row.CommentsSum
	}
	n := float64(len(rows))
	summary.LikesAvg = float64(summary.LikesSum) / n
	summary.SharesAvg = float64(summary.SharesSum) / n
	summary.CommentsAvg = float64(summary.CommentsSum) / n
	return summary, nil
}
