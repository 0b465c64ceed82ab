package service

import (
	"context"
	"testing"
	"time"

	"SocialHub/internal/model"
	"SocialHub/internal/platform"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	rows      []*model.Stats
	lastBegin time.Time
	lastEnd   time.Time
}

func (r *fakeStatsRepo) Create(context.Context, *model.Stats) error {
	return errors.New("not implemented")
}

func (r *fakeStatsRepo) ListWindow(ctx context.Context, userID, platformID uint64, begin, end time.Time) ([]*model.Stats, error) {
	r.lastBegin = begin
	r.lastEnd = end
	return r.rows, nil
}

type fakeFollowersListRepo struct {
	rows []*model.FollowersCount
}

func (r *fakeFollowersListRepo) Create(context.Context, *model.FollowersCount) error {
	return errors.New("not implemented")
}

func (r *fakeFollowersListRepo) CreateBatch(context.Context, []*model.FollowersCount) error {
	return errors.New("not implemented")
}

func (r *fakeFollowersListRepo) ListWindow(ctx context.Context, userID, platformID uint64, begin, end time.Time) ([]*model.FollowersCount, error) {
	return r.rows, nil
}

func TestStatsSummary_AggregatesWindow(t *testing.T) {
	statsRepo := &fakeStatsRepo{rows: []*model.Stats{
		{LikesSum: 10, SharesSum: 4, CommentsSum: 2},
		{LikesSum: 20, SharesSum: 6, CommentsSum: 0},
	}}
	svc := NewStatsService(statsRepo, &fakeFollowersListRepo{})

	summary, err := svc.Summary(context.Background(), 1, platform.LinkedIn, nil, nil)
	require.NoError(t, err)

	require.Equal(t, 30, summary.LikesSum)
	require.Equal(t, 10, summary.SharesSum)
	require.Equal(t, 2, summary.CommentsSum)
	require.InDelta(t, 15.0, summary.LikesAvg, 1e-9)
	require.InDelta(t, 5.0, summary.SharesAvg, 1e-9)
	require.InDelta(t, 1.0, summary.CommentsAvg, 1e-9)
}

func TestStatsSummary_EmptyWindowIsZero(t *testing.T) {
	svc := NewStatsService(&fakeStatsRepo{}, &fakeFollowersListRepo{})

	summary, err := svc.Summary(context.Background(), 1, platform.Tumblr, nil, nil)
	require.NoError(t, err)

	require.Zero(t, summary.LikesSum)
	require.Zero(t, summary.LikesAvg)
	require.Zero(t, summary.SharesSum)
	require.Zero(t, summary.SharesAvg)
	require.Zero(t, summary.CommentsSum)
	require.Zero(t, summary.CommentsAvg)
}

func TestStatsWindow_Defaults(t *testing.T) {
	statsRepo := &fakeStatsRepo{}
	svc := NewStatsService(statsRepo, &fakeFollowersListRepo{})

	before := time.Now()
	_, err := svc.GeneralStats(context.Background(), 1, platform.Twitter, nil, nil)
	require.NoError(t, err)

	// 起点缺省取纪元零点，终点缺省取当前时刻
	require.Equal(t, time.Unix(0, 0), statsRepo.lastBegin)
	require.False(t, statsRepo.lastEnd.Before(before))
	require.False(t, statsRepo.lastEnd.After(time.Now()))
}

func TestStatsWindow_ExplicitBounds(t *testing.T) {
	statsRepo := &fakeStatsRepo{}
	svc := NewStatsService(statsRepo, &fakeFollowersListRepo{})

	begin := time.Unix(1700000000, 0)
	end := time.Unix(1700086400, 0)
	_, err := svc.GeneralStats(context.Background(), 1, platform.Twitter, &begin, &end)
	require.NoError(t, err)

	require.Equal(t, begin, statsRepo.lastBegin)
	require.Equal(t, end, statsRepo.lastEnd)
}
