package dto

import "time"

// FollowersSampleDTO 单次粉丝数采样
type FollowersSampleDTO struct {
	Timestamp time.Time `json:"timestamp"`
	Followers int       `json:"followers"`
	Automatic bool      `json:"automatic"`
}

// StatsRowDTO 单窗口互动汇总行
type StatsRowDTO struct {
	Timestamp   time.Time `json:"timestamp"`
	LikesSum    int       `json:"likes_sum"`
	LikesAvg    float64   `json:"likes_avg"`
	SharesSum   int       `json:"shares_sum"`
	SharesAvg   float64   `json:"shares_avg"`
	CommentsSum int       `json:"comments_sum"`
	CommentsAvg float64   `json:"comments_avg"`
}
