package handler

import (
	"strconv"
	"time"

	"SocialHub/internal/api/dto"
	"SocialHub/internal/pkg/response"
	"SocialHub/internal/platform"
	"SocialHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type StatsHandler struct {
	statsSvc service.StatsService
}

func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

func (s *StatsHandler) provider(c *gin.Context) (platform.Name, bool) {
	name, ok := platform.ParseName(c.Param("provider"))
	if !ok {
		response.Error(c, service.ErrPlatformUnknown)
		return "", false
	}
	return name, true
}

// window 解析查询窗口，date_begin/date_end 是 Unix 秒，都可缺省
func (s *StatsHandler) window(c *gin.Context) (begin, end *time.Time, ok bool) {
	parse := func(key string) (*time.Time, bool) {
		raw := c.Query(key)
		if raw == "" {
			return nil, true
		}
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		t := time.Unix(sec, 0)
		return &t, true
	}

	begin, ok = parse("date_begin")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return nil, nil, false
	}
	end, ok = parse("date_end")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return nil, nil, false
	}
	return begin, end, true
}

func (s *StatsHandler) Followers(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	begin, end, ok := s.window(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	rows, err := s.statsSvc.FollowersStats(c.Request.Context(), userID, name, begin, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := make([]dto.FollowersSampleDTO, 0, len(rows))
	if err := copier.Copy(&result, rows); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, result)
}

func (s *StatsHandler) General(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	begin, end, ok := s.window(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	rows, err := s.statsSvc.GeneralStats(c.Request.Context(), userID, name, begin, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := make([]dto.StatsRowDTO, 0, len(rows))
	if err := copier.Copy(&result, rows); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, result)
}

func (s *StatsHandler) Summary(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	begin, end, ok := s.window(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	summary, err := s.statsSvc.Summary(c.Request.Context(), userID, name, begin, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}
