package handler

import (
	"context"
	"io"

	"SocialHub/internal/api/dto"
	"SocialHub/internal/pkg/minio"
	"SocialHub/internal/pkg/response"
	"SocialHub/internal/platform"
	"SocialHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type PlatformHandler struct {
	platformSvc service.PlatformService
}

func NewPlatformHandler(platformSvc service.PlatformService) *PlatformHandler {
	return &PlatformHandler{platformSvc: platformSvc}
}

// provider 解析路径中的平台名，不认识的平台直接回错误
func (s *PlatformHandler) provider(c *gin.Context) (platform.Name, bool) {
	name, ok := platform.ParseName(c.Param("provider"))
	if !ok {
		response.Error(c, service.ErrPlatformUnknown)
		return "", false
	}
	return name, true
}

// Auth 发起授权，前端拿到地址后整页跳转到平台授权页
func (s *PlatformHandler) Auth(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	redirectURL := c.Query("redirect_url")

	authURL, err := s.platformSvc.AuthorizationURL(c.Request.Context(), userID, name, redirectURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AuthURLDTO{AuthorizationURL: authURL})
}

// AuthCallback 平台授权页回跳后，前端把完整回调地址转发到这里换长期凭据
func (s *PlatformHandler) AuthCallback(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	redirectURL, err := s.platformSvc.CompleteAuthorization(c.Request.Context(), userID, name, c.Request.URL.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AuthCallbackDTO{RedirectURL: redirectURL})
}

func (s *PlatformHandler) Disconnect(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	if err := s.platformSvc.Disconnect(c.Request.Context(), userID, name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PlatformHandler) GetProfile(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	profile, err := s.platformSvc.GetProfile(c.Request.Context(), userID, name)
	if err != nil {
		response.Error(c, err)
		return
	}

	var result dto.ProfileDTO
	if err := copier.Copy(&result, profile); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, result)
}

func (s *PlatformHandler) GetPosts(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	posts, err := s.platformSvc.GetPosts(c.Request.Context(), userID, name)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := make([]dto.PostViewDTO, 0, len(posts))
	if err := copier.Copy(&result, posts); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, result)
}

func (s *PlatformHandler) GetPost(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.platformSvc.GetPost(c.Request.Context(), userID, name, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var result dto.PostViewDTO
	if err := copier.Copy(&result, post); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, result)
}

func (s *PlatformHandler) DeletePost(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.platformSvc.DeletePost(c.Request.Context(), userID, name, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreatePost 发布帖子。媒体先经 /media/upload 暂存到草稿桶，这里按对象名取回
func (s *PlatformHandler) CreatePost(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Text == "" && len(req.MediaKeys) == 0 && len(req.URLs) == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	draft := &platform.PostDraft{Text: req.Text, URLs: req.URLs}
	for _, key := range req.MediaKeys {
		info, err := minio.StatFile(c.Request.Context(), key)
		if err != nil {
			response.Error(c, service.ErrFileNotExist)
			return
		}
		objectName := key
		draft.Files = append(draft.Files, platform.DraftFile{
			Name:        objectName,
			ContentType: info.ContentType,
			Size:        info.Size,
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				return minio.OpenFile(ctx, objectName)
			},
		})
	}

	postID, err := s.platformSvc.Publish(c.Request.Context(), userID, name, draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.PublishResultDTO{PostID: postID})
}

func (s *PlatformHandler) SetDefaultPage(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	var req dto.DefaultPageDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.platformSvc.SetDefaultPage(c.Request.Context(), userID, name, req.PageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PlatformHandler) GetDefaultPage(c *gin.Context) {
	name, ok := s.provider(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")

	pageID, err := s.platformSvc.GetDefaultPage(c.Request.Context(), userID, name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.DefaultPageDTO{PageID: pageID})
}
