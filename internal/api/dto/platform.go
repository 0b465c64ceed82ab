package dto

import "time"

// AuthURLDTO 发起授权的返回，前端拿到后整页跳转
type AuthURLDTO struct {
	AuthorizationURL string `json:"authorization_url"`
}

// CreatePostDTO 发帖请求。MediaKeys 是此前上传到草稿桶的对象名
type CreatePostDTO struct {
	Text      string   `json:"text" validate:"max=5000"`
	MediaKeys []string `json:"media_keys" validate:"max=9"`
	URLs      []string `json:"urls" validate:"max=9"`
}

type PublishResultDTO struct {
	PostID string `json:"post_id"`
}

// AuthCallbackDTO 授权完成后的返回，RedirectURL 是发起授权时登记的回跳地址
type AuthCallbackDTO struct {
	RedirectURL string `json:"redirect_url,omitempty"`
}

type MediaUploadDTO struct {
	FileKey  string `json:"file_key"`
	MimeType string `json:"mime_type"`
}

type DefaultPageDTO struct {
	PageID string `json:"page_id" binding:"required" validate:"min=1,max=100"`
}

// ProfileDTO 归一化身份信息
type ProfileDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Followers int      `json:"followers"`
	Pages     []string `json:"pages,omitempty"`
}

type EmbedDTO struct {
	Kind     string `json:"kind"`
	URL      string `json:"url"`
	CoverURL string `json:"cover_url,omitempty"`
}

// PostViewDTO 归一化帖子
type PostViewDTO struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Likes     int        `json:"likes"`
	Shares    int        `json:"shares"`
	Comments  int        `json:"comments"`
	Text      string     `json:"text,omitempty"`
	Hashtags  []string   `json:"hashtags,omitempty"`
	Embeds    []EmbedDTO `json:"embeds,omitempty"`
}
