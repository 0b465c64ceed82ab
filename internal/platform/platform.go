package platform

import (
	"context"
	"io"
	"time"
)

// Name 平台标识，与数据库中的 platform_id 一一对应
type Name string

const (
	LinkedIn Name = "LINKEDIN"
	Tumblr   Name = "TUMBLR"
	Twitter  Name = "TWITTER"
)

var platformIDs = map[Name]uint64{
	LinkedIn: 1,
	Tumblr:   2,
	Twitter:  3,
}

// ID 返回平台的持久化编号
func (n Name) ID() uint64 {
	return platformIDs[n]
}

// NameByID 根据持久化编号反查平台
func NameByID(id uint64) (Name, bool) {
	for name, pid := range platformIDs {
		if pid == id {
			return name, true
		}
	}
	return "", false
}

// ParseName 解析请求路径中的平台名
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case LinkedIn, Tumblr, Twitter:
		return Name(s), true
	}
	switch s {
	case "linkedin":
		return LinkedIn, true
	case "tumblr":
		return Tumblr, true
	case "twitter":
		return Twitter, true
	}
	return "", false
}

// AppKey 平台方下发的应用凭据，启动时从配置加载，进程内只读
type AppKey struct {
	ClientKey    string
	ClientSecret string
}

// Credential 单个用户在单个平台上的访问令牌。
// OAuth2 平台只有 Token 和过期时间，OAuth1 平台有 Token + TokenSecret 且永不过期
type Credential struct {
	Token       string
	TokenSecret string
	ExpiresAt   *time.Time
}

// Profile 归一化后的身份快照
type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Followers int      `json:"followers"`
	Pages     []string `json:"pages,omitempty"`
}

type EmbedKind string

const (
	EmbedImage EmbedKind = "image"
	EmbedVideo EmbedKind = "video"
)

// Embed 帖子内嵌媒体
type Embed struct {
	Kind     EmbedKind `json:"kind"`
	URL      string    `json:"url"`
	CoverURL string    `json:"cover_url,omitempty"`
}

// PostView 归一化后的帖子
type PostView struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Shares    int       `json:"shares"`
	Comments  int       `json:"comments"`
	Text      string    `json:"text,omitempty"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	Embeds    []Embed   `json:"embeds,omitempty"`
}

// DraftFile 待发布的单个媒体文件，内容按需打开，消费方负责关闭
type DraftFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func(ctx context.Context) (io.ReadCloser, error)
}

// PostDraft 出站草稿，只作为 Publish 的一次性输入，不落库
type PostDraft struct {
	Text  string
	Files []DraftFile
	URLs  []string
}

// Client 平台客户端契约，三个平台各自独立实现
type Client interface {
	Platform() Name
	GetProfile(ctx context.Context) (*Profile, error)
	GetPosts(ctx context.Context) ([]PostView, error)
	GetPost(ctx context.Context, postID string) (*PostView, error)
	DeletePost(ctx context.Context, postID string) error
	// Publish 发布草稿并返回平台侧帖子 ID。
	// 实现必须保证本地暂存文件在任何退出路径上都被清理
	Publish(ctx context.Context, draft *PostDraft) (string, error)
	// GetFollowersCount 用平台最便宜的途径取当前粉丝数
	GetFollowersCount(ctx context.Context) (int, error)
}

// OAuth2Authorizer OAuth2 授权流程：跳转 -> 回调换 token，无需服务端预置状态
type OAuth2Authorizer interface {
	AuthorizationURL(callbackURL string) string
	ExchangeToken(ctx context.Context, callbackURL, rawCallbackURL string) (*Credential, error)
}

// OAuth1Authorizer OAuth1 三步握手。RequestToken 的结果必须由调用方暂存，
// 回调到达时原样传回 ExchangeToken
type OAuth1Authorizer interface {
	RequestToken(ctx context.Context, callbackURL string) (token, secret string, err error)
	AuthorizationURL(requestToken string) string
	ExchangeToken(ctx context.Context, rawCallbackURL, requestToken, requestSecret string) (*Credential, error)
}

// ClientFactory 按平台构造客户端。page 指定目标子页面（如 Tumblr 博客名），空串取默认
type ClientFactory interface {
	Client(name Name, cred Credential, page string) (Client, error)
}
