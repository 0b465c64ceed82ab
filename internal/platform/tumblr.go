package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SocialHub/internal/pkg/staging"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	tumblrAPIBase          = "https://api.tumblr.com/v2"
	tumblrRequestTokenURL  = "https://www.tumblr.com/oauth/request_token"
	tumblrAuthorizeBaseURL = "https://www.tumblr.com/oauth/authorize"
	tumblrAccessTokenURL   = "https://www.tumblr.com/oauth/access_token"

	// 单次拉取帖子的接口上限
	tumblrMaxPageSize = 50
)

func tumblrOAuthConfig(key AppKey, callbackURL string) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    key.ClientKey,
		ConsumerSecret: key.ClientSecret,
		CallbackURL:    callbackURL,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: tumblrRequestTokenURL,
			AuthorizeURL:    tumblrAuthorizeBaseURL,
			AccessTokenURL:  tumblrAccessTokenURL,
		},
	}
}

// tumblrAuthorizer Tumblr OAuth1 三步握手
type tumblrAuthorizer struct {
	key AppKey
}

func newTumblrAuthorizer(key AppKey) *tumblrAuthorizer {
	return &tumblrAuthorizer{key: key}
}

func (a *tumblrAuthorizer) RequestToken(ctx context.Context, callbackURL string) (string, string, error) {
	token, secret, err := tumblrOAuthConfig(a.key, callbackURL).RequestToken()
	if err != nil {
		return "", "", errors.Wrap(ErrAuthExchange, err.Error())
	}
	return token, secret, nil
}

func (a *tumblrAuthorizer) AuthorizationURL(requestToken string) string {
	return tumblrAuthorizeBaseURL + "?oauth_token=" + url.QueryEscape(requestToken)
}

func (a *tumblrAuthorizer) ExchangeToken(ctx context.Context, rawCallbackURL, requestToken, requestSecret string) (*Credential, error) {
	verifier, err := callbackVerifier(rawCallbackURL)
	if err != nil {
		return nil, err
	}

	token, secret, err := tumblrOAuthConfig(a.key, "").AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, errors.Wrap(ErrAuthExchange, err.Error())
	}
	return &Credential{Token: token, TokenSecret: secret}, nil
}

// callbackVerifier 从回调地址中取出 oauth_verifier，缺失视为交换失败
func callbackVerifier(rawCallbackURL string) (string, error) {
	parsed, err := url.Parse(rawCallbackURL)
	if err != nil {
		return "", errors.Wrap(ErrAuthExchange, "malformed callback url")
	}
	verifier := parsed.Query().Get("oauth_verifier")
	if verifier == "" {
		return "", errors.Wrap(ErrAuthExchange, "oauth_verifier missing from callback")
	}
	return verifier, nil
}

// tumblrClient Tumblr 客户端，所有请求走 OAuth1 签名
type tumblrClient struct {
	key     AppKey
	cred    Credential
	page    string
	apiBase string
	// 暂存目录的根，空串用系统默认
	stageRoot string
	http      *resty.Client
}

func newTumblrClient(key AppKey, cred Credential, page string, timeout time.Duration) *tumblrClient {
	signer := tumblrOAuthConfig(key, "").Client(context.Background(), oauth1.NewToken(cred.Token, cred.TokenSecret))
	httpClient := resty.NewWithClient(signer).SetTimeout(timeout)

	return &tumblrClient{
		key:     key,
		cred:    cred,
		page:    page,
		apiBase: tumblrAPIBase,
		http:    httpClient,
	}
}

func (c *tumblrClient) Platform() Name {
	return Tumblr
}

func (c *tumblrClient) userInfo(ctx context.Context) (*tumblrUser, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.apiBase + "/user/info")
	if err != nil {
		return nil, errors.Wrap(err, "tumblr user/info")
	}
	if resp.IsError() {
		return nil, statusError(Tumblr, resp.StatusCode(), resp.Body())
	}

	var envelope tumblrEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, errors.Wrap(err, "tumblr user/info decode")
	}
	if envelope.Response.User == nil {
		return nil, &UpstreamError{Platform: Tumblr, StatusCode: resp.StatusCode(), Body: "user missing from response"}
	}
	return envelope.Response.User, nil
}

// blogName 发帖和查帖的目标博客：显式指定的优先，否则取主博客
func (c *tumblrClient) blogName(ctx context.Context) (string, error) {
	if c.page != "" {
		return c.page, nil
	}
	blog, err := c.blogInfo(ctx)
	if err != nil {
		return "", err
	}
	return blog.Name, nil
}

// blogInfo 目标博客的完整描述：显式指定的优先，其次主博客，再退回第一个
func (c *tumblrClient) blogInfo(ctx context.Context) (*tumblrBlog, error) {
	user, err := c.userInfo(ctx)
	if err != nil {
		return nil, err
	}

	var primary *tumblrBlog
	for i := range user.Blogs {
		blog := &user.Blogs[i]
		if blog.Name == c.page && c.page != "" {
			return blog, nil
		}
		if primary == nil && blog.Primary {
			primary = blog
		}
	}
	if primary != nil {
		return primary, nil
	}
	if len(user.Blogs) > 0 {
		return &user.Blogs[0], nil
	}
	return nil, &UpstreamError{Platform: Tumblr, StatusCode: http.StatusOK, Body: "account has no blogs"}
}

func (c *tumblrClient) GetProfile(ctx context.Context) (*Profile, error) {
	user, err := c.userInfo(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeTumblrProfile(user, c.page), nil
}

func (c *tumblrClient) GetFollowersCount(ctx context.Context) (int, error) {
	profile, err := c.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	return profile.Followers, nil
}

func (c *tumblrClient) GetPosts(ctx context.Context) ([]PostView, error) {
	blog, err := c.blogInfo(ctx)
	if err != nil {
		return nil, err
	}

	// 按博客的帖子总数取整页，受接口单次上限约束
	limit := blog.Posts
	if limit <= 0 || limit > tumblrMaxPageSize {
		limit = tumblrMaxPageSize
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"notes_info": "true",
			"limit":      strconv.Itoa(limit),
		}).
		Get(c.apiBase + "/blog/" + blog.Name + "/posts")
	if err != nil {
		return nil, errors.Wrap(err, "tumblr posts")
	}
	if resp.IsError() {
		return nil, statusError(Tumblr, resp.StatusCode(), resp.Body())
	}

	// 逐条解码，单条坏帖跳过，不影响整批
	var envelope struct {
		Response struct {
			Posts []json.RawMessage `json:"posts"`
		} `json:"response"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, errors.Wrap(err, "tumblr posts decode")
	}

	views := make([]PostView, 0, len(envelope.Response.Posts))
	for _, raw := range envelope.Response.Posts {
		var post tumblrPost
		if err := json.Unmarshal(raw, &post); err != nil {
			continue
		}
		views = append(views, normalizeTumblrPost(&post))
	}
	return views, nil
}

func (c *tumblrClient) GetPost(ctx context.Context, postID string) (*PostView, error) {
	blog, err := c.blogName(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":         postID,
			"notes_info": "true",
		}).
		Get(c.apiBase + "/blog/" + blog + "/posts")
	if err != nil {
		return nil, errors.Wrap(err, "tumblr post")
	}
	if resp.IsError() {
		return nil, statusError(Tumblr, resp.StatusCode(), resp.Body())
	}

	var envelope tumblrEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, errors.Wrap(err, "tumblr post decode")
	}
	if len(envelope.Response.Posts) == 0 {
		return nil, &UpstreamError{Platform: Tumblr, StatusCode: http.StatusNotFound, Body: "post not found"}
	}

	view := normalizeTumblrPost(&envelope.Response.Posts[0])
	return &view, nil
}

func (c *tumblrClient) DeletePost(ctx context.Context, postID string) error {
	blog, err := c.blogName(ctx)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"id": postID}).
		Post(c.apiBase + "/blog/" + blog + "/post/delete")
	if err != nil {
		return errors.Wrap(err, "tumblr delete post")
	}
	if resp.IsError() {
		return statusError(Tumblr, resp.StatusCode(), resp.Body())
	}
	return nil
}

// Publish 发布草稿。纯文本走 text 帖；带附件时先把文件和远程链接
// 全部落到本地暂存目录，按声明的内容类型分成图片/视频两组，分别建
// photo / video 帖。暂存文件无论成败都会被清理
func (c *tumblrClient) Publish(ctx context.Context, draft *PostDraft) (string, error) {
	blog, err := c.blogName(ctx)
	if err != nil {
		return "", err
	}

	if len(draft.Files) == 0 && len(draft.URLs) == 0 {
		return c.createPost(ctx, blog, map[string]string{
			"type": "text",
			"body": draft.Text,
		}, nil)
	}

	dir, err := staging.NewDirIn(c.stageRoot)
	if err != nil {
		return "", errors.Wrap(err, "tumblr staging")
	}
	defer dir.Cleanup()

	var images, videos []staging.File
	for _, file := range draft.Files {
		reader, err := file.Open(ctx)
		if err != nil {
			return "", errors.Wrap(err, "tumblr open draft file")
		}
		staged, err := dir.Stage(file.Name, file.ContentType, reader)
		_ = reader.Close()
		if err != nil {
			return "", errors.Wrap(err, "tumblr stage draft file")
		}
		images, videos = groupStaged(staged, images, videos)
	}
	for _, remote := range draft.URLs {
		staged, err := c.stageRemote(ctx, dir, remote)
		if err != nil {
			return "", err
		}
		images, videos = groupStaged(staged, images, videos)
	}

	var lastID string
	if len(images) > 0 {
		form := map[string]string{"type": "photo", "caption": draft.Text}
		id, err := c.createPost(ctx, blog, form, images)
		if err != nil {
			return "", err
		}
		lastID = id
	}
	if len(videos) > 0 {
		form := map[string]string{"type": "video", "caption": draft.Text}
		id, err := c.createPost(ctx, blog, form, videos)
		if err != nil {
			return "", err
		}
		lastID = id
	}
	return lastID, nil
}

func groupStaged(staged staging.File, images, videos []staging.File) ([]staging.File, []staging.File) {
	if strings.HasPrefix(staged.ContentType, "video") {
		return images, append(videos, staged)
	}
	return append(images, staged), videos
}

// stageRemote 下载远程附件到暂存目录，内容类型取响应声明的 Content-Type
func (c *tumblrClient) stageRemote(ctx context.Context, dir *staging.Dir, remote string) (staging.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, nil)
	if err != nil {
		return staging.File{}, errors.Wrap(err, "tumblr fetch attachment")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return staging.File{}, errors.Wrap(err, "tumblr fetch attachment")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return staging.File{}, &UpstreamError{Platform: Tumblr, StatusCode: resp.StatusCode, Body: "attachment download failed: " + remote}
	}

	name := remote
	if idx := strings.LastIndex(remote, "/"); idx >= 0 && idx < len(remote)-1 {
		name = remote[idx+1:]
	}
	return dir.Stage(name, resp.Header.Get("Content-Type"), resp.Body)
}

func (c *tumblrClient) createPost(ctx context.Context, blog string, form map[string]string, files []staging.File) (string, error) {
	req := c.http.R().SetContext(ctx).SetFormData(form)
	for i, file := range files {
		reader, err := file.Open()
		if err != nil {
			return "", errors.Wrap(err, "tumblr read staged file")
		}
		defer func(r io.ReadCloser) { _ = r.Close() }(reader)
		req.SetFileReader(fmt.Sprintf("data[%d]", i), file.Name, reader)
	}

	resp, err := req.Post(c.apiBase + "/blog/" + blog + "/post")
	if err != nil {
		return "", errors.Wrap(err, "tumblr create post")
	}
	if resp.IsError() {
		return "", statusError(Tumblr, resp.StatusCode(), resp.Body())
	}

	var envelope tumblrEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return "", errors.Wrap(err, "tumblr create post decode")
	}
	return strconv.FormatInt(envelope.Response.ID, 10), nil
}
