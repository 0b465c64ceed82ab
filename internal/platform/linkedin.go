package platform

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const linkedInAPIBase = "https://api.linkedin.com/v2"

var linkedInScopes = []string{"r_liteprofile", "r_organization_social", "w_member_social"}

func linkedInOAuthConfig(key AppKey, callbackURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     key.ClientKey,
		ClientSecret: key.ClientSecret,
		RedirectURL:  callbackURL,
		Scopes:       linkedInScopes,
		Endpoint:     linkedin.Endpoint,
	}
}

// linkedInAuthorizer LinkedIn OAuth2 授权码流程，无需服务端预置状态
type linkedInAuthorizer struct {
	key AppKey
}

func newLinkedInAuthorizer(key AppKey) *linkedInAuthorizer {
	return &linkedInAuthorizer{key: key}
}

func (a *linkedInAuthorizer) AuthorizationURL(callbackURL string) string {
	return linkedInOAuthConfig(a.key, callbackURL).AuthCodeURL("")
}

// ExchangeToken 用回调地址上的授权码换 access token，过期时间是绝对时刻
func (a *linkedInAuthorizer) ExchangeToken(ctx context.Context, callbackURL, rawCallbackURL string) (*Credential, error) {
	parsed, err := url.Parse(rawCallbackURL)
	if err != nil {
		return nil, errors.Wrap(ErrAuthExchange, "malformed callback url")
	}
	code := parsed.Query().Get("code")
	if code == "" {
		return nil, errors.Wrap(ErrAuthExchange, "code missing from callback")
	}

	token, err := linkedInOAuthConfig(a.key, callbackURL).Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(ErrAuthExchange, err.Error())
	}

	expiresAt := token.Expiry
	return &Credential{Token: token.AccessToken, ExpiresAt: &expiresAt}, nil
}

// linkedInClient LinkedIn v2 客户端，请求携带 Bearer token
type linkedInClient struct {
	key     AppKey
	cred    Credential
	apiBase string
	http    *resty.Client
}

func newLinkedInClient(key AppKey, cred Credential, timeout time.Duration) *linkedInClient {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetAuthToken(cred.Token).
		SetHeader("X-Restli-Protocol-Version", "2.0.0")

	return &linkedInClient{
		key:     key,
		cred:    cred,
		apiBase: linkedInAPIBase,
		http:    httpClient,
	}
}

func (c *linkedInClient) Platform() Name {
	return LinkedIn
}

func (c *linkedInClient) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().SetContext(ctx).Get(c.apiBase + path)
	if err != nil {
		return errors.Wrap(err, "linkedin get "+path)
	}
	if resp.IsError() {
		return statusError(LinkedIn, resp.StatusCode(), resp.Body())
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return errors.Wrap(err, "linkedin decode "+path)
		}
	}
	return nil
}

func (c *linkedInClient) me(ctx context.Context) (*linkedInMe, error) {
	var me linkedInMe
	path := "/me?projection=(id,localizedFirstName,localizedLastName,localizedHeadline,profilePicture(displayImage~:playableStreams))"
	if err := c.get(ctx, path, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *linkedInClient) GetProfile(ctx context.Context) (*Profile, error) {
	me, err := c.me(ctx)
	if err != nil {
		return nil, err
	}

	followers, err := c.GetFollowersCount(ctx)
	if err != nil {
		return nil, err
	}

	// 管理的公司主页名单，拿不到时不算失败
	var pages []string
	var acls linkedInOrganizationAcls
	aclPath := "/organizationalEntityAcls?q=roleAssignee&role=ADMINISTRATOR&projection=(elements*(organizationalTarget~(localizedName)))"
	if err := c.get(ctx, aclPath, &acls); err == nil {
		for _, element := range acls.Elements {
			if name := element.OrganizationalTarget.LocalizedName; name != "" {
				pages = append(pages, name)
			}
		}
	}

	return normalizeLinkedInProfile(me, followers, pages), nil
}

// GetFollowersCount 一度人脉规模是 LinkedIn 上最便宜的粉丝数途径
func (c *linkedInClient) GetFollowersCount(ctx context.Context) (int, error) {
	var me linkedInMe
	if err := c.get(ctx, "/me?projection=(id)", &me); err != nil {
		return 0, err
	}

	var sizes linkedInNetworkSizes
	if err := c.get(ctx, "/networkSizes/urn:li:person:"+me.ID+"?edgeType=CONNECTIONS", &sizes); err != nil {
		return 0, err
	}
	return sizes.FirstDegreeSize, nil
}

func (c *linkedInClient) personURN(ctx context.Context) (string, error) {
	var me linkedInMe
	if err := c.get(ctx, "/me?projection=(id)", &me); err != nil {
		return "", err
	}
	return "urn:li:person:" + me.ID, nil
}

func (c *linkedInClient) GetPosts(ctx context.Context) ([]PostView, error) {
	urn, err := c.personURN(ctx)
	if err != nil {
		return nil, err
	}

	path := "/ugcPosts?q=authors&authors=List(" + url.QueryEscape(urn) + ")&sortBy=LAST_MODIFIED"
	resp, err := c.http.R().SetContext(ctx).Get(c.apiBase + path)
	if err != nil {
		return nil, errors.Wrap(err, "linkedin ugcPosts")
	}
	if resp.IsError() {
		return nil, statusError(LinkedIn, resp.StatusCode(), resp.Body())
	}

	var envelope struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, errors.Wrap(err, "linkedin ugcPosts decode")
	}

	views := make([]PostView, 0, len(envelope.Elements))
	for _, raw := range envelope.Elements {
		var post linkedInUGCPost
		if err := json.Unmarshal(raw, &post); err != nil {
			continue
		}
		views = append(views, normalizeLinkedInPost(&post))
	}
	return views, nil
}

func (c *linkedInClient) GetPost(ctx context.Context, postID string) (*PostView, error) {
	var post linkedInUGCPost
	if err := c.get(ctx, "/ugcPosts/"+url.PathEscape(postID), &post); err != nil {
		return nil, err
	}
	view := normalizeLinkedInPost(&post)
	return &view, nil
}

func (c *linkedInClient) DeletePost(ctx context.Context, postID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(c.apiBase + "/ugcPosts/" + url.PathEscape(postID))
	if err != nil {
		return errors.Wrap(err, "linkedin delete ugcPost")
	}
	if resp.IsError() {
		return statusError(LinkedIn, resp.StatusCode(), resp.Body())
	}
	return nil
}

// Publish 两段式发布：先为每个附件注册上传资产并 PUT 原始字节，
// 再创建引用这些资产 URN 的分享
func (c *linkedInClient) Publish(ctx context.Context, draft *PostDraft) (string, error) {
	urn, err := c.personURN(ctx)
	if err != nil {
		return "", err
	}

	var assets []string
	for _, file := range draft.Files {
		reader, err := file.Open(ctx)
		if err != nil {
			return "", errors.Wrap(err, "linkedin open draft file")
		}
		asset, err := c.uploadAsset(ctx, urn, reader)
		_ = reader.Close()
		if err != nil {
			return "", err
		}
		assets = append(assets, asset)
	}
	for _, remote := range draft.URLs {
		asset, err := c.uploadRemoteAsset(ctx, urn, remote)
		if err != nil {
			return "", err
		}
		assets = append(assets, asset)
	}

	category := "NONE"
	media := make([]map[string]any, 0, len(assets))
	if len(assets) > 0 {
		category = "IMAGE"
		for _, asset := range assets {
			media = append(media, map[string]any{"status": "READY", "media": asset})
		}
	}

	body := map[string]any{
		"author":         urn,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": draft.Text},
				"shareMediaCategory": category,
				"media":              media,
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(c.apiBase + "/ugcPosts")
	if err != nil {
		return "", errors.Wrap(err, "linkedin create ugcPost")
	}
	if resp.IsError() {
		return "", statusError(LinkedIn, resp.StatusCode(), resp.Body())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return "", errors.Wrap(err, "linkedin create ugcPost decode")
	}
	if created.ID == "" {
		created.ID = resp.Header().Get("X-RestLi-Id")
	}
	return created.ID, nil
}

// uploadAsset 注册上传资产，取回上传地址和资产 URN，再 PUT 文件内容
func (c *linkedInClient) uploadAsset(ctx context.Context, ownerURN string, reader io.Reader) (string, error) {
	body := map[string]any{
		"registerUploadRequest": map[string]any{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   ownerURN,
			"serviceRelationships": []map[string]any{{
				"relationshipType": "OWNER",
				"identifier":       "urn:li:userGeneratedContent",
			}},
		},
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(c.apiBase + "/assets?action=registerUpload")
	if err != nil {
		return "", errors.Wrap(err, "linkedin register upload")
	}
	if resp.IsError() {
		return "", statusError(LinkedIn, resp.StatusCode(), resp.Body())
	}

	var registered struct {
		Value struct {
			Asset           string `json:"asset"`
			UploadMechanism struct {
				Request struct {
					UploadURL string `json:"uploadUrl"`
				} `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
			} `json:"uploadMechanism"`
		} `json:"value"`
	}
	if err := json.Unmarshal(resp.Body(), &registered); err != nil {
		return "", errors.Wrap(err, "linkedin register upload decode")
	}

	uploadReq, err := http.NewRequestWithContext(ctx, http.MethodPut, registered.Value.UploadMechanism.Request.UploadURL, reader)
	if err != nil {
		return "", errors.Wrap(err, "linkedin asset upload")
	}
	uploadReq.Header.Set("Authorization", "Bearer "+c.cred.Token)

	uploadResp, err := http.DefaultClient.Do(uploadReq)
	if err != nil {
		return "", errors.Wrap(err, "linkedin asset upload")
	}
	defer func() { _ = uploadResp.Body.Close() }()

	if uploadResp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(uploadResp.Body)
		return "", statusError(LinkedIn, uploadResp.StatusCode, payload)
	}
	return registered.Value.Asset, nil
}

func (c *linkedInClient) uploadRemoteAsset(ctx context.Context, ownerURN, remote string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, nil)
	if err != nil {
		return "", errors.Wrap(err, "linkedin fetch attachment")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "linkedin fetch attachment")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Platform: LinkedIn, StatusCode: resp.StatusCode, Body: "attachment download failed: " + strings.TrimSpace(remote)}
	}
	return c.uploadAsset(ctx, ownerURN, resp.Body)
}
