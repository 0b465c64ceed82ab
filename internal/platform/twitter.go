package platform

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	twitterAPIBase    = "https://api.twitter.com/1.1"
	twitterUploadBase = "https://upload.twitter.com/1.1"

	twitterRequestTokenURL = "https://api.twitter.com/oauth/request_token"
	twitterAuthorizeURL    = "https://api.twitter.com/oauth/authorize"
	twitterAccessTokenURL  = "https://api.twitter.com/oauth/access_token"
)

func twitterOAuthConfig(key AppKey, callbackURL string) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    key.ClientKey,
		ConsumerSecret: key.ClientSecret,
		CallbackURL:    callbackURL,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: twitterRequestTokenURL,
			AuthorizeURL:    twitterAuthorizeURL,
			AccessTokenURL:  twitterAccessTokenURL,
		},
	}
}

// twitterAuthorizer Twitter OAuth1 三步握手
type twitterAuthorizer struct {
	key AppKey
}

func newTwitterAuthorizer(key AppKey) *twitterAuthorizer {
	return &twitterAuthorizer{key: key}
}

func (a *twitterAuthorizer) RequestToken(ctx context.Context, callbackURL string) (string, string, error) {
	token, secret, err := twitterOAuthConfig(a.key, callbackURL).RequestToken()
	if err != nil {
		return "", "", errors.Wrap(ErrAuthExchange, err.Error())
	}
	return token, secret, nil
}

func (a *twitterAuthorizer) AuthorizationURL(requestToken string) string {
	return twitterAuthorizeURL + "?oauth_token=" + requestToken
}

func (a *twitterAuthorizer) ExchangeToken(ctx context.Context, rawCallbackURL, requestToken, requestSecret string) (*Credential, error) {
	verifier, err := callbackVerifier(rawCallbackURL)
	if err != nil {
		return nil, err
	}

	token, secret, err := twitterOAuthConfig(a.key, "").AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, errors.Wrap(ErrAuthExchange, err.Error())
	}
	return &Credential{Token: token, TokenSecret: secret}, nil
}

// twitterClient Twitter v1.1 客户端
type twitterClient struct {
	key        AppKey
	cred       Credential
	apiBase    string
	uploadBase string
	http       *resty.Client
}

func newTwitterClient(key AppKey, cred Credential, timeout time.Duration) *twitterClient {
	signer := twitterOAuthConfig(key, "").Client(context.Background(), oauth1.NewToken(cred.Token, cred.TokenSecret))
	httpClient := resty.NewWithClient(signer).SetTimeout(timeout)

	return &twitterClient{
		key:        key,
		cred:       cred,
		apiBase:    twitterAPIBase,
		uploadBase: twitterUploadBase,
		http:       httpClient,
	}
}

func (c *twitterClient) Platform() Name {
	return Twitter
}

func (c *twitterClient) GetProfile(ctx context.Context) (*Profile, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.apiBase + "/account/verify_credentials.json")
	if err != nil {
		return nil, errors.Wrap(err, "twitter verify_credentials")
	}
	if resp.IsError() {
		return nil, statusError(Twitter, resp.StatusCode(), resp.Body())
	}

	var user twitterUser
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, errors.Wrap(err, "twitter profile decode")
	}
	return normalizeTwitterProfile(&user), nil
}

func (c *twitterClient) GetFollowersCount(ctx context.Context) (int, error) {
	profile, err := c.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	return profile.Followers, nil
}

func (c *twitterClient) GetPosts(ctx context.Context) ([]PostView, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"tweet_mode": "extended",
			"count":      "200",
		}).
		Get(c.apiBase + "/statuses/user_timeline.json")
	if err != nil {
		return nil, errors.Wrap(err, "twitter user_timeline")
	}
	if resp.IsError() {
		return nil, statusError(Twitter, resp.StatusCode(), resp.Body())
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raws); err != nil {
		return nil, errors.Wrap(err, "twitter timeline decode")
	}

	views := make([]PostView, 0, len(raws))
	for _, raw := range raws {
		var tweet twitterTweet
		if err := json.Unmarshal(raw, &tweet); err != nil {
			continue
		}
		views = append(views, normalizeTwitterTweet(&tweet))
	}
	return views, nil
}

func (c *twitterClient) GetPost(ctx context.Context, postID string) (*PostView, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":         postID,
			"tweet_mode": "extended",
		}).
		Get(c.apiBase + "/statuses/show.json")
	if err != nil {
		return nil, errors.Wrap(err, "twitter statuses/show")
	}
	if resp.IsError() {
		return nil, statusError(Twitter, resp.StatusCode(), resp.Body())
	}

	var tweet twitterTweet
	if err := json.Unmarshal(resp.Body(), &tweet); err != nil {
		return nil, errors.Wrap(err, "twitter tweet decode")
	}
	view := normalizeTwitterTweet(&tweet)
	return &view, nil
}

func (c *twitterClient) DeletePost(ctx context.Context, postID string) error {
	resp, err := c.http.R().SetContext(ctx).Post(c.apiBase + "/statuses/destroy/" + postID + ".json")
	if err != nil {
		return errors.Wrap(err, "twitter statuses/destroy")
	}
	if resp.IsError() {
		return statusError(Twitter, resp.StatusCode(), resp.Body())
	}
	return nil
}

// Publish 文件和远程链接都直接作为推文媒体上传，无需本地暂存
func (c *twitterClient) Publish(ctx context.Context, draft *PostDraft) (string, error) {
	var mediaIDs []string

	for _, file := range draft.Files {
		reader, err := file.Open(ctx)
		if err != nil {
			return "", errors.Wrap(err, "twitter open draft file")
		}
		mediaID, err := c.uploadMedia(ctx, file.Name, reader)
		_ = reader.Close()
		if err != nil {
			return "", err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	for _, remote := range draft.URLs {
		mediaID, err := c.uploadRemote(ctx, remote)
		if err != nil {
			return "", err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	form := map[string]string{"status": draft.Text}
	if len(mediaIDs) > 0 {
		form["media_ids"] = strings.Join(mediaIDs, ",")
	}

	resp, err := c.http.R().SetContext(ctx).SetFormData(form).Post(c.apiBase + "/statuses/update.json")
	if err != nil {
		return "", errors.Wrap(err, "twitter statuses/update")
	}
	if resp.IsError() {
		return "", statusError(Twitter, resp.StatusCode(), resp.Body())
	}

	var tweet twitterTweet
	if err := json.Unmarshal(resp.Body(), &tweet); err != nil {
		return "", errors.Wrap(err, "twitter update decode")
	}
	return tweet.IDStr, nil
}

func (c *twitterClient) uploadMedia(ctx context.Context, name string, reader io.Reader) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("media", name, reader).
		Post(c.uploadBase + "/media/upload.json")
	if err != nil {
		return "", errors.Wrap(err, "twitter media upload")
	}
	if resp.IsError() {
		return "", statusError(Twitter, resp.StatusCode(), resp.Body())
	}

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(resp.Body(), &uploaded); err != nil {
		return "", errors.Wrap(err, "twitter media upload decode")
	}
	return uploaded.MediaIDString, nil
}

// uploadRemote 把远程附件的字节流直接转投到媒体上传接口
func (c *twitterClient) uploadRemote(ctx context.Context, remote string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, nil)
	if err != nil {
		return "", errors.Wrap(err, "twitter fetch attachment")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "twitter fetch attachment")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Platform: Twitter, StatusCode: resp.StatusCode, Body: "attachment download failed: " + remote}
	}

	name := remote
	if idx := strings.LastIndex(remote, "/"); idx >= 0 && idx < len(remote)-1 {
		name = remote[idx+1:]
	}
	return c.uploadMedia(ctx, name, resp.Body)
}
