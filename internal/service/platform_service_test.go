package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"SocialHub/internal/model"
	"SocialHub/internal/platform"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memStateStore struct {
	states map[string]*OAuthState
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]*OAuthState)}
}

func (s *memStateStore) Save(ctx context.Context, userID uint64, name platform.Name, state *OAuthState) error {
	s.states[stateKey(userID, name)] = state
	return nil
}

func (s *memStateStore) Load(ctx context.Context, userID uint64, name platform.Name) (*OAuthState, error) {
	return s.states[stateKey(userID, name)], nil
}

func (s *memStateStore) Delete(ctx context.Context, userID uint64, name platform.Name) error {
	delete(s.states, stateKey(userID, name))
	return nil
}

type memCredRepo struct {
	saved map[string]*model.Credential
}

func newMemCredRepo() *memCredRepo {
	return &memCredRepo{saved: make(map[string]*model.Credential)}
}

func credKey(userID, platformID uint64) string {
	return fmt.Sprintf("%d/%d", userID, platformID)
}

func (r *memCredRepo) SaveOrUpdate(ctx context.Context, cred *model.Credential) error {
	r.saved[credKey(cred.UserID, cred.PlatformID)] = cred
	return nil
}

func (r *memCredRepo) Get(ctx context.Context, userID, platformID uint64) (*model.Credential, error) {
	return r.saved[credKey(userID, platformID)], nil
}

func (r *memCredRepo) ListAll(context.Context) ([]*model.Credential, error) {
	return nil, errors.New("not implemented")
}

func (r *memCredRepo) Delete(ctx context.Context, userID, platformID uint64) error {
	delete(r.saved, credKey(userID, platformID))
	return nil
}

type memPageRepo struct {
	pages map[string]string
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{pages: make(map[string]string)}
}

func (r *memPageRepo) SaveOrUpdate(ctx context.Context, page *model.DefaultPage) error {
	r.pages[credKey(page.UserID, page.PlatformID)] = page.PageID
	return nil
}

func (r *memPageRepo) Get(ctx context.Context, userID, platformID uint64) (*model.DefaultPage, error) {
	pageID, ok := r.pages[credKey(userID, platformID)]
	if !ok {
		return nil, nil
	}
	return &model.DefaultPage{UserID: userID, PlatformID: platformID, PageID: pageID}, nil
}

type memFollowersRepo struct {
	rows []*model.FollowersCount
}

func (r *memFollowersRepo) Create(ctx context.Context, row *model.FollowersCount) error {
	r.rows = append(r.rows, row)
	return nil
}

func (r *memFollowersRepo) CreateBatch(context.Context, []*model.FollowersCount) error {
	return errors.New("not implemented")
}

func (r *memFollowersRepo) ListWindow(context.Context, uint64, uint64, time.Time, time.Time) ([]*model.FollowersCount, error) {
	return nil, errors.New("not implemented")
}

type fakeOAuth1 struct {
	requestToken  string
	requestSecret string
	cred          *platform.Credential

	gotRawCallback    string
	gotRequestToken   string
	gotRequestSecret  string
	gotOAuthCallback  string
	requestTokenError error
}

func (a *fakeOAuth1) RequestToken(ctx context.Context, callbackURL string) (string, string, error) {
	a.gotOAuthCallback = callbackURL
	return a.requestToken, a.requestSecret, a.requestTokenError
}

func (a *fakeOAuth1) AuthorizationURL(requestToken string) string {
	return "https://auth.example/authorize?oauth_token=" + requestToken
}

func (a *fakeOAuth1) ExchangeToken(ctx context.Context, rawCallbackURL, requestToken, requestSecret string) (*platform.Credential, error) {
	a.gotRawCallback = rawCallbackURL
	a.gotRequestToken = requestToken
	a.gotRequestSecret = requestSecret
	return a.cred, nil
}

type stubClient struct {
	profile   *platform.Profile
	publishID string
	page      string
}

func (c *stubClient) Platform() platform.Name { return platform.Tumblr }
func (c *stubClient) GetProfile(context.Context) (*platform.Profile, error) {
	return c.profile, nil
}
func (c *stubClient) GetPosts(context.Context) ([]platform.PostView, error) { return nil, nil }
func (c *stubClient) GetPost(context.Context, string) (*platform.PostView, error) {
	return nil, errors.New("not implemented")
}
func (c *stubClient) DeletePost(context.Context, string) error { return nil }
func (c *stubClient) Publish(context.Context, *platform.PostDraft) (string, error) {
	return c.publishID, nil
}
func (c *stubClient) GetFollowersCount(context.Context) (int, error) {
	return c.profile.Followers, nil
}

type stubGateway struct {
	client *stubClient
	oauth1 *fakeOAuth1
}

func (g *stubGateway) Client(name platform.Name, cred platform.Credential, page string) (platform.Client, error) {
	g.client.page = page
	return g.client, nil
}

func (g *stubGateway) OAuth1(platform.Name) (platform.OAuth1Authorizer, error) {
	return g.oauth1, nil
}

func (g *stubGateway) OAuth2(platform.Name) (platform.OAuth2Authorizer, error) {
	return nil, errors.New("not implemented")
}

func newTestPlatformService(gateway PlatformGateway, states AuthStateStore, credRepo *memCredRepo, pageRepo *memPageRepo, followerRepo *memFollowersRepo) PlatformService {
	return NewPlatformService(gateway, states, credRepo, pageRepo, followerRepo, "https://hub.example")
}

func TestOAuth1HandshakeRoundTrip(t *testing.T) {
	oauth1 := &fakeOAuth1{
		requestToken:  "req-token",
		requestSecret: "req-secret",
		cred:          &platform.Credential{Token: "long-token", TokenSecret: "long-secret"},
	}
	gateway := &stubGateway{client: &stubClient{}, oauth1: oauth1}
	states := newMemStateStore()
	credRepo := newMemCredRepo()
	svc := newTestPlatformService(gateway, states, credRepo, newMemPageRepo(), &memFollowersRepo{})

	authURL, err := svc.AuthorizationURL(context.Background(), 7, platform.Tumblr, "https://app.example/done")
	require.NoError(t, err)
	require.Equal(t, "https://auth.example/authorize?oauth_token=req-token", authURL)
	require.Equal(t, "https://hub.example/api/platforms/tumblr/auth/callback", oauth1.gotOAuthCallback)

	redirect, err := svc.CompleteAuthorization(context.Background(), 7, platform.Tumblr,
		"/api/platforms/tumblr/auth/callback?oauth_token=req-token&oauth_verifier=v123")
	require.NoError(t, err)
	require.Equal(t, "https://app.example/done", redirect)

	// 暂存的 request token 原样传回了交换
	require.Equal(t, "req-token", oauth1.gotRequestToken)
	require.Equal(t, "req-secret", oauth1.gotRequestSecret)

	// 长期凭据落库
	saved, err := credRepo.Get(context.Background(), 7, platform.Tumblr.ID())
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, "long-token", saved.Token)
	require.Equal(t, "long-secret", saved.TokenSecret)

	// 中转状态已删除，重复回调报错
	_, err = svc.CompleteAuthorization(context.Background(), 7, platform.Tumblr,
		"/api/platforms/tumblr/auth/callback?oauth_verifier=v123")
	require.ErrorIs(t, err, ErrAuthStateMissing)
}

func TestCompleteAuthorization_ReplacesExistingCredential(t *testing.T) {
	oauth1 := &fakeOAuth1{
		requestToken:  "rt",
		requestSecret: "rs",
		cred:          &platform.Credential{Token: "new-token", TokenSecret: "new-secret"},
	}
	gateway := &stubGateway{client: &stubClient{}, oauth1: oauth1}
	states := newMemStateStore()
	credRepo := newMemCredRepo()
	require.NoError(t, credRepo.SaveOrUpdate(context.Background(), &model.Credential{
		UserID: 7, PlatformID: platform.Tumblr.ID(), Token: "old-token", TokenSecret: "old-secret",
	}))
	svc := newTestPlatformService(gateway, states, credRepo, newMemPageRepo(), &memFollowersRepo{})

	_, err := svc.AuthorizationURL(context.Background(), 7, platform.Tumblr, "")
	require.NoError(t, err)
	_, err = svc.CompleteAuthorization(context.Background(), 7, platform.Tumblr,
		"/cb?oauth_verifier=v")
	require.NoError(t, err)

	saved, _ := credRepo.Get(context.Background(), 7, platform.Tumblr.ID())
	require.Equal(t, "new-token", saved.Token)
	require.Equal(t, "new-secret", saved.TokenSecret)
}

func TestGetProfile_NotConnected(t *testing.T) {
	gateway := &stubGateway{client: &stubClient{}, oauth1: &fakeOAuth1{}}
	svc := newTestPlatformService(gateway, newMemStateStore(), newMemCredRepo(), newMemPageRepo(), &memFollowersRepo{})

	_, err := svc.GetProfile(context.Background(), 1, platform.Twitter)
	require.ErrorIs(t, err, ErrPlatformNotConnected)
}

func TestPublish_WritesManualFollowersSample(t *testing.T) {
	client := &stubClient{
		profile:   &platform.Profile{ID: "blog", Followers: 123},
		publishID: "post-1",
	}
	gateway := &stubGateway{client: client, oauth1: &fakeOAuth1{}}
	credRepo := newMemCredRepo()
	require.NoError(t, credRepo.SaveOrUpdate(context.Background(), &model.Credential{
		UserID: 5, PlatformID: platform.Tumblr.ID(), Token: "tk", TokenSecret: "ts",
	}))
	followerRepo := &memFollowersRepo{}
	svc := newTestPlatformService(gateway, newMemStateStore(), credRepo, newMemPageRepo(), followerRepo)

	postID, err := svc.Publish(context.Background(), 5, platform.Tumblr, &platform.PostDraft{Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, "post-1", postID)

	require.Len(t, followerRepo.rows, 1)
	row := followerRepo.rows[0]
	require.Equal(t, uint64(5), row.UserID)
	require.Equal(t, platform.Tumblr.ID(), row.PlatformID)
	require.Equal(t, 123, row.Followers)
	require.False(t, row.Automatic)
}

func TestClientFor_UsesDefaultPage(t *testing.T) {
	client := &stubClient{profile: &platform.Profile{ID: "side"}}
	gateway := &stubGateway{client: client, oauth1: &fakeOAuth1{}}
	credRepo := newMemCredRepo()
	require.NoError(t, credRepo.SaveOrUpdate(context.Background(), &model.Credential{
		UserID: 9, PlatformID: platform.Tumblr.ID(), Token: "tk",
	}))
	pageRepo := newMemPageRepo()
	svc := newTestPlatformService(gateway, newMemStateStore(), credRepo, pageRepo, &memFollowersRepo{})

	require.NoError(t, svc.SetDefaultPage(context.Background(), 9, platform.Tumblr, "sideblog"))

	_, err := svc.GetProfile(context.Background(), 9, platform.Tumblr)
	require.NoError(t, err)
	require.Equal(t, "sideblog", client.page)

	pageID, err := svc.GetDefaultPage(context.Background(), 9, platform.Tumblr)
	require.NoError(t, err)
	require.Equal(t, "sideblog", pageID)
}
