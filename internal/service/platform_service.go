package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"SocialHub/internal/model"
	"SocialHub/internal/pkg/consts"
	"SocialHub/internal/pkg/redis"
	"SocialHub/internal/platform"
	"SocialHub/internal/repository"

	"github.com/goccy/go-json"
)

// PlatformGateway 构造平台客户端与授权器，生产实现是 *platform.Factory
type PlatformGateway interface {
	Client(name platform.Name, cred platform.Credential, page string) (platform.Client, error)
	OAuth1(name platform.Name) (platform.OAuth1Authorizer, error)
	OAuth2(name platform.Name) (platform.OAuth2Authorizer, error)
}

// AuthStateStore 授权握手的中转存储。OAuth1 的 request token 和
// 两种流程的 redirect_url 都要在跳转与回调之间存活
type AuthStateStore interface {
	Save(ctx context.Context, userID uint64, name platform.Name, state *OAuthState) error
	Load(ctx context.Context, userID uint64, name platform.Name) (*OAuthState, error)
	Delete(ctx context.Context, userID uint64, name platform.Name) error
}

// OAuthState 一次授权握手的中转状态
type OAuthState struct {
	RequestToken  string `json:"request_token,omitempty"`
	RequestSecret string `json:"request_secret,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

type PlatformService interface {
	// AuthorizationURL 发起授权，返回让用户跳转的平台授权页地址
	AuthorizationURL(ctx context.Context, userID uint64, name platform.Name, redirectURL string) (string, error)
	// CompleteAuthorization 处理平台回调，换取并落库长期凭据，返回发起授权时登记的 redirect_url
	CompleteAuthorization(ctx context.Context, userID uint64, name platform.Name, rawCallbackURL string) (string, error)
	Disconnect(ctx context.Context, userID uint64, name platform.Name) error

	GetProfile(ctx context.Context, userID uint64, name platform.Name) (*platform.Profile, error)
	GetPosts(ctx context.Context, userID uint64, name platform.Name) ([]platform.PostView, error)
	GetPost(ctx context.Context, userID uint64, name platform.Name, postID string) (*platform.PostView, error)
	DeletePost(ctx context.Context, userID uint64, name platform.Name, postID string) error
	Publish(ctx context.Context, userID uint64, name platform.Name, draft *platform.PostDraft) (string, error)

	SetDefaultPage(ctx context.Context, userID uint64, name platform.Name, pageID string) error
	GetDefaultPage(ctx context.Context, userID uint64, name platform.Name) (string, error)
}

type PlatformServiceImpl struct {
	gateway      PlatformGateway
	states       AuthStateStore
	credRepo     repository.CredentialRepo
	pageRepo     repository.DefaultPageRepo
	followerRepo repository.FollowersCountRepo
	callbackBase string
}

func NewPlatformService(
	gateway PlatformGateway,
	states AuthStateStore,
	credRepo repository.CredentialRepo,
	pageRepo repository.DefaultPageRepo,
	followerRepo repository.FollowersCountRepo,
	callbackBase string,
) PlatformService {
	return &PlatformServiceImpl{
		gateway:      gateway,
		states:       states,
		credRepo:     credRepo,
		pageRepo:     pageRepo,
		followerRepo: followerRepo,
		callbackBase: strings.TrimRight(callbackBase, "/"),
	}
}

// callbackURL 平台回调地址，按平台区分路径
func (s *PlatformServiceImpl) callbackURL(name platform.Name) string {
	return s.callbackBase + "/api/platforms/" + strings.ToLower(string(name)) + "/auth/callback"
}

func (s *PlatformServiceImpl) AuthorizationURL(ctx context.Context, userID uint64, name platform.Name, redirectURL string) (string, error) {
	if !platform.IsOAuth1(name) {
		authorizer, err := s.gateway.OAuth2(name)
		if err != nil {
			return "", ErrPlatformUnknown
		}
		if err := s.states.Save(ctx, userID, name, &OAuthState{RedirectURL: redirectURL}); err != nil {
			slog.ErrorContext(ctx, "save oauth state failed", "platform", name, "error", err)
			return "", UnExpectedError
		}
		return authorizer.AuthorizationURL(s.callbackURL(name)), nil
	}

	authorizer, err := s.gateway.OAuth1(name)
	if err != nil {
		return "", ErrPlatformUnknown
	}
	token, secret, err := authorizer.RequestToken(ctx, s.callbackURL(name))
	if err != nil {
		slog.ErrorContext(ctx, "request token failed", "platform", name, "error", err)
		return "", platform.ErrAuthExchange
	}
	state := &OAuthState{RequestToken: token, RequestSecret: secret, RedirectURL: redirectURL}
	if err := s.states.Save(ctx, userID, name, state); err != nil {
		slog.ErrorContext(ctx, "save oauth state failed", "platform", name, "error", err)
		return "", UnExpectedError
	}
	return authorizer.AuthorizationURL(token), nil
}

func (s *PlatformServiceImpl) CompleteAuthorization(ctx context.Context, userID uint64, name platform.Name, rawCallbackURL string) (string, error) {
	state, err := s.states.Load(ctx, userID, name)
	if err != nil {
		slog.ErrorContext(ctx, "load oauth state failed", "platform", name, "error", err)
		return "", UnExpectedError
	}
	if state == nil {
		return "", ErrAuthStateMissing
	}

	var cred *platform.Credential
	if platform.IsOAuth1(name) {
		authorizer, gerr := s.gateway.OAuth1(name)
		if gerr != nil {
			return "", ErrPlatformUnknown
		}
		cred, err = authorizer.ExchangeToken(ctx, rawCallbackURL, state.RequestToken, state.RequestSecret)
	} else {
		authorizer, gerr := s.gateway.OAuth2(name)
		if gerr != nil {
			return "", ErrPlatformUnknown
		}
		cred, err = authorizer.ExchangeToken(ctx, s.callbackURL(name), rawCallbackURL)
	}
	if err != nil {
		slog.ErrorContext(ctx, "exchange token failed", "platform", name, "error", err)
		return "", platform.ErrAuthExchange
	}

	row := &model.Credential{
		UserID:      userID,
		PlatformID:  name.ID(),
		Token:       cred.Token,
		TokenSecret: cred.TokenSecret,
		ExpiresAt:   cred.ExpiresAt,
	}
	if err := s.credRepo.SaveOrUpdate(ctx, row); err != nil {
		slog.ErrorContext(ctx, "save credential failed", "platform", name, "error", err)
		return "", UnExpectedError
	}

	// 握手完成，中转状态即作废，删除失败只影响下次误触发起的回调
	if err := s.states.Delete(ctx, userID, name); err != nil {
		slog.WarnContext(ctx, "delete oauth state failed", "platform", name, "error", err)
	}
	return state.RedirectURL, nil
}

func (s *PlatformServiceImpl) Disconnect(ctx context.Context, userID uint64, name platform.Name) error {
	if err := s.credRepo.Delete(ctx, userID, name.ID()); err != nil {
		slog.ErrorContext(ctx, "delete credential failed", "platform", name, "error", err)
		return UnExpectedError
	}
	return nil
}

// clientFor 取出用户凭据和默认子页面，构造平台客户端
func (s *PlatformServiceImpl) clientFor(ctx context.Context, userID uint64, name platform.Name) (platform.Client, error) {
	row, err := s.credRepo.Get(ctx, userID, name.ID())
	if err != nil {
		slog.ErrorContext(ctx, "load credential failed", "platform", name, "error", err)
		return nil, UnExpectedError
	}
	if row == nil {
		return nil, ErrPlatformNotConnected
	}

	page := ""
	if dp, perr := s.pageRepo.Get(ctx, userID, name.ID()); perr == nil && dp != nil {
		page = dp.PageID
	}

	cred := platform.Credential{
		Token:       row.Token,
		TokenSecret: row.TokenSecret,
		ExpiresAt:   row.ExpiresAt,
	}
	client, err := s.gateway.Client(name, cred, page)
	if err != nil {
		return nil, ErrPlatformUnknown
	}
	return client, nil
}

func (s *PlatformServiceImpl) GetProfile(ctx context.Context, userID uint64, name platform.Name) (*platform.Profile, error) {
	client, err := s.clientFor(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return client.GetProfile(ctx)
}

func (s *PlatformServiceImpl) GetPosts(ctx context.Context, userID uint64, name platform.Name) ([]platform.PostView, error) {
	client, err := s.clientFor(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return client.GetPosts(ctx)
}

func (s *PlatformServiceImpl) GetPost(ctx context.Context, userID uint64, name platform.Name, postID string) (*platform.PostView, error) {
	client, err := s.clientFor(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return client.GetPost(ctx, postID)
}

func (s *PlatformServiceImpl) DeletePost(ctx context.Context, userID uint64, name platform.Name, postID string) error {
	client, err := s.clientFor(ctx, userID, name)
	if err != nil {
		return err
	}
	return client.DeletePost(ctx, postID)
}

func (s *PlatformServiceImpl) Publish(ctx context.Context, userID uint64, name platform.Name, draft *platform.PostDraft) (string, error) {
	client, err := s.clientFor(ctx, userID, name)
	if err != nil {
		return "", err
	}

	postID, err := client.Publish(ctx, draft)
	if err != nil {
		return "", err
	}

	// 发布后立刻补一条手动采样，让粉丝曲线能对齐到这次动作
	count, err := client.GetFollowersCount(ctx)
	if err != nil {
		return "", err
	}
	row := &model.FollowersCount{
		UserID:     userID,
		PlatformID: name.ID(),
		Timestamp:  time.Now(),
		Followers:  count,
		Automatic:  false,
	}
	if err := s.followerRepo.Create(ctx, row); err != nil {
		slog.ErrorContext(ctx, "save followers sample failed", "platform", name, "error", err)
		return "", UnExpectedError
	}
	return postID, nil
}

func (s *PlatformServiceImpl) SetDefaultPage(ctx context.Context, userID uint64, name platform.Name, pageID string) error {
	if pageID == "" {
		return ErrParamInvalid
	}
	row := &model.DefaultPage{UserID: userID, PlatformID: name.ID(), PageID: pageID}
	if err := s.pageRepo.SaveOrUpdate(ctx, row); err != nil {
		slog.ErrorContext(ctx, "save default page failed", "platform", name, "error", err)
		return UnExpectedError
	}
	return nil
}

func (s *PlatformServiceImpl) GetDefaultPage(ctx context.Context, userID uint64, name platform.Name) (string, error) {
	row, err := s.pageRepo.Get(ctx, userID, name.ID())
	if err != nil {
		slog.ErrorContext(ctx, "load default page failed", "platform", name, "error", err)
		return "", UnExpectedError
	}
	if row == nil {
		return "", nil
	}
	return row.PageID, nil
}

// redisStateStore AuthStateStore 的 Redis 实现，状态带 TTL，过期即要求重新发起授权
type redisStateStore struct{}

func NewRedisStateStore() AuthStateStore {
	return &redisStateStore{}
}

func stateKey(userID uint64, name platform.Name) string {
	return consts.OAuthStateKey + strconv.FormatUint(userID, 10) + ":" + string(name)
}

func (r *redisStateStore) Save(ctx context.Context, userID uint64, name platform.Name, state *OAuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, stateKey(userID, name), data, consts.OAuthStateTTL)
}

func (r *redisStateStore) Load(ctx context.Context, userID uint64, name platform.Name) (*OAuthState, error) {
	value, err := redis.GetValue(ctx, stateKey(userID, name))
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	var state OAuthState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *redisStateStore) Delete(ctx context.Context, userID uint64, name platform.Name) error {
	return redis.DeleteKey(ctx, stateKey(userID, name))
}
