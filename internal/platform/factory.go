package platform

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// Factory 持有各平台的应用凭据，按需构造客户端和授权器。
// 凭据在启动时注入后不再变化，可被并发使用
type Factory struct {
	keys    map[Name]AppKey
	timeout time.Duration
}

func NewFactory(keys map[Name]AppKey) *Factory {
	return &Factory{keys: keys, timeout: defaultTimeout}
}

func (f *Factory) appKey(name Name) (AppKey, error) {
	key, ok := f.keys[name]
	if !ok || key.ClientKey == "" {
		return AppKey{}, fmt.Errorf("platform %s: app key not configured", name)
	}
	return key, nil
}

func (f *Factory) newHTTP() *resty.Client {
	return resty.New().SetTimeout(f.timeout)
}

// Client 按平台构造携带用户凭据的客户端
func (f *Factory) Client(name Name, cred Credential, page string) (Client, error) {
	key, err := f.appKey(name)
	if err != nil {
		return nil, err
	}

	switch name {
	case LinkedIn:
		return newLinkedInClient(key, cred, f.timeout), nil
	case Tumblr:
		return newTumblrClient(key, cred, page, f.timeout), nil
	case Twitter:
		return newTwitterClient(key, cred, f.timeout), nil
	}
	return nil, fmt.Errorf("platform %s: unknown platform", name)
}

// OAuth2 返回 OAuth2 平台的授权器
func (f *Factory) OAuth2(name Name) (OAuth2Authorizer, error) {
	key, err := f.appKey(name)
	if err != nil {
		return nil, err
	}
	if name != LinkedIn {
		return nil, fmt.Errorf("platform %s: not an oauth2 platform", name)
	}
	return newLinkedInAuthorizer(key), nil
}

// OAuth1 返回 OAuth1 平台的授权器
func (f *Factory) OAuth1(name Name) (OAuth1Authorizer, error) {
	key, err := f.appKey(name)
	if err != nil {
		return nil, err
	}
	switch name {
	case Tumblr:
		return newTumblrAuthorizer(key), nil
	case Twitter:
		return newTwitterAuthorizer(key), nil
	}
	return nil, fmt.Errorf("platform %s: not an oauth1 platform", name)
}

// IsOAuth1 OAuth1 平台在发起授权前需要先暂存 request token
func IsOAuth1(name Name) bool {
	return name == Tumblr || name == Twitter
}
