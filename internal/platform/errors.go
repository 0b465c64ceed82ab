package platform

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthExchange 授权码/verifier 换取 token 失败，调用方提示用户重走授权
	ErrAuthExchange = errors.New("platform: token exchange rejected")
	// ErrAuthExpired 平台拒绝了已存储的凭据，调用方提示用户重新授权
	ErrAuthExpired = errors.New("platform: stored credential rejected")
)

// UpstreamError 平台返回的其他非 2xx 响应
type UpstreamError struct {
	Platform   Name
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("platform %s: upstream status %d: %s", e.Platform, e.StatusCode, e.Body)
}

// statusError 将非 2xx 响应映射到错误分级：401 视为凭据失效，其余归为上游错误
func statusError(name Name, statusCode int, body []byte) error {
	if statusCode == http.StatusUnauthorized {
		return ErrAuthExpired
	}
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &UpstreamError{Platform: name, StatusCode: statusCode, Body: msg}
}
