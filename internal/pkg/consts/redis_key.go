package consts

import "time"

const (
	// OAuthStateKey 授权握手的中转状态，key 形如 oauth:state:{user_id}:{platform}
	OAuthStateKey = "oauth:state:"
	// OAuthStateTTL 中转状态的存活时间，回调超过这个窗口需要重新发起授权
	OAuthStateTTL = 10 * time.Minute

	// TokenBlockKey 已注销 token 的签名黑名单
	TokenBlockKey = "token:block:"
)
