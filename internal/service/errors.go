package service

import (
	"errors"

	"SocialHub/internal/platform"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	BadGateway          = 502
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrPlatformUnknown      = errors.New("不支持的平台")
	ErrPlatformNotConnected = errors.New("平台未授权")
	ErrAuthStateMissing     = errors.New("授权会话已过期，请重新发起授权")
	ErrPostNotFound         = errors.New("帖子不存在")
	ErrFileNotSupported     = errors.New("不支持的文件类型")
	ErrFileNotExist         = errors.New("文件不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:          BadRequest,
	ErrPlatformUnknown:       BadRequest,
	ErrPlatformNotConnected:  Unauthorized,
	ErrAuthStateMissing:      Unauthorized,
	ErrPostNotFound:          NotFound,
	ErrFileNotSupported:      BadRequest,
	ErrFileNotExist:          NotFound,
	UnauthorizedError:        Unauthorized,
	UnExpectedError:          InternalServerError,
	platform.ErrAuthExpired:  Unauthorized,
	platform.ErrAuthExchange: Unauthorized,
}
