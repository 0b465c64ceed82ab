package util

import (
	"errors"
	"io"
	"net/http"
)

// GetSafeContentType 从文件头嗅探内容类型，不信任客户端声明。
// 读完后把读取位置拨回开头
func GetSafeContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
