package logger

import (
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer

// InitLogger 全局 slog 输出 JSON 到标准输出，附带 trace_id 透传
func InitLogger() {
	LogWriter = os.Stdout

	handler := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})
	logger := log.New(&ContextHandler{handler})
	log.SetDefault(logger)
}
