package staging

import (
	"io"
	log "log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Dir 发布流程的本地暂存目录。生命周期限定在一次 Publish 调用内，
// 调用方必须 defer Cleanup，保证任何退出路径都不留暂存文件
type Dir struct {
	path string
}

// File 已落盘的暂存文件
type File struct {
	Path        string
	Name        string
	ContentType string
}

func (f File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// NewDirIn 在 root 下创建暂存目录，root 为空用系统临时目录
func NewDirIn(root string) (*Dir, error) {
	path, err := os.MkdirTemp(root, "draft-")
	if err != nil {
		return nil, err
	}
	return &Dir{path: path}, nil
}

// Stage 将内容写入暂存目录，文件名加 uuid 前缀避免冲突
func (d *Dir) Stage(name, contentType string, r io.Reader) (File, error) {
	path := filepath.Join(d.path, uuid.NewString()+"_"+filepath.Base(name))

	out, err := os.Create(path)
	if err != nil {
		return File{}, err
	}
	if _, err = io.Copy(out, r); err != nil {
		_ = out.Close()
		return File{}, err
	}
	if err = out.Close(); err != nil {
		return File{}, err
	}

	return File{Path: path, Name: filepath.Base(name), ContentType: contentType}, nil
}

func (d *Dir) Path() string {
	return d.path
}

// Cleanup 删除整个暂存目录及其内容
func (d *Dir) Cleanup() {
	if err := os.RemoveAll(d.path); err != nil {
		log.Warn("failed to remove staging dir", "path", d.path, "err", err)
	}
}
