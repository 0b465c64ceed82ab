package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到草稿桶
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, DraftBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// StatFile 查询草稿附件的大小和内容类型
func StatFile(ctx context.Context, objectName string) (minio.ObjectInfo, error) {
	if Client == nil {
		return minio.ObjectInfo{}, fmt.Errorf("minio client is not initialized")
	}
	return Client.StatObject(ctx, DraftBucket, objectName, minio.StatObjectOptions{})
}

// OpenFile 打开草稿附件的内容流，调用方负责关闭
func OpenFile(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if Client == nil {
		return nil, fmt.Errorf("minio client is not initialized")
	}
	return Client.GetObject(ctx, DraftBucket, objectName, minio.GetObjectOptions{})
}

// DeleteFile 删除草稿附件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}
	return Client.RemoveObject(ctx, DraftBucket, objectName, minio.RemoveObjectOptions{})
}
