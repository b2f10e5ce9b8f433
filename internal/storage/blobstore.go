package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore 对象存储网关。Put返回对象的位置描述符。
// 类型白名单由上层协调器负责，网关不做校验。
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) (string, error)
	Remove(ctx context.Context, key string) error
}

// ObjectKey 生成全局唯一、按所有者划分的对象键：
// music/<userID>/<毫秒时间戳>-<随机段><扩展名>
// 时间分量保证大致有序，随机分量保证并发上传不冲突。
func ObjectKey(userID, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("music/%s/%d-%s%s", userID, time.Now().UnixMilli(), suffix, ext)
}
