package util

import (
	"path/filepath"

	"github.com/google/uuid"
)

// 允许上传的图片类型
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// GenerateUniqueFilename 生成唯一的文件名，保留原扩展名
func GenerateUniqueFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return uuid.New().String() + ext
}

// IsAllowedImageType 检查 Content-Type 是否为允许的图片类型
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}
