package storage

import (
	"blogicum/config"
	"fmt"
	"mime/multipart"
)

// Storage 上传后端的统一接口。
// 返回值是可以直接写入 image_url 字段的相对路径或完整 URL。
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// New 按配置选择上传后端，默认本地磁盘
func New() (Storage, error) {
	switch config.AppConfig.StorageBackend {
	case "local":
		return NewLocalStorage(config.AppConfig.LocalStoragePath)
	case "s3":
		return NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	case "gcs":
		return NewGCSClient(config.AppConfig.GCSProjectID, config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("不支持的存储后端: %s", config.AppConfig.StorageBackend)
	}
}
