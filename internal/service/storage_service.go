package service

import (
	"context"
	"edu_core_backend/internal/config"
	"edu_core_backend/internal/util"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 文件内容的存放位置。name 由调用方生成，不含目录。
type StorageProvider interface {
	Name() string
	// Save 写入完整内容后返回存储路径；失败时不应留下部分文件
	Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

// LocalStorageProvider 本地磁盘：先写临时文件再 rename，读者不会看到写了一半的文件
type LocalStorageProvider struct {
	Dir string
}

func NewLocalStorageProvider(dir string) (*LocalStorageProvider, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalStorageProvider{Dir: dir}, nil
}

func (p *LocalStorageProvider) Name() string { return util.StorageLocal }

func (p *LocalStorageProvider) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid storage name %q", name)
	}
	return filepath.Join(p.Dir, name), nil
}

func (p *LocalStorageProvider) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := p.path(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(p.Dir, ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, reader); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	committed = true
	return dst, nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, name string) error {
	dst, err := p.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Name() string { return util.StorageMinio }

// Save PutObject 在对象完整上传后才可见
func (p *MinioStorageProvider) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = util.MimeOctetStream
	}
	_, err := p.Client.PutObject(ctx, p.Bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.Bucket + "/" + name, nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, name string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, name, minio.RemoveObjectOptions{})
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Bucket *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Name() string { return util.StorageOSS }

func (p *OSSStorageProvider) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := p.Bucket.PutObject(name, reader, opts...); err != nil {
		return "", err
	}
	return p.Bucket.BucketName + "/" + name, nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, name string) error {
	return p.Bucket.DeleteObject(name, oss.WithContext(ctx))
}

// NewStorageProvider 按配置选择存储；远端存储初始化失败直接返回错误，不静默降级到本地
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case "", util.StorageLocal:
		return NewLocalStorageProvider(cfg.LocalPath)
	case util.StorageMinio:
		return NewMinioStorageProvider(cfg)
	case util.StorageOSS:
		return NewOSSStorageProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
