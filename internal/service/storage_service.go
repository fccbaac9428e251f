package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filepath.FromSlash(filename))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(p.Config.LocalPath, filepath.FromSlash(filename)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

// MinioStorageProvider 对象名即 GetURL 去掉 BaseURL 后的部分
type MinioStorageProvider struct {
	Config  *config.StorageConfig
	Client  *minio.Client
	BaseURL string
}

// NewMinioStorageProvider 连接 MinIO，bucket 不存在时创建
func NewMinioStorageProvider(ctx context.Context, cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.Log.Info("MinIO bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	return &MinioStorageProvider{
		Config:  cfg,
		Client:  client,
		BaseURL: fmt.Sprintf("%s://%s/%s/", scheme, cfg.MinioEndpoint, cfg.MinioBucket),
	}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return p.BaseURL + filename
}

// StorageService 存储服务，目前只用于头像
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == util.StorageMinio {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		p, err := NewMinioStorageProvider(ctx, &cfg.Storage)
		cancel()
		if err != nil {
			logger.Log.Warn("MinIO unavailable, falling back to local storage", zap.Error(err))
		} else {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

// AvatarUpload 上传的头像文件
type AvatarUpload struct {
	Filename string
	Size     int64
	Reader   io.ReadSeeker
}

// SaveAvatar 校验类型和大小后以随机文件名保存，返回访问地址
func (s *StorageService) SaveAvatar(ctx context.Context, upload *AvatarUpload) (string, error) {
	mimeType, err := util.CheckImage(upload.Reader, upload.Filename, upload.Size)
	if err != nil {
		return "", err
	}

	name := path.Join("avatars", uuid.NewString()+strings.ToLower(filepath.Ext(upload.Filename)))
	return s.Provider.Upload(ctx, name, upload.Reader, upload.Size, mimeType)
}

// DeleteByURL 根据 GetURL 返回的地址删除对象
func (s *StorageService) DeleteByURL(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	prefix := s.Provider.GetURL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	return s.Provider.Delete(ctx, strings.TrimPrefix(url, prefix))
}
