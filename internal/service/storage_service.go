package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"civilpass_backend/internal/config"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"
	"civilpass_backend/pkg/tracing"

	"cloud.google.com/go/storage"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error)
	// Get 对象不存在时返回 util.ErrObjectNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// List 按发现顺序返回前缀下的所有 key
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) path(key string) string {
	return filepath.Join(p.Config.LocalPath, filepath.FromSlash(key))
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := p.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(key), nil
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	if localPath == p.path(key) {
		return p.GetURL(key), nil
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	return p.Upload(ctx, key, src, -1, contentType)
}

func (p *LocalStorageProvider) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(p.path(key))
	if os.IsNotExist(err) {
		return nil, util.ErrObjectNotFound
	}
	return data, err
}

func (p *LocalStorageProvider) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	root := p.Config.LocalPath
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return keys, err
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	return os.Remove(p.path(key))
}

func (p *LocalStorageProvider) GetURL(key string) string {
	return "/uploads/" + key
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
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
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Config.MinioBucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, util.ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}

func (p *MinioStorageProvider) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range p.Client.ListObjects(ctx, p.Config.MinioBucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, key, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(key string) string {
	return "/" + p.Config.MinioBucket + "/" + key
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Bucket *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	endpoint := cfg.OSSEndpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.OSSRegion)
	}
	client, err := oss.New(endpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := p.Bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	if err := p.Bucket.PutObjectFromFile(key, localPath, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := p.Bucket.GetObject(key, oss.WithContext(ctx))
	if err != nil {
		var svcErr oss.ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == 404 {
			return nil, util.ErrObjectNotFound
		}
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (p *OSSStorageProvider) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	marker := ""
	for {
		result, err := p.Bucket.ListObjects(oss.Prefix(prefix), oss.Marker(marker), oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, obj := range result.Objects {
			keys = append(keys, obj.Key)
		}
		if !result.IsTruncated {
			break
		}
		marker = result.NextMarker
	}
	return keys, nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (p *OSSStorageProvider) GetURL(key string) string {
	return fmt.Sprintf("https://%s.oss-%s.aliyuncs.com/%s", p.Config.OSSBucket, p.Config.OSSRegion, key)
}

// GCSStorageProvider Google Cloud Storage 实现，凭证走 GOOGLE_APPLICATION_CREDENTIALS
type GCSStorageProvider struct {
	Config *config.StorageConfig
	Client *storage.Client
}

func NewGCSStorageProvider(ctx context.Context, cfg *config.StorageConfig) (*GCSStorageProvider, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *GCSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := p.Client.Bucket(p.Config.GCSBucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, reader); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return p.GetURL(key), nil
}

func (p *GCSStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return p.Upload(ctx, key, f, -1, contentType)
}

func (p *GCSStorageProvider) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := p.Client.Bucket(p.Config.GCSBucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, util.ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (p *GCSStorageProvider) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	it := p.Client.Bucket(p.Config.GCSBucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (p *GCSStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.Bucket(p.Config.GCSBucket).Object(key).Delete(ctx)
}

func (p *GCSStorageProvider) GetURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", p.Config.GCSBucket, key)
}

// StorageService 存储服务，读操作走对象缓存
type StorageService struct {
	Provider StorageProvider
	cache    *ObjectCache
}

func NewStorageService(cfg *config.Config, cache *ObjectCache) *StorageService {
	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Storage.Type {
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(&cfg.Storage)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(&cfg.Storage)
	case util.StorageGCS:
		provider, err = NewGCSStorageProvider(context.Background(), &cfg.Storage)
	}

	if err != nil {
		logger.Log.Error("failed to init storage provider, falling back to local",
			zap.String("type", cfg.Storage.Type), zap.Error(err))
	}
	if provider == nil || err != nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider, cache: cache}
}

func NewStorageServiceWithProvider(provider StorageProvider, cache *ObjectCache) *StorageService {
	return &StorageService{Provider: provider, cache: cache}
}

func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "storage.upload", attribute.String("key", key))
	defer span.End()
	url, err := s.Provider.Upload(ctx, key, reader, size, contentType)
	if err == nil {
		s.cache.Invalidate(ctx, key)
	}
	return url, err
}

func (s *StorageService) UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return s.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}

func (s *StorageService) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	return s.Provider.UploadFile(ctx, key, localPath, contentType)
}

// Get 读取对象，命中缓存时不访问存储
func (s *StorageService) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.cache.Get(ctx, key); ok {
		return data, nil
	}

	ctx, span := tracing.StartSpan(ctx, "storage.get", attribute.String("key", key))
	defer span.End()

	data, err := s.Provider.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, data)
	return data, nil
}

func (s *StorageService) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "storage.list", attribute.String("prefix", prefix))
	defer span.End()
	return s.Provider.List(ctx, prefix)
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	s.cache.Invalidate(ctx, key)
	return s.Provider.Delete(ctx, key)
}

func (s *StorageService) GetURL(key string) string {
	return s.Provider.GetURL(key)
}
