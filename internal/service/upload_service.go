package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"civilpass_backend/internal/config"
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

var AdminUploadCategories = []string{
	util.CategoryXingce,
	util.CategoryShenlun,
	util.CategoryVideo,
	util.CategoryExperience,
	util.CategoryNews,
	util.CategoryCalendar,
}

// ThumbnailFunc 从视频截取一帧写入 thumbnailPath
type ThumbnailFunc func(videoPath, thumbnailPath, timeOffset string) error

type UploadRecordStore interface {
	Create(record *model.UploadRecord) error
	FindByStatus(status model.UploadStatus) ([]model.UploadRecord, error)
	CountByCategory(category string) (int64, error)
	UpdateStatus(id uint, status model.UploadStatus) error
}

// PendingUploads 待审核的考生上传及各类别累计上传数
type PendingUploads struct {
	Records []model.UploadRecord `json:"records"`
	Counts  map[string]int64     `json:"counts"`
}

// UploadService 管理员上传
type UploadService struct {
	storage   *StorageService
	records   UploadRecordStore
	news      *NewsService
	cfg       *config.Config
	thumbnail ThumbnailFunc
	now       func() time.Time
}

func NewUploadService(storage *StorageService, records UploadRecordStore, news *NewsService, cfg *config.Config) *UploadService {
	return &UploadService{
		storage:   storage,
		records:   records,
		news:      news,
		cfg:       cfg,
		thumbnail: util.GenerateThumbnail,
		now:       time.Now,
	}
}

type UploadedFile struct {
	Name      string `json:"name"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Upload 逐个上传；单个文件失败记录在结果中
func (s *UploadService) Upload(ctx context.Context, category string, files []*multipart.FileHeader) ([]UploadedFile, error) {
	if !contains(AdminUploadCategories, category) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidCategory, category)
	}
	if len(files) == 0 {
		return nil, util.ErrEmptyContent
	}

	results := make([]UploadedFile, 0, len(files))
	for _, fh := range files {
		res := UploadedFile{Name: fh.Filename}
		record, err := s.uploadOne(ctx, category, fh)
		if err != nil {
			logger.Log.Error("admin upload failed",
				zap.String("category", category), zap.String("file", fh.Filename), zap.Error(err))
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.Key, res.URL, res.Thumbnail = record.Key, record.URL, record.Thumbnail
		results = append(results, res)

		if s.records != nil {
			if err := s.records.Create(record); err != nil {
				logger.Log.Error("save upload record failed", zap.String("key", record.Key), zap.Error(err))
			}
		}
	}

	if category == util.CategoryNews && s.news != nil {
		s.news.Invalidate()
	}
	return results, nil
}

func (s *UploadService) uploadOne(ctx context.Context, category string, fh *multipart.FileHeader) (*model.UploadRecord, error) {
	if limit := s.cfg.App.MaxUploadSize; limit > 0 && fh.Size > limit {
		return nil, util.ErrFileTooLarge
	}
	if exts := s.cfg.App.AllowedExtensions; len(exts) > 0 && !util.HasExt(fh.Filename, exts) {
		return nil, util.ErrInvalidFileType
	}

	key := fmt.Sprintf("%s/%d_%s", category, s.now().Unix(), filepath.Base(fh.Filename))
	contentType := util.ContentTypeFor(fh.Filename)
	record := &model.UploadRecord{
		Category:    category,
		Key:         key,
		Size:        fh.Size,
		ContentType: contentType,
		Status:      model.UploadApproved,
		ByAdmin:     true,
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if !util.HasExt(fh.Filename, util.AllowedVideoExtensions) {
		record.URL, err = s.storage.Upload(ctx, key, src, fh.Size, contentType)
		if err != nil {
			return nil, err
		}
		return record, nil
	}

	// 视频先落到临时文件，上传原片后再截取缩略图
	tempDir, err := os.MkdirTemp("", "civilpass-upload-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	videoPath := filepath.Join(tempDir, "video"+util.Ext(fh.Filename))
	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	record.URL, err = s.storage.UploadFile(ctx, key, videoPath, contentType)
	if err != nil {
		return nil, err
	}

	thumbPath := filepath.Join(tempDir, "thumb.jpg")
	if err := s.thumbnail(videoPath, thumbPath, "00:00:01"); err != nil {
		// 缩略图失败不影响视频本身
		logger.Log.Warn("generate thumbnail failed", zap.String("key", key), zap.Error(err))
		return record, nil
	}
	base := strings.TrimSuffix(filepath.Base(key), filepath.Ext(key))
	thumbKey := fmt.Sprintf("%s/thumbnails/%s.jpg", category, base)
	record.Thumbnail, err = s.storage.UploadFile(ctx, thumbKey, thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("upload thumbnail failed", zap.String("key", thumbKey), zap.Error(err))
		record.Thumbnail = ""
	}
	return record, nil
}

// Pending 列出待审核记录
func (s *UploadService) Pending(ctx context.Context) (*PendingUploads, error) {
	records, err := s.records.FindByStatus(model.UploadPending)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(ExperienceUploadTypes))
	for _, category := range ExperienceUploadTypes {
		n, err := s.records.CountByCategory(category)
		if err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return &PendingUploads{Records: records, Counts: counts}, nil
}

func (s *UploadService) Approve(ctx context.Context, id uint) error {
	return s.records.UpdateStatus(id, model.UploadApproved)
}
