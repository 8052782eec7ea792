package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	ExperienceTypeNotes   = "学习笔记"
	ExperienceTypeMistake = "错题集"

	MaxExperienceFileSize = 20 * 1024 * 1024
)

var (
	ExperienceTabs        = []string{util.CategoryExperience, ExperienceTypeNotes, ExperienceTypeMistake}
	ExperienceUploadTypes = []string{ExperienceTypeNotes, ExperienceTypeMistake}
	experienceAllowedExts = []string{".pdf", ".jpg", ".jpeg", ".png"}
)

// UploadRecorder 上传记录落库
type UploadRecorder interface {
	CreateBatch(records []model.UploadRecord) error
}

type ExperienceService struct {
	storage *StorageService
	records UploadRecorder
	now     func() time.Time
}

func NewExperienceService(storage *StorageService, records UploadRecorder) *ExperienceService {
	return &ExperienceService{storage: storage, records: records, now: time.Now}
}

type UploadResult struct {
	Success int      `json:"success"`
	Failed  []string `json:"failed,omitempty"`
}

// Upload 考生投稿，单个文件失败不影响其余文件；记录状态为待审核
func (s *ExperienceService) Upload(ctx context.Context, uploadType string, files []*multipart.FileHeader) (*UploadResult, error) {
	if !contains(ExperienceUploadTypes, uploadType) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidCategory, uploadType)
	}
	if len(files) == 0 {
		return nil, util.ErrEmptyContent
	}

	folder := uploadType
	result := &UploadResult{}
	var records []model.UploadRecord

	for _, fh := range files {
		if err := checkExperienceFile(fh); err != nil {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}

		key := util.TimestampedKey(folder, fh.Filename, s.now())
		url, err := s.uploadHeader(ctx, key, fh)
		if err != nil {
			logger.Log.Error("experience upload failed", zap.String("key", key), zap.Error(err))
			result.Failed = append(result.Failed, fmt.Sprintf("%s: 上传失败", fh.Filename))
			continue
		}

		records = append(records, model.UploadRecord{
			Category:    folder,
			Key:         key,
			URL:         url,
			Size:        fh.Size,
			ContentType: util.ContentTypeFor(fh.Filename),
			Status:      model.UploadPending,
		})
		result.Success++
	}

	if s.records != nil {
		if err := s.records.CreateBatch(records); err != nil {
			logger.Log.Error("save upload records failed", zap.Error(err))
		}
	}
	return result, nil
}

func checkExperienceFile(fh *multipart.FileHeader) error {
	if !util.HasExt(fh.Filename, experienceAllowedExts) {
		return util.ErrInvalidFileType
	}
	if fh.Size > MaxExperienceFileSize {
		return util.ErrFileTooLarge
	}
	return nil
}

func (s *ExperienceService) uploadHeader(ctx context.Context, key string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.storage.Upload(ctx, key, src, fh.Size, util.ContentTypeFor(fh.Filename))
}

// List 按标签列出投稿文件
func (s *ExperienceService) List(ctx context.Context, tab string) ([]model.ExperienceFile, error) {
	if !contains(ExperienceTabs, tab) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidCategory, tab)
	}

	// 三个标签各自是存储中的顶层目录
	keys, err := s.storage.List(ctx, tab+"/")
	if err != nil {
		return nil, err
	}

	files := []model.ExperienceFile{}
	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}
		kind := model.KindImage
		if util.Ext(key) == ".pdf" {
			kind = model.KindPDF
		}
		files = append(files, model.ExperienceFile{
			Name: util.DisplayName(key),
			Key:  key,
			URL:  s.storage.GetURL(key),
			Type: kind,
		})
	}
	return files, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
