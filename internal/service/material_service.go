package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

// 无年份关键词时每个分类最多展示的 PDF 数
const maxPDFWithoutKeyword = 5

var MaterialCategories = []string{util.CategoryXingce, util.CategoryShenlun, util.CategoryVideo}

type MaterialService struct {
	storage *StorageService
}

func NewMaterialService(storage *StorageService) *MaterialService {
	return &MaterialService{storage: storage}
}

func IsMaterialCategory(c string) bool {
	for _, x := range MaterialCategories {
		if x == c {
			return true
		}
	}
	return false
}

// List 按分类列出资料；单个分类失败只影响该分类
func (s *MaterialService) List(ctx context.Context, categories []string, yearKeyword string) ([]model.MaterialGroup, error) {
	yearKeyword = strings.TrimSpace(yearKeyword)
	groups := make([]model.MaterialGroup, 0, len(categories))

	for _, category := range categories {
		if !IsMaterialCategory(category) {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidCategory, category)
		}

		group := model.MaterialGroup{Category: category, Items: []model.MaterialItem{}}
		keys, err := s.storage.List(ctx, category)
		if err != nil {
			logger.Log.Error("list materials failed", zap.String("category", category), zap.Error(err))
			group.Error = "加载失败：" + err.Error()
			groups = append(groups, group)
			continue
		}
		if len(keys) == 0 {
			group.Warning = "当前类别暂无内容"
			groups = append(groups, group)
			continue
		}

		group.Items = s.filter(category, keys, yearKeyword)
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *MaterialService) filter(category string, keys []string, yearKeyword string) []model.MaterialItem {
	items := []model.MaterialItem{}
	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}
		name := path.Base(key)
		if yearKeyword != "" && !strings.Contains(name, yearKeyword) {
			continue
		}

		kind := materialKind(category, name)
		// 计数包含所有已展示的条目，不只是 PDF
		if kind == model.KindPDF && yearKeyword == "" && len(items) >= maxPDFWithoutKeyword {
			continue
		}

		items = append(items, model.MaterialItem{
			Name: name,
			Key:  key,
			URL:  s.storage.GetURL(key),
			Kind: kind,
		})
	}
	return items
}

func materialKind(category, name string) model.MaterialKind {
	switch {
	case category == util.CategoryVideo && util.HasExt(name, util.AllowedVideoExtensions):
		return model.KindVideo
	case util.Ext(name) == ".pdf":
		return model.KindPDF
	case util.HasExt(name, util.AllowedImageExtensions):
		return model.KindImage
	default:
		return model.KindFile
	}
}
