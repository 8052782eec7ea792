package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	NewsPageSize   = 5
	newsTopSources = 10

	defaultNewsSummary = "暂无摘要"
	defaultNewsRegion  = "全国"
)

const (
	NewsSortLatest  = "latest"
	NewsSortOldest  = "oldest"
	NewsSortHotness = "hotness"
	NewsSortSource  = "source"
)

var newsRequiredColumns = []string{"title", "source", "date", "url"}

var newsDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	time.RFC3339,
}

type NewsQuery struct {
	From    *time.Time
	To      *time.Time
	Sources []string
	Regions []string
	Keyword string
	Sort    string
	Page    int
}

type NewsPage struct {
	Items          []model.NewsItem `json:"items"`
	Total          int              `json:"total"`
	Page           int              `json:"page"`
	PageSize       int              `json:"pageSize"`
	TotalPages     int              `json:"totalPages"`
	AverageHotness float64          `json:"averageHotness"`
	Sources        []string         `json:"sources"` // 筛选项候选值
	Regions        []string         `json:"regions"`
	Warnings       []string         `json:"-"`
}

type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type WeeklyCount struct {
	WeekEnding string `json:"weekEnding"`
	Count      int    `json:"count"`
}

type NewsInsights struct {
	TopSources []CountEntry  `json:"topSources"`
	Weekly     []WeeklyCount `json:"weekly"`
	Regions    []CountEntry  `json:"regions"`
	Warnings   []string      `json:"-"`
}

type newsSnapshot struct {
	items    []model.NewsItem
	warnings []string
	loadedAt time.Time
}

type NewsService struct {
	storage *StorageService
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	snapshot *newsSnapshot
}

func NewNewsService(storage *StorageService, ttl time.Duration) *NewsService {
	return &NewsService{storage: storage, ttl: ttl, now: time.Now}
}

// Load 读取全部政策资讯，结果在 ttl 内复用
func (s *NewsService) Load(ctx context.Context) ([]model.NewsItem, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && s.ttl > 0 && s.now().Sub(s.snapshot.loadedAt) < s.ttl {
		return s.snapshot.items, s.snapshot.warnings, nil
	}

	keys, err := s.storage.List(ctx, util.CategoryNews)
	if err != nil {
		return nil, nil, fmt.Errorf("目录访问失败：%w", err)
	}

	var csvKeys []string
	for _, k := range keys {
		if strings.HasSuffix(strings.ToLower(k), ".csv") {
			csvKeys = append(csvKeys, k)
		}
	}
	if len(csvKeys) == 0 {
		return nil, nil, util.ErrNoCSVFiles
	}

	var (
		all      []model.NewsItem
		warnings []string
	)
	for _, key := range csvKeys {
		data, err := s.storage.Get(ctx, key)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		rows, err := ParseNewsCSV(bytes.NewReader(data), path.Base(key))
		if err != nil {
			logger.Log.Warn("news csv skipped", zap.String("key", key), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		all = append(all, rows...)
	}

	all = dedupeNews(all)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	s.snapshot = &newsSnapshot{items: all, warnings: warnings, loadedAt: s.now()}
	return all, warnings, nil
}

// Invalidate 管理员上传新的 CSV 后调用
func (s *NewsService) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// ParseNewsCSV 解析一份资讯 CSV；缺少必要列时整份文件失败
func ParseNewsCSV(r io.Reader, dataSource string) ([]model.NewsItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败：%w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")
		idx[strings.ToLower(h)] = i
	}

	var missing []string
	for _, col := range newsRequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w：%s", util.ErrMissingColumns, strings.Join(missing, ", "))
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var items []model.NewsItem
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		item := model.NewsItem{
			Title:      field(rec, "title"),
			Source:     field(rec, "source"),
			URL:        field(rec, "url"),
			Summary:    field(rec, "summary"),
			Region:     field(rec, "region"),
			DataSource: dataSource,
		}
		if item.Title == "" || item.URL == "" {
			continue
		}
		date, ok := parseNewsDate(field(rec, "date"))
		if !ok {
			continue
		}
		item.Date = date
		if item.Summary == "" {
			item.Summary = defaultNewsSummary
		}
		if item.Region == "" {
			item.Region = defaultNewsRegion
		}
		if h, err := strconv.ParseFloat(field(rec, "hotness"), 64); err == nil {
			item.Hotness = h
		}
		items = append(items, item)
	}
	return items, nil
}

func parseNewsDate(s string) (time.Time, bool) {
	for _, layout := range newsDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dedupeNews(items []model.NewsItem) []model.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it.URL]; ok {
			continue
		}
		seen[it.URL] = struct{}{}
		out = append(out, it)
	}
	return out
}

// FilterNews 按查询条件筛选并排序，不分页
func FilterNews(items []model.NewsItem, q NewsQuery) []model.NewsItem {
	sources := toSet(q.Sources)
	regions := toSet(q.Regions)
	keywords := strings.Fields(strings.ToLower(q.Keyword))

	var toEnd time.Time
	if q.To != nil {
		y, m, d := q.To.Date()
		toEnd = time.Date(y, m, d+1, 0, 0, 0, 0, q.To.Location())
	}

	out := make([]model.NewsItem, 0, len(items))
	for _, it := range items {
		if q.From != nil && it.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && !it.Date.Before(toEnd) {
			continue
		}
		if len(sources) > 0 {
			if _, ok := sources[it.Source]; !ok {
				continue
			}
		}
		if len(regions) > 0 {
			if _, ok := regions[it.Region]; !ok {
				continue
			}
		}
		if len(keywords) > 0 && !matchesAnyKeyword(it, keywords) {
			continue
		}
		out = append(out, it)
	}

	switch q.Sort {
	case NewsSortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	case NewsSortHotness:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Hotness > out[j].Hotness })
	case NewsSortSource:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Source != out[j].Source {
				return out[i].Source < out[j].Source
			}
			return out[i].Date.After(out[j].Date)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	}
	return out
}

func matchesAnyKeyword(it model.NewsItem, keywords []string) bool {
	title := strings.ToLower(it.Title)
	summary := strings.ToLower(it.Summary)
	for _, k := range keywords {
		if strings.Contains(title, k) || strings.Contains(summary, k) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func (s *NewsService) Query(ctx context.Context, q NewsQuery) (*NewsPage, error) {
	items, warnings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterNews(items, q)
	total := len(filtered)
	totalPages := int(math.Max(1, math.Ceil(float64(total)/NewsPageSize)))
	page := util.Clamp(q.Page, 1, totalPages)

	start := (page - 1) * NewsPageSize
	end := start + NewsPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	var sum float64
	for _, it := range filtered {
		sum += it.Hotness
	}
	avg := 0.0
	if total > 0 {
		avg = math.Round(sum/float64(total)*10) / 10
	}

	return &NewsPage{
		Items:          filtered[start:end],
		Total:          total,
		Page:           page,
		PageSize:       NewsPageSize,
		TotalPages:     totalPages,
		AverageHotness: avg,
		Sources:        distinct(items, func(it model.NewsItem) string { return it.Source }),
		Regions:        distinct(items, func(it model.NewsItem) string { return it.Region }),
		Warnings:       warnings,
	}, nil
}

func distinct(items []model.NewsItem, key func(model.NewsItem) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *NewsService) Insights(ctx context.Context, q NewsQuery) (*NewsInsights, error) {
	items, warnings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := FilterNews(items, q)

	top := countBy(filtered, func(it model.NewsItem) string { return it.Source })
	if len(top) > newsTopSources {
		top = top[:newsTopSources]
	}

	return &NewsInsights{
		TopSources: top,
		Weekly:     weeklyCounts(filtered),
		Regions:    countBy(filtered, func(it model.NewsItem) string { return it.Region }),
		Warnings:   warnings,
	}, nil
}

// countBy 按出现次数降序，次数相同按名称
func countBy(items []model.NewsItem, key func(model.NewsItem) string) []CountEntry {
	counts := map[string]int{}
	for _, it := range items {
		counts[key(it)]++
	}
	out := make([]CountEntry, 0, len(counts))
	for name, n := range counts {
		out = append(out, CountEntry{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// weeklyCounts 以周日为周末统计，中间没有资讯的周计 0
func weeklyCounts(items []model.NewsItem) []WeeklyCount {
	if len(items) == 0 {
		return []WeeklyCount{}
	}
	counts := map[string]int{}
	var first, last time.Time
	for i, it := range items {
		end := weekEnding(it.Date)
		counts[end.Format(util.DateFormat)]++
		if i == 0 || end.Before(first) {
			first = end
		}
		if i == 0 || end.After(last) {
			last = end
		}
	}

	var out []WeeklyCount
	for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
		label := w.Format(util.DateFormat)
		out = append(out, WeeklyCount{WeekEnding: label, Count: counts[label]})
	}
	return out
}

func weekEnding(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// Export 导出筛选结果为 CSV
func (s *NewsService) Export(ctx context.Context, q NewsQuery) ([]byte, error) {
	items, _, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return EncodeNewsCSV(FilterNews(items, q))
}

func EncodeNewsCSV(items []model.NewsItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"title", "source", "date", "url", "summary", "region", "hotness", "data_source"}); err != nil {
		return nil, err
	}
	for _, it := range items {
		rec := []string{
			it.Title,
			it.Source,
			it.Date.Format(util.DateFormat),
			it.URL,
			it.Summary,
			it.Region,
			strconv.FormatFloat(it.Hotness, 'f', -1, 64),
			it.DataSource,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
