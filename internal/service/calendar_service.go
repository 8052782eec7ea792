package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	CalendarEventsKey   = util.CategoryCalendar + "/events_date.json"
	calendarImagePrefix = util.CategoryCalendar + "/images/"
)

type calendarDocument struct {
	Events []model.CalendarEvent `json:"events"`
}

type CalendarView struct {
	Years   []int                 `json:"years"`
	Year    int                   `json:"year"`
	Query   string                `json:"query"`
	Months  []model.CalendarMonth `json:"months"`
	Warning string                `json:"warning,omitempty"`
}

type CalendarService struct {
	storage *StorageService
}

func NewCalendarService(storage *StorageService) *CalendarService {
	return &CalendarService{storage: storage}
}

// load 读取事件与月份图片；事件按日期升序
func (s *CalendarService) load(ctx context.Context) ([]model.CalendarEvent, []model.CalendarImage, error) {
	data, err := s.storage.Get(ctx, CalendarEventsKey)
	if err != nil {
		return nil, nil, err
	}
	var doc calendarDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("解析考试事件失败：%w", err)
	}

	events := make([]model.CalendarEvent, 0, len(doc.Events))
	for _, e := range doc.Events {
		if _, err := time.Parse(util.DateFormat, e.Date); err != nil {
			logger.Log.Warn("calendar event skipped", zap.String("name", e.Name), zap.String("date", e.Date))
			continue
		}
		if e.Image != "" {
			e.ImageURL = s.storage.GetURL(e.Image)
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })

	keys, err := s.storage.List(ctx, calendarImagePrefix)
	if err != nil {
		return nil, nil, err
	}
	images := []model.CalendarImage{}
	for _, key := range keys {
		if !util.HasExt(key, util.AllowedImageExtensions) {
			continue
		}
		images = append(images, model.CalendarImage{
			Name: path.Base(key),
			Key:  key,
			URL:  s.storage.GetURL(key),
		})
	}
	return events, images, nil
}

// View 构造指定年份的 12 个月视图；year 为 0 时取最新年份
func (s *CalendarService) View(ctx context.Context, year int, query string) *CalendarView {
	query = strings.TrimSpace(query)
	view := &CalendarView{Years: []int{}, Query: query}

	events, images, err := s.load(ctx)
	if err != nil {
		logger.Log.Error("load calendar failed", zap.Error(err))
		view.Warning = "数据加载失败：" + err.Error()
		view.Months = emptyMonths()
		return view
	}

	view.Years = eventYears(events)
	switch {
	case year != 0:
		view.Year = year
	case len(view.Years) > 0:
		view.Year = view.Years[0]
	default:
		view.Year = time.Now().Year()
	}

	view.Months = emptyMonths()
	q := strings.ToLower(query)
	for _, e := range events {
		d, _ := time.Parse(util.DateFormat, e.Date)
		if d.Year() != view.Year || !eventMatches(e, q) {
			continue
		}
		m := &view.Months[int(d.Month())-1]
		m.Events = append(m.Events, e)
	}

	for i := range view.Months {
		tag := fmt.Sprintf("%d-%02d", view.Year, i+1)
		for _, img := range images {
			if strings.Contains(img.Name, tag) {
				view.Months[i].Images = append(view.Months[i].Images, img)
			}
		}
	}
	return view
}

func emptyMonths() []model.CalendarMonth {
	months := make([]model.CalendarMonth, 12)
	for i := range months {
		months[i] = model.CalendarMonth{
			Month:  i + 1,
			Events: []model.CalendarEvent{},
			Images: []model.CalendarImage{},
		}
	}
	return months
}

func eventYears(events []model.CalendarEvent) []int {
	seen := map[int]struct{}{}
	years := []int{}
	for _, e := range events {
		d, _ := time.Parse(util.DateFormat, e.Date)
		if _, ok := seen[d.Year()]; ok {
			continue
		}
		seen[d.Year()] = struct{}{}
		years = append(years, d.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// eventMatches 关键词命中名称或任一地区，大小写不敏感
func eventMatches(e model.CalendarEvent, q string) bool {
	if q == "" || strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}
	for _, r := range e.Regions {
		if strings.Contains(strings.ToLower(r), q) {
			return true
		}
	}
	return false
}

// QRCode 订阅二维码图片
func (s *CalendarService) QRCode(ctx context.Context) ([]byte, error) {
	data, err := s.storage.Get(ctx, util.QRCodeKey)
	if err != nil {
		if !errors.Is(err, util.ErrObjectNotFound) {
			logger.Log.Warn("load qrcode failed", zap.Error(err))
		}
		return nil, err
	}
	return data, nil
}
