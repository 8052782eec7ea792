package model

import "time"

type MaterialKind string

const (
	KindVideo MaterialKind = "video"
	KindPDF   MaterialKind = "pdf"
	KindImage MaterialKind = "image"
	KindFile  MaterialKind = "file"
)

type MaterialItem struct {
	Name string       `json:"name"`
	Key  string       `json:"key"`
	URL  string       `json:"url"`
	Kind MaterialKind `json:"kind"`
}

type MaterialGroup struct {
	Category string         `json:"category"`
	Items    []MaterialItem `json:"items"`
	Warning  string         `json:"warning,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// NewsItem 政策资讯 CSV 中的一行
type NewsItem struct {
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Date       time.Time `json:"date"`
	URL        string    `json:"url"`
	Summary    string    `json:"summary"`
	Region     string    `json:"region"`
	Hotness    float64   `json:"hotness"`
	DataSource string    `json:"dataSource"`
}

type CalendarEvent struct {
	Name     string   `json:"name"`
	Date     string   `json:"date"`
	Regions  []string `json:"regions"`
	Sources  []string `json:"sources"`
	Image    string   `json:"image,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

type CalendarImage struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

type CalendarMonth struct {
	Month  int             `json:"month"`
	Events []CalendarEvent `json:"events"`
	Images []CalendarImage `json:"images"`
}

type ExperienceFile struct {
	Name string       `json:"name"`
	Key  string       `json:"key"`
	URL  string       `json:"url"`
	Type MaterialKind `json:"type"`
}
