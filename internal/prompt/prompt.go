package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"civilpass_backend/internal/model"

	"github.com/pelletier/go-toml/v2"
)

//go:embed prompts.toml
var raw []byte

type Set struct {
	Chat struct {
		System          string   `toml:"system"`
		GraphicAppendix string   `toml:"graphic_appendix"`
		GraphicKeywords []string `toml:"graphic_keywords"`
		ImageOnly       string   `toml:"image_only"`
	} `toml:"chat"`
	Review struct {
		System string `toml:"system"`
	} `toml:"review"`
	Optimize struct {
		System string `toml:"system"`
		User   string `toml:"user"`
	} `toml:"optimize"`
	NER struct {
		System string `toml:"system"`
	} `toml:"ner"`

	reviewSystem string
	optimizeUser *template.Template
}

// Load 解析内嵌的 prompts.toml，并预渲染评分表
func Load() (*Set, error) {
	var s Set
	if err := toml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse prompts.toml: %w", err)
	}

	reviewTpl, err := template.New("review").Parse(s.Review.System)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := reviewTpl.Execute(&buf, rubricView()); err != nil {
		return nil, err
	}
	s.reviewSystem = buf.String()

	s.optimizeUser, err = template.New("optimize").Parse(s.Optimize.User)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MustLoad 内嵌文件在编译期固定，解析失败即程序错误
func MustLoad() *Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) ReviewSystem() string {
	return s.reviewSystem
}

func (s *Set) OptimizeUser(essay, feedback string) string {
	var buf bytes.Buffer
	_ = s.optimizeUser.Execute(&buf, struct{ Essay, Feedback string }{essay, feedback})
	return buf.String()
}

type group struct {
	Name       string
	Max        int
	Dimensions []model.RubricDimension
}

func rubricView() interface{} {
	var groups []*group
	index := map[string]*group{}
	for _, d := range model.Rubric {
		g, ok := index[d.Group]
		if !ok {
			g = &group{Name: d.Group}
			index[d.Group] = g
			groups = append(groups, g)
		}
		g.Max += d.Max
		g.Dimensions = append(g.Dimensions, d)
	}
	return struct {
		Groups []*group
		Total  int
	}{groups, model.RubricMaxTotal()}
}
