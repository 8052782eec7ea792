package service

import (
	"regexp"
	"strconv"
	"sync"

	"civilpass_backend/internal/model"
)

var scorePatterns sync.Map // label -> *regexp.Regexp

// 形如 "切题程度（10分）：8" / "切题程度（10分）得8"，只取第一处匹配
func scorePattern(label string) *regexp.Regexp {
	if re, ok := scorePatterns.Load(label); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(regexp.QuoteMeta(label) + `（\d+分）[:：]?\s*(?:得)?(\d+)`)
	scorePatterns.Store(label, re)
	return re
}

// ExtractScores 从批阅文本中按维度名提取得分。
// 第二个返回值为 false 表示一个维度都没有提取到，此时不能当作 0 分处理。
func ExtractScores(feedback string, labels []string) (model.ScoreSheet, bool) {
	sheet := model.ScoreSheet{}
	for _, label := range labels {
		m := scorePattern(label).FindStringSubmatch(feedback)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		sheet[label] = v
	}
	if len(sheet) == 0 {
		return nil, false
	}
	return sheet, true
}
