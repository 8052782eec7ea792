package model

// RubricDimension 申论评分维度
type RubricDimension struct {
	Group string `json:"group"`
	Label string `json:"label"`
	Max   int    `json:"max"`
}

// Rubric 固定评分表：内容40 结构20 语言30 书写10
var Rubric = []RubricDimension{
	{Group: "内容", Label: "切题程度", Max: 10},
	{Group: "内容", Label: "思想深度", Max: 15},
	{Group: "内容", Label: "论据质量", Max: 15},
	{Group: "结构", Label: "整体布局", Max: 8},
	{Group: "结构", Label: "段落安排", Max: 6},
	{Group: "结构", Label: "开头结尾", Max: 6},
	{Group: "语言", Label: "语言规范", Max: 10},
	{Group: "语言", Label: "表达流畅", Max: 10},
	{Group: "语言", Label: "风格得体", Max: 10},
	{Group: "书写", Label: "字迹工整", Max: 4},
	{Group: "书写", Label: "卷面整洁", Max: 3},
	{Group: "书写", Label: "字数符合", Max: 3},
}

// RubricLabels 按声明顺序返回维度名
func RubricLabels() []string {
	labels := make([]string, len(Rubric))
	for i, d := range Rubric {
		labels[i] = d.Label
	}
	return labels
}

func RubricMaxTotal() int {
	total := 0
	for _, d := range Rubric {
		total += d.Max
	}
	return total
}
