package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"civilpass_backend/internal/model"
	"civilpass_backend/pkg/logger"
	"civilpass_backend/pkg/monitoring"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// EntityRecognizer 命名实体识别，返回空切片是合法结果
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]model.Entity, error)
}

var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

// 图形推理题关键词，命中即返回固定模板图谱
var graphicTemplateKeywords = []string{"图形", "推理", "变化", "颜色", "边数", "规律", "对称", "旋转", "排列"}

type entityStyle struct {
	Category string
	Color    string
	Shape    string
}

// MSRA 标注类型 -> 展示样式
var entityStyles = map[string]entityStyle{
	"PER":  {"人物", "#03a9f4", "dot"},
	"ORG":  {"组织", "#4caf50", "box"},
	"LOC":  {"地点", "#ff9800", "triangle"},
	"TIME": {"时间", "#ab47bc", "ellipse"},
}

var defaultEntityStyle = entityStyle{"实体", "#9e9e9e", "ellipse"}

const (
	entityNodeSize       = 28
	templateRelation     = "包含"
	cooccurrenceRelation = "共现"
	cooccurrenceColor    = "#ccc"
	cooccurrenceWeight   = 1
)

type KnowledgeGraphBuilder struct {
	recognizer EntityRecognizer
	validate   *validator.Validate
}

func NewKnowledgeGraphBuilder(recognizer EntityRecognizer) *KnowledgeGraphBuilder {
	return &KnowledgeGraphBuilder{
		recognizer: recognizer,
		validate:   validator.New(),
	}
}

// SplitAnswer 拆分回答正文与 ```json 图谱块，没有图谱块时 block 为空
func SplitAnswer(raw string) (text string, block string) {
	loc := fencedJSON.FindStringSubmatchIndex(raw)
	if loc == nil {
		return strings.TrimSpace(raw), ""
	}
	text = strings.TrimSpace(raw[:loc[0]] + raw[loc[1]:])
	return text, strings.TrimSpace(raw[loc[2]:loc[3]])
}

// Build 依次尝试：内嵌图谱 -> 图形推理模板 -> 实体共现图
func (b *KnowledgeGraphBuilder) Build(ctx context.Context, text string) model.KnowledgeGraph {
	if g, err := b.parseEmbedded(text); err == nil {
		return g
	} else if !errors.Is(err, errNoEmbeddedGraph) {
		logger.Log.Debug("embedded graph rejected", zap.Error(err))
	}

	for _, kw := range graphicTemplateKeywords {
		if strings.Contains(text, kw) {
			return GraphicReasoningTemplate()
		}
	}

	entities, err := b.recognizer.Recognize(ctx, text)
	if err != nil {
		logger.Log.Warn("entity recognition failed", zap.Error(err))
		monitoring.CollaboratorFailures.WithLabelValues("ner").Inc()
		return model.EmptyGraph()
	}
	return CooccurrenceGraph(entities)
}

var errNoEmbeddedGraph = errors.New("no embedded graph")

// 模型可能输出 {"knowledge_graph": {...}}，也可能直接输出 {"nodes": [...], "edges": [...]}
type graphEnvelope struct {
	Wrapped *model.KnowledgeGraph `json:"knowledge_graph"`
	Nodes   []model.GraphNode     `json:"nodes"`
	Edges   []model.GraphEdge     `json:"edges"`
}

func (b *KnowledgeGraphBuilder) parseEmbedded(text string) (model.KnowledgeGraph, error) {
	m := fencedJSON.FindStringSubmatch(text)
	if m == nil {
		return model.KnowledgeGraph{}, errNoEmbeddedGraph
	}

	var env graphEnvelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &env); err != nil {
		return model.KnowledgeGraph{}, err
	}

	g := model.KnowledgeGraph{Nodes: env.Nodes, Edges: env.Edges}
	if env.Wrapped != nil {
		g = *env.Wrapped
	}

	if err := b.validate.Struct(g); err != nil {
		return model.KnowledgeGraph{}, err
	}
	if err := checkEdgeEndpoints(g); err != nil {
		return model.KnowledgeGraph{}, err
	}
	return g, nil
}

func checkEdgeEndpoints(g model.KnowledgeGraph) error {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := ids[n.ID.Key()]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID.Key())
		}
		ids[n.ID.Key()] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := ids[e.From.Key()]; !ok {
			return fmt.Errorf("edge references unknown node %q", e.From.Key())
		}
		if _, ok := ids[e.To.Key()]; !ok {
			return fmt.Errorf("edge references unknown node %q", e.To.Key())
		}
	}
	return nil
}

// GraphicReasoningTemplate 图形推理固定图谱：根节点包含四个子概念
func GraphicReasoningTemplate() model.KnowledgeGraph {
	nodes := []model.GraphNode{
		{ID: model.NodeIDFromInt(1), Label: "图形推理", Description: "通过图形规律推断结果", Color: "#4CAF50", Shape: "star"},
		{ID: model.NodeIDFromInt(2), Label: "形状变化", Description: "边数/结构的变化模式", Color: "#03A9F4", Shape: "box"},
		{ID: model.NodeIDFromInt(3), Label: "颜色规律", Description: "颜色轮换/重复/渐变", Color: "#FFC107", Shape: "triangle"},
		{ID: model.NodeIDFromInt(4), Label: "位置排列", Description: "图形在空间位置的变化", Color: "#E91E63", Shape: "diamond"},
		{ID: model.NodeIDFromInt(5), Label: "对称性", Description: "轴对称/中心对称等形式", Color: "#9C27B0", Shape: "ellipse"},
	}
	edges := make([]model.GraphEdge, 0, len(nodes)-1)
	for _, n := range nodes[1:] {
		edges = append(edges, model.GraphEdge{From: nodes[0].ID, To: n.ID, Relation: templateRelation})
	}
	return model.KnowledgeGraph{Nodes: nodes, Edges: edges}
}

// CooccurrenceGraph 每个实体一个节点，任意两节点之间一条共现边
func CooccurrenceGraph(entities []model.Entity) model.KnowledgeGraph {
	g := model.EmptyGraph()
	for i, ent := range entities {
		style, ok := entityStyles[strings.ToUpper(ent.Type)]
		if !ok {
			style = defaultEntityStyle
		}
		g.Nodes = append(g.Nodes, model.GraphNode{
			ID:          model.NodeIDFromInt(i + 1),
			Label:       ent.Text,
			Description: style.Category + "：" + ent.Text,
			Color:       style.Color,
			Shape:       style.Shape,
			Size:        entityNodeSize,
			Group:       ent.Type,
		})
	}
	for i := 0; i < len(g.Nodes); i++ {
		for j := i + 1; j < len(g.Nodes); j++ {
			g.Edges = append(g.Edges, model.GraphEdge{
				From:     g.Nodes[i].ID,
				To:       g.Nodes[j].ID,
				Relation: cooccurrenceRelation,
				Color:    cooccurrenceColor,
				Width:    cooccurrenceWeight,
			})
		}
	}
	return g
}
