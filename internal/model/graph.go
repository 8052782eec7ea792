package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NodeID 保存节点 id 的原始 JSON 字面量（数字 1 或字符串 "a"），序列化时原样写回
type NodeID string

func (id NodeID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte(`""`), nil
	}
	return []byte(id), nil
}

func (id *NodeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = NodeID(b)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("node id must be a number or string: %s", b)
	}
	*id = NodeID(b)
	return nil
}

// Key 比较用的值，1 与 "1" 指向同一节点
func (id NodeID) Key() string {
	var s string
	if err := json.Unmarshal([]byte(id), &s); err == nil {
		return s
	}
	return string(id)
}

func (id NodeID) String() string {
	return id.Key()
}

func NodeIDFromInt(i int) NodeID {
	return NodeID(strconv.Itoa(i))
}

func NodeIDFromString(s string) NodeID {
	return NodeID(strconv.Quote(s))
}

type GraphNode struct {
	ID          NodeID `json:"id" validate:"required"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Shape       string `json:"shape,omitempty"`
	Size        int    `json:"size,omitempty"`
	Group       string `json:"group,omitempty"`
}

type GraphEdge struct {
	From     NodeID `json:"from" validate:"required"`
	To       NodeID `json:"to" validate:"required"`
	Relation string `json:"relation,omitempty"`
	Color    string `json:"color,omitempty"`
	Width    int    `json:"width,omitempty"`
}

// KnowledgeGraph 每次回答重新生成，不落库
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes" validate:"required,dive"`
	Edges []GraphEdge `json:"edges" validate:"required,dive"`
}

func EmptyGraph() KnowledgeGraph {
	return KnowledgeGraph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
}

// Entity 命名实体识别结果，Start/End 为字符（rune）偏移
type Entity struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}
