package model

import "time"

type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ChatSession 每个请求显式加载、修改、保存的会话上下文
type ChatSession struct {
	ID           string        `json:"id"`
	Messages     []ChatMessage `json:"messages"`
	EditingIndex int           `json:"editingIndex"` // -1 表示未在编辑
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func NewChatSession(id string) *ChatSession {
	return &ChatSession{
		ID:           id,
		Messages:     []ChatMessage{},
		EditingIndex: -1,
		UpdatedAt:    time.Now(),
	}
}

// QARecord 问答历史
// swagger:model QARecord
type QARecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"size:64;index" json:"sessionId"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	ImageURL  string    `gorm:"size:512" json:"imageUrl,omitempty"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	NodeCount int       `json:"nodeCount"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (QARecord) TableName() string {
	return "qa_records"
}
