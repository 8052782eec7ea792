package repository

import (
	"civilpass_backend/internal/model"
	"context"
	"encoding/json"
	"time"
)

const (
	sessionKeyPrefix = "civilpass:chat:session:"
	sessionTTL       = 24 * time.Hour
)

// SessionRepository 聊天会话上下文，按 X-Session-ID 存取
type SessionRepository struct {
	store KVStore
}

func NewSessionRepository(store KVStore) *SessionRepository {
	return &SessionRepository{store: store}
}

// Load 不存在时返回一个新的空会话
func (r *SessionRepository) Load(ctx context.Context, id string) (*model.ChatSession, error) {
	raw, ok, err := r.store.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return model.NewChatSession(id), nil
	}

	var sess model.ChatSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		// 旧格式或损坏的数据直接丢弃
		return model.NewChatSession(id), nil
	}
	if sess.Messages == nil {
		sess.Messages = []model.ChatMessage{}
	}
	return &sess, nil
}

func (r *SessionRepository) Save(ctx context.Context, sess *model.ChatSession) error {
	sess.UpdatedAt = time.Now()
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, sessionKeyPrefix+sess.ID, raw, sessionTTL)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Del(ctx, sessionKeyPrefix+id)
}
