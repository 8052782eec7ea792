package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/prompt"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"
	"civilpass_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 单次请求带入模型的历史消息上限
const maxHistoryMessages = 20

const qaHistoryLimit = 100

type SessionStore interface {
	Load(ctx context.Context, id string) (*model.ChatSession, error)
	Save(ctx context.Context, sess *model.ChatSession) error
	Delete(ctx context.Context, id string) error
}

// QARecorder 问答历史持久化
type QARecorder interface {
	Create(record *model.QARecord) error
	FindBySession(sessionID string, limit int) ([]model.QARecord, error)
	DeleteBySession(sessionID string) error
}

type AskRequest struct {
	Question  string `json:"question"`
	ImageURL  string `json:"imageUrl"`
	EditIndex *int   `json:"editIndex"`
}

type AskResponse struct {
	SessionID  string              `json:"sessionId"`
	Answer     string              `json:"answer"`
	AnswerHTML string              `json:"answerHtml"`
	Nodes      []model.GraphNode   `json:"nodes"`
	Edges      []model.GraphEdge   `json:"edges"`
	Messages   []model.ChatMessage `json:"messages"`
}

type ChatService struct {
	completer ChatCompleter
	graphs    *KnowledgeGraphBuilder
	prompts   *prompt.Set
	sessions  SessionStore
	history   QARecorder
	storage   *StorageService
}

func NewChatService(completer ChatCompleter, graphs *KnowledgeGraphBuilder, prompts *prompt.Set,
	sessions SessionStore, history QARecorder, storage *StorageService) *ChatService {
	return &ChatService{
		completer: completer,
		graphs:    graphs,
		prompts:   prompts,
		sessions:  sessions,
		history:   history,
		storage:   storage,
	}
}

// NewSessionID 客户端未携带 X-Session-ID 时分配
func NewSessionID() string {
	return uuid.NewString()
}

func (s *ChatService) Session(ctx context.Context, id string) (*model.ChatSession, error) {
	return s.sessions.Load(ctx, id)
}

// ResetSession 清空会话上下文及其问答历史
func (s *ChatService) ResetSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if s.history != nil {
		if err := s.history.DeleteBySession(id); err != nil {
			logger.Log.Error("failed to clear qa history", zap.String("session", id), zap.Error(err))
		}
	}
	return nil
}

// History 按时间顺序返回会话的问答记录，未配置持久化时为空
func (s *ChatService) History(ctx context.Context, id string) ([]model.QARecord, error) {
	if s.history == nil {
		return []model.QARecord{}, nil
	}
	return s.history.FindBySession(id, qaHistoryLimit)
}

// Ask 加载会话、完成一轮问答并保存
func (s *ChatService) Ask(ctx context.Context, sessionID string, req AskRequest) (*AskResponse, error) {
	return s.ask(ctx, sessionID, req, nil)
}

// AskStream 同 Ask，回答片段生成时逐段回调 onDelta
func (s *ChatService) AskStream(ctx context.Context, sessionID string, req AskRequest, onDelta func(string)) (*AskResponse, error) {
	return s.ask(ctx, sessionID, req, onDelta)
}

func (s *ChatService) ask(ctx context.Context, sessionID string, req AskRequest, onDelta func(string)) (*AskResponse, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := s.converse(ctx, sess, req, onDelta)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Log.Error("failed to save chat session", zap.String("session", sessionID), zap.Error(err))
	}
	return resp, nil
}

// Converse 在给定会话上完成一轮问答，会话对象被原地更新
func (s *ChatService) Converse(ctx context.Context, sess *model.ChatSession, req AskRequest) (*AskResponse, error) {
	return s.converse(ctx, sess, req, nil)
}

func (s *ChatService) converse(ctx context.Context, sess *model.ChatSession, req AskRequest, onDelta func(string)) (*AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" && req.ImageURL == "" {
		return nil, util.ErrEmptyContent
	}

	// 编辑历史消息：从该位置起截断后重新提问
	if req.EditIndex != nil && *req.EditIndex >= 0 && *req.EditIndex < len(sess.Messages) {
		sess.Messages = sess.Messages[:*req.EditIndex]
	}
	sess.EditingIndex = -1

	messages := []openaiMessage{systemMessage(s.systemPrompt(question))}
	history := sess.Messages
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, m := range history {
		messages = append(messages, openaiMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, userMultiMessage(question, req.ImageURL))

	var (
		raw string
		err error
	)
	if onDelta != nil {
		raw, err = s.completer.CompleteStream(ctx, messages, onDelta)
	} else {
		raw, err = s.completer.Complete(ctx, messages)
	}
	if err != nil {
		logger.Log.Warn("chat completion failed", zap.String("session", sess.ID), zap.Error(err))
		monitoring.CollaboratorFailures.WithLabelValues("chat").Inc()
		raw = util.MarkerAIParseFailed + err.Error()
	}

	answer, _ := SplitAnswer(raw)
	graph := s.graphs.Build(ctx, raw)

	content := question
	if content == "" {
		content = s.prompts.Chat.ImageOnly
	}
	sess.Messages = append(sess.Messages,
		model.ChatMessage{Role: "user", Content: content, ImageURL: req.ImageURL},
		model.ChatMessage{Role: "assistant", Content: answer},
	)

	if s.history != nil {
		record := &model.QARecord{
			SessionID: sess.ID,
			Question:  content,
			ImageURL:  req.ImageURL,
			Answer:    answer,
			NodeCount: len(graph.Nodes),
		}
		if err := s.history.Create(record); err != nil {
			logger.Log.Error("failed to record qa history", zap.Error(err))
		}
	}

	return &AskResponse{
		SessionID:  sess.ID,
		Answer:     answer,
		AnswerHTML: util.RenderMarkdown(answer),
		Nodes:      graph.Nodes,
		Edges:      graph.Edges,
		Messages:   sess.Messages,
	}, nil
}

func (s *ChatService) systemPrompt(question string) string {
	for _, kw := range s.prompts.Chat.GraphicKeywords {
		if strings.Contains(question, kw) {
			return s.prompts.Chat.System + s.prompts.Chat.GraphicAppendix
		}
	}
	return s.prompts.Chat.System
}

// UploadImage 题目图片缩放到最大宽度后上传，返回可供模型访问的公网地址
func (s *ChatService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !util.HasExt(filename, util.AllowedImageExtensions) {
		return "", fmt.Errorf("%w: %s", util.ErrInvalidFileType, util.Ext(filename))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	// 扩展名可伪造，按内容再校验一次
	if _, err := util.ValidateMimeType(bytes.NewReader(raw), []string{util.MimeImage}); err != nil {
		return "", err
	}

	data, contentType, err := util.ResizeImage(bytes.NewReader(raw), util.MaxImageWidth)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrInvalidFileType, err)
	}

	key := util.TimestampedKey(util.ChatImagePrefix, filename, time.Now())
	url, err := s.storage.UploadBytes(ctx, key, data, contentType)
	if err != nil {
		logger.Log.Error("chat image upload failed", zap.String("key", key), zap.Error(err))
		monitoring.CollaboratorFailures.WithLabelValues("storage").Inc()
		return "", err
	}
	return url, nil
}
