package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"civilpass_backend/internal/config"
	"civilpass_backend/pkg/tracing"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
)

type openaiMessage = openai.ChatCompletionMessage

// ChatCompleter 对话补全接口，测试中用假实现替换
type ChatCompleter interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
	// CompleteStream 流式调用，每个增量片段回调一次，返回拼接后的全文
	CompleteStream(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error)
}

// AIService 基于 OpenAI 兼容接口（DashScope compatible-mode）的大模型客户端
type AIService struct {
	client *openai.Client

	mu    sync.RWMutex
	model string
}

func NewAIService(cfg config.AIConfig) *AIService {
	return newAIService(cfg, cfg.Model)
}

// NewNERService 复用同一套凭证，使用纯文本模型做实体识别
func NewNERService(cfg config.AIConfig) *AIService {
	return newAIService(cfg, cfg.NERModelOrDefault())
}

func newAIService(cfg config.AIConfig, model string) *AIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// SetModel 配置热更新时切换模型
func (s *AIService) SetModel(model string) {
	if model == "" {
		return
	}
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
}

func (s *AIService) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

func (s *AIService) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ai.complete", attribute.String("model", s.Model()))
	defer span.End()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.Model(),
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) CompleteStream(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ai.stream", attribute.String("model", s.Model()))
	defer span.End()

	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    s.Model(),
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return full.String(), nil
}

func systemMessage(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: content}
}

func userMessage(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: content}
}

// userMultiMessage 图文混合输入，text 或 imageURL 可以为空但不能同时为空
func userMultiMessage(text, imageURL string) openai.ChatCompletionMessage {
	if imageURL == "" {
		return userMessage(text)
	}
	var parts []openai.ChatMessagePart
	if text != "" {
		parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: text})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type:     openai.ChatMessagePartTypeImageURL,
		ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailAuto},
	})
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts}
}
