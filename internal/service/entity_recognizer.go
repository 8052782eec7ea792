package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/prompt"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

// LLMEntityRecognizer 通过大模型做 MSRA 体系的实体识别
type LLMEntityRecognizer struct {
	completer ChatCompleter
	prompts   *prompt.Set
}

func NewLLMEntityRecognizer(completer ChatCompleter, prompts *prompt.Set) *LLMEntityRecognizer {
	return &LLMEntityRecognizer{completer: completer, prompts: prompts}
}

// Recognize 调用失败返回 error；输出无法解析时返回空结果
func (r *LLMEntityRecognizer) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Entity{}, nil
	}

	out, err := r.completer.Complete(ctx, []openaiMessage{
		systemMessage(r.prompts.NER.System),
		userMessage(text),
	})
	if err != nil {
		return nil, err
	}

	raw, err := util.ParseJSON[[]model.Entity](out, '[', ']')
	if err != nil {
		logger.Log.Debug("unparseable NER output", zap.String("output", out), zap.Error(err))
		return []model.Entity{}, nil
	}

	entities := make([]model.Entity, 0, len(raw))
	for _, e := range raw {
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" {
			continue
		}
		e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
		fixOffsets(text, &e)
		entities = append(entities, e)
	}
	return entities, nil
}

// fixOffsets 模型给出的下标经常不准，按字符重新定位
func fixOffsets(text string, e *model.Entity) {
	runes := []rune(text)
	if e.Start >= 0 && e.End <= len(runes) && e.Start < e.End && string(runes[e.Start:e.End]) == e.Text {
		return
	}
	idx := strings.Index(text, e.Text)
	if idx < 0 {
		e.Start, e.End = -1, -1
		return
	}
	e.Start = utf8.RuneCountInString(text[:idx])
	e.End = e.Start + utf8.RuneCountInString(e.Text)
}
