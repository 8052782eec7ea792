package service

import (
	"context"

	"civilpass_backend/internal/prompt"
)

// EssayAI 用同一个大模型客户端实现批阅与优化
type EssayAI struct {
	completer ChatCompleter
	prompts   *prompt.Set
}

func NewEssayAI(completer ChatCompleter, prompts *prompt.Set) *EssayAI {
	return &EssayAI{completer: completer, prompts: prompts}
}

func (a *EssayAI) Grade(ctx context.Context, essay string) (string, error) {
	return a.completer.CompleteStream(ctx, []openaiMessage{
		systemMessage(a.prompts.ReviewSystem()),
		userMessage(essay),
	}, nil)
}

func (a *EssayAI) Optimize(ctx context.Context, essay, feedback string) (string, error) {
	return a.completer.CompleteStream(ctx, []openaiMessage{
		systemMessage(a.prompts.Optimize.System),
		userMessage(a.prompts.OptimizeUser(essay, feedback)),
	}, nil)
}
