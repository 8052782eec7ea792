package service

import (
	"context"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"
	"civilpass_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Grader 返回批阅全文
type Grader interface {
	Grade(ctx context.Context, essay string) (string, error)
}

// Optimizer 根据批阅反馈返回优化后的作文
type Optimizer interface {
	Optimize(ctx context.Context, essay, feedback string) (string, error)
}

// EssayLoop 批改 -> 优化 -> 再批改，直到达到目标分或轮次用尽
type EssayLoop struct {
	grader    Grader
	optimizer Optimizer
	labels    []string
}

func NewEssayLoop(grader Grader, optimizer Optimizer, labels []string) *EssayLoop {
	return &EssayLoop{grader: grader, optimizer: optimizer, labels: labels}
}

// Run 返回完整的轮次历史，至少包含一轮。未达到目标分属于正常结果。
// 外部调用失败时把错误标记写入反馈或作文文本，继续按轮次走完。
// onRound 可为 nil，每产生一轮回调一次（用于 SSE 推送）。
func (l *EssayLoop) Run(ctx context.Context, essay string, target, maxRounds int, onRound func(model.Round)) []model.Round {
	if maxRounds < 1 {
		maxRounds = 1
	}

	history := make([]model.Round, 0, maxRounds)
	current := essay

	for {
		round := l.grade(ctx, len(history)+1, current)
		history = append(history, round)
		if onRound != nil {
			onRound(round)
		}

		if round.Total >= target || len(history) >= maxRounds {
			break
		}
		// 客户端已断开时不再继续调用模型
		if ctx.Err() != nil {
			break
		}

		current = l.optimize(ctx, round.Round, current, round.Feedback)
	}

	return history
}

func (l *EssayLoop) grade(ctx context.Context, n int, essay string) model.Round {
	feedback, err := l.grader.Grade(ctx, essay)
	if err != nil {
		logger.Log.Warn("essay grading failed", zap.Int("round", n), zap.Error(err))
		monitoring.CollaboratorFailures.WithLabelValues("chat").Inc()
		feedback = util.MarkerReviewFailed + err.Error()
	}

	scores, ok := ExtractScores(feedback, l.labels)
	if !ok {
		scores = model.ScoreSheet{}
	}

	return model.Round{
		Round:           n,
		Essay:           essay,
		Feedback:        feedback,
		Scores:          scores,
		Total:           scores.Total(),
		ScoresExtracted: ok,
	}
}

func (l *EssayLoop) optimize(ctx context.Context, n int, essay, feedback string) string {
	improved, err := l.optimizer.Optimize(ctx, essay, feedback)
	if err != nil {
		logger.Log.Warn("essay optimization failed", zap.Int("round", n), zap.Error(err))
		monitoring.CollaboratorFailures.WithLabelValues("chat").Inc()
		return util.MarkerOptimizeFailed + err.Error()
	}
	return improved
}
