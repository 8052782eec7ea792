package service

import (
	"context"
	"strings"
	"sync"

	"civilpass_backend/internal/config"
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"
	"civilpass_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const scoresMissingWarning = "未能成功提取每个维度得分"

type EssayReviewStore interface {
	Create(review *model.EssayReview) error
	FindByID(id uint) (*model.EssayReview, error)
	FindBySession(sessionID string, limit int) ([]model.EssayReview, error)
}

const reviewListLimit = 20

type ReviewRequest struct {
	Text        string `json:"text" binding:"required"`
	TargetScore *int   `json:"targetScore" binding:"omitempty,min=1,max=100"`
	MaxRounds   *int   `json:"maxRounds" binding:"omitempty,min=1,max=10"`
}

type ReviewResult struct {
	ID              uint                `json:"id"`
	History         []model.Round       `json:"history"`
	Final           model.Round         `json:"final"`
	FeedbackHTML    string              `json:"feedbackHtml"`
	Outcome         model.ReviewOutcome `json:"outcome"`
	ScoresExtracted bool                `json:"scoresExtracted"`
	Warning         string              `json:"warning,omitempty"`
}

type EssayService struct {
	loop  *EssayLoop
	store EssayReviewStore

	mu       sync.RWMutex
	defaults config.EssayConfig
}

func NewEssayService(loop *EssayLoop, store EssayReviewStore, cfg config.EssayConfig) *EssayService {
	return &EssayService{loop: loop, store: store, defaults: cfg}
}

// UpdateDefaults 配置热更新
func (s *EssayService) UpdateDefaults(cfg config.EssayConfig) {
	s.mu.Lock()
	s.defaults = cfg
	s.mu.Unlock()
}

func (s *EssayService) settings(req ReviewRequest) (int, int) {
	s.mu.RLock()
	target, rounds := s.defaults.TargetScore, s.defaults.MaxRounds
	s.mu.RUnlock()
	if req.TargetScore != nil {
		target = *req.TargetScore
	}
	if req.MaxRounds != nil {
		rounds = *req.MaxRounds
	}
	return target, rounds
}

// Review 运行批改循环并保存结果，onRound 可为 nil
func (s *EssayService) Review(ctx context.Context, sessionID string, req ReviewRequest, onRound func(model.Round)) (*ReviewResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, util.ErrEmptyContent
	}
	target, maxRounds := s.settings(req)

	history := s.loop.Run(ctx, req.Text, target, maxRounds, onRound)
	final := history[len(history)-1]

	outcome := model.OutcomeExhausted
	if final.Total >= target {
		outcome = model.OutcomeReached
	}
	monitoring.EssayRounds.WithLabelValues(string(outcome)).Observe(float64(len(history)))

	result := &ReviewResult{
		History:         history,
		Final:           final,
		FeedbackHTML:    util.RenderMarkdown(final.Feedback),
		Outcome:         outcome,
		ScoresExtracted: final.ScoresExtracted,
	}
	if !final.ScoresExtracted {
		result.Warning = scoresMissingWarning
	}

	review := &model.EssayReview{
		SessionID:   sessionID,
		Original:    req.Text,
		TargetScore: target,
		MaxRounds:   maxRounds,
		FinalTotal:  final.Total,
		Outcome:     outcome,
		Rounds:      history,
	}
	if err := s.store.Create(review); err != nil {
		// 保存失败不影响本次批改结果
		logger.Log.Error("failed to persist essay review", zap.Error(err))
	} else {
		result.ID = review.ID
	}

	return result, nil
}

func (s *EssayService) GetReview(id uint) (*model.EssayReview, error) {
	return s.store.FindByID(id)
}

// ListReviews 当前会话最近的批改记录
func (s *EssayService) ListReviews(sessionID string) ([]model.EssayReview, error) {
	return s.store.FindBySession(sessionID, reviewListLimit)
}

func (s *EssayService) Rubric() []model.RubricDimension {
	return model.Rubric
}
