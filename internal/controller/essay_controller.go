package controller

import (
	"strconv"

	"civilpass_backend/internal/middleware"
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EssayController struct {
	EssayService *service.EssayService
}

func NewEssayController(essayService *service.EssayService) *EssayController {
	return &EssayController{EssayService: essayService}
}

// Review godoc
// @Summary 申论批改
// @Description 批阅 → 优化 → 再批阅，直到总分达到目标分或轮次用尽
// @Tags 申论批改
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Param request body service.ReviewRequest true "申论原文及可选的目标分/最大轮次"
// @Success 200 {object} util.Response{data=service.ReviewResult}
// @Failure 400 {object} util.Response
// @Router /essays/review [post]
func (ctrl *EssayController) Review(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, util.ErrEmptyContent.Error())
		return
	}

	result, err := ctrl.EssayService.Review(c.Request.Context(), middleware.SessionID(c), req, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Warning != "" {
		util.SuccessWithWarnings(c, result, []string{result.Warning})
		return
	}
	util.Success(c, result)
}

// ReviewStream godoc
// @Summary 申论批改（流式）
// @Description 每完成一轮推送一个 round 事件，结束时推送 end 事件携带最终结果
// @Tags 申论批改
// @Accept json
// @Produce text/event-stream
// @Param request body service.ReviewRequest true "申论原文"
// @Success 200 {string} string "SSE"
// @Router /essays/review/stream [post]
func (ctrl *EssayController) ReviewStream(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, util.ErrEmptyContent.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	result, err := ctrl.EssayService.Review(c.Request.Context(), middleware.SessionID(c), req, func(r model.Round) {
		c.SSEvent("round", r)
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent("error", err.Error())
		c.Writer.Flush()
		return
	}

	c.SSEvent("end", result)
	c.Writer.Flush()
}

// GetReview godoc
// @Summary 获取批改记录
// @Tags 申论批改
// @Produce json
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.EssayReview}
// @Failure 404 {object} util.Response
// @Router /essays/reviews/{id} [get]
func (ctrl *EssayController) GetReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(c, "无效的记录ID")
		return
	}

	review, err := ctrl.EssayService.GetReview(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, review)
}

// ListReviews godoc
// @Summary 当前会话的批改记录
// @Tags 申论批改
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Success 200 {object} util.Response{data=[]model.EssayReview}
// @Router /essays/reviews [get]
func (ctrl *EssayController) ListReviews(c *gin.Context) {
	reviews, err := ctrl.EssayService.ListReviews(middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, reviews)
}

// Rubric godoc
// @Summary 评分维度
// @Tags 申论批改
// @Produce json
// @Success 200 {object} util.Response{data=[]model.RubricDimension}
// @Router /essays/rubric [get]
func (ctrl *EssayController) Rubric(c *gin.Context) {
	util.Success(c, gin.H{
		"dimensions": ctrl.EssayService.Rubric(),
		"maxTotal":   model.RubricMaxTotal(),
	})
}
