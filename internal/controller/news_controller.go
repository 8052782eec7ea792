package controller

import (
	"errors"
	"net/http"
	"time"

	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NewsController struct {
	NewsService *service.NewsService
}

func NewNewsController(newsService *service.NewsService) *NewsController {
	return &NewsController{NewsService: newsService}
}

func parseNewsQuery(c *gin.Context) (service.NewsQuery, error) {
	q := service.NewsQuery{
		Sources: c.QueryArray("source"),
		Regions: c.QueryArray("region"),
		Keyword: c.Query("keyword"),
		Sort:    c.DefaultQuery("sort", service.NewsSortLatest),
		Page:    util.ParseIntDefault(c.Query("page"), 1),
	}
	for name, dst := range map[string]**time.Time{"from": &q.From, "to": &q.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(util.DateFormat, raw, time.Local)
		if err != nil {
			return q, errors.New("日期格式应为 YYYY-MM-DD")
		}
		*dst = &t
	}
	return q, nil
}

// List godoc
// @Summary 政策资讯
// @Description 按日期、来源、地区、关键词筛选，每页 5 条
// @Tags 政策资讯
// @Produce json
// @Param from query string false "起始日期 YYYY-MM-DD"
// @Param to query string false "截止日期 YYYY-MM-DD"
// @Param source query []string false "来源" collectionFormat(multi)
// @Param region query []string false "地区" collectionFormat(multi)
// @Param keyword query string false "关键词，空格分隔"
// @Param sort query string false "latest|oldest|hotness|source"
// @Param page query int false "页码"
// @Success 200 {object} util.Response{data=service.NewsPage}
// @Router /news [get]
func (ctrl *NewsController) List(c *gin.Context) {
	q, err := parseNewsQuery(c)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	page, err := ctrl.NewsService.Query(c.Request.Context(), q)
	if err != nil {
		ctrl.respondLoadError(c, err, &service.NewsPage{Page: 1, PageSize: service.NewsPageSize, TotalPages: 1})
		return
	}
	util.SuccessWithWarnings(c, page, page.Warnings)
}

// Insights godoc
// @Summary 资讯统计
// @Description 来源 Top10、每周发布量、地区分布
// @Tags 政策资讯
// @Produce json
// @Success 200 {object} util.Response{data=service.NewsInsights}
// @Router /news/insights [get]
func (ctrl *NewsController) Insights(c *gin.Context) {
	q, err := parseNewsQuery(c)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	insights, err := ctrl.NewsService.Insights(c.Request.Context(), q)
	if err != nil {
		ctrl.respondLoadError(c, err, &service.NewsInsights{})
		return
	}
	util.SuccessWithWarnings(c, insights, insights.Warnings)
}

// Export godoc
// @Summary 导出资讯
// @Description 导出当前筛选结果为 CSV
// @Tags 政策资讯
// @Produce text/csv
// @Success 200 {file} file
// @Router /news/export [get]
func (ctrl *NewsController) Export(c *gin.Context) {
	q, err := parseNewsQuery(c)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	data, err := ctrl.NewsService.Export(c.Request.Context(), q)
	if err != nil {
		logger.Log.Warn("export news failed", zap.Error(err))
		util.NotFound(c, err.Error())
		return
	}

	filename := "policy_news_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// respondLoadError 数据源缺失或不可读时返回空结果，错误原因作为警告展示
func (ctrl *NewsController) respondLoadError(c *gin.Context, err error, empty interface{}) {
	if !errors.Is(err, util.ErrNoCSVFiles) {
		logger.Log.Warn("load news failed", zap.Error(err))
	}
	util.SuccessWithWarnings(c, empty, []string{err.Error()})
}
