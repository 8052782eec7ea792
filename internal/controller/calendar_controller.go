package controller

import (
	"errors"
	"net/http"

	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	CalendarService *service.CalendarService
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{CalendarService: calendarService}
}

// Get godoc
// @Summary 考试日历
// @Description 按年份返回 12 个月的考试安排与月度图片
// @Tags 考试日历
// @Produce json
// @Param year query int false "年份，默认最新"
// @Param q query string false "考试名称或地区关键词"
// @Success 200 {object} util.Response{data=service.CalendarView}
// @Router /calendar [get]
func (ctrl *CalendarController) Get(c *gin.Context) {
	view := ctrl.CalendarService.View(c.Request.Context(), util.ParseIntDefault(c.Query("year"), 0), c.Query("q"))
	if view.Warning != "" {
		util.SuccessWithWarnings(c, view, []string{view.Warning})
		return
	}
	util.Success(c, view)
}

// QRCode godoc
// @Summary 日历订阅二维码
// @Tags 考试日历
// @Produce png
// @Success 200 {file} file
// @Failure 404 {object} util.Response
// @Router /calendar/qrcode [get]
func (ctrl *CalendarController) QRCode(c *gin.Context) {
	data, err := ctrl.CalendarService.QRCode(c.Request.Context())
	if err != nil {
		msg := "未找到二维码图片"
		if !errors.Is(err, util.ErrObjectNotFound) {
			msg = "二维码图片读取失败：" + err.Error()
		}
		util.NotFound(c, msg)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
