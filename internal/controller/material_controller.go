package controller

import (
	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MaterialController struct {
	MaterialService *service.MaterialService
}

func NewMaterialController(materialService *service.MaterialService) *MaterialController {
	return &MaterialController{MaterialService: materialService}
}

// List godoc
// @Summary 备考资料
// @Description 按分类列出资料；未指定分类时返回全部分类
// @Tags 备考资料
// @Produce json
// @Param category query []string false "行测/申论/视频" collectionFormat(multi)
// @Param year query string false "年份关键词"
// @Success 200 {object} util.Response{data=[]model.MaterialGroup}
// @Failure 400 {object} util.Response
// @Router /materials [get]
func (ctrl *MaterialController) List(c *gin.Context) {
	categories := c.QueryArray("category")
	if len(categories) == 0 {
		categories = service.MaterialCategories
	}

	groups, err := ctrl.MaterialService.List(c.Request.Context(), categories, c.Query("year"))
	if err != nil {
		respondError(c, err)
		return
	}

	var warnings []string
	for _, g := range groups {
		if g.Warning != "" {
			warnings = append(warnings, g.Category+"："+g.Warning)
		}
		if g.Error != "" {
			warnings = append(warnings, g.Category+"："+g.Error)
		}
	}
	util.SuccessWithWarnings(c, groups, warnings)
}
