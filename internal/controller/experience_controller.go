package controller

import (
	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExperienceController struct {
	ExperienceService *service.ExperienceService
}

func NewExperienceController(experienceService *service.ExperienceService) *ExperienceController {
	return &ExperienceController{ExperienceService: experienceService}
}

// Upload godoc
// @Summary 上传学习资料
// @Description 学习笔记/错题集，支持 pdf/jpg/jpeg/png，单个文件不超过 20MB，上传后待人工审核
// @Tags 高分经验
// @Accept multipart/form-data
// @Produce json
// @Param type formData string true "学习笔记|错题集"
// @Param files formData file true "文件，可多选"
// @Success 200 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response
// @Router /experience/uploads [post]
func (ctrl *ExperienceController) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		util.BadRequest(c, "请先选择要上传的文件")
		return
	}

	result, err := ctrl.ExperienceService.Upload(c.Request.Context(), c.PostForm("type"), form.File["files"])
	if err != nil {
		respondError(c, err)
		return
	}
	util.SuccessWithWarnings(c, result, result.Failed)
}

// List godoc
// @Summary 高分经验列表
// @Tags 高分经验
// @Produce json
// @Param tab query string false "高分经验|学习笔记|错题集"
// @Success 200 {object} util.Response{data=[]model.ExperienceFile}
// @Router /experience [get]
func (ctrl *ExperienceController) List(c *gin.Context) {
	files, err := ctrl.ExperienceService.List(c.Request.Context(), c.DefaultQuery("tab", util.CategoryExperience))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(files) == 0 {
		util.SuccessWithWarnings(c, files, []string{"当前分类下暂无资料"})
		return
	}
	util.Success(c, files)
}
