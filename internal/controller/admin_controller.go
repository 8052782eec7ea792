package controller

import (
	"strconv"

	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AuthService   *service.AuthService
	UploadService *service.UploadService
}

type LoginRequest struct {
	Password string `json:"password" binding:"required" example:"admin-password"`
}

func NewAdminController(authService *service.AuthService, uploadService *service.UploadService) *AdminController {
	return &AdminController{AuthService: authService, UploadService: uploadService}
}

// Login godoc
// @Summary 管理员登录
// @Tags 管理员
// @Accept json
// @Produce json
// @Param request body LoginRequest true "管理员密码"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /admin/login [post]
func (ctrl *AdminController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "请输入密码")
		return
	}

	token, err := ctrl.AuthService.Login(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"token": token})
}

// Upload godoc
// @Summary 管理员上传资料
// @Description 上传到指定分类，视频额外生成缩略图
// @Tags 管理员
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param category formData string true "行测/申论/视频/高分经验/政策咨询/考试日历"
// @Param files formData file true "文件，可多选"
// @Success 200 {object} util.Response{data=[]service.UploadedFile}
// @Failure 400 {object} util.Response
// @Router /admin/uploads [post]
func (ctrl *AdminController) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		util.BadRequest(c, "请选择文件")
		return
	}

	results, err := ctrl.UploadService.Upload(c.Request.Context(), c.PostForm("category"), form.File["files"])
	if err != nil {
		respondError(c, err)
		return
	}

	var warnings []string
	for _, r := range results {
		if r.Error != "" {
			warnings = append(warnings, r.Name+": "+r.Error)
		}
	}
	util.SuccessWithWarnings(c, results, warnings)
}

// Pending godoc
// @Summary 待审核的考生上传
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PendingUploads}
// @Router /admin/uploads/pending [get]
func (ctrl *AdminController) Pending(c *gin.Context) {
	pending, err := ctrl.UploadService.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, pending)
}

// Approve godoc
// @Summary 审核通过
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "上传记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/uploads/{id}/approve [post]
func (ctrl *AdminController) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(c, "无效的记录ID")
		return
	}
	if err := ctrl.UploadService.Approve(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}
