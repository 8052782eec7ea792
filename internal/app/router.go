package app

import (
	"civilpass_backend/docs"
	"civilpass_backend/internal/config"
	"civilpass_backend/internal/middleware"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware())

	// 1. 公共路由
	a.registerPublicRoutes(api, c)

	// 2. 管理员路由
	a.registerAdminRoutes(api, c, cfg)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	// 申论批改
	essays := api.Group("/essays")
	{
		essays.POST("/review", c.essay.Review)
		essays.POST("/review/stream", c.essay.ReviewStream)
		essays.GET("/reviews", c.essay.ListReviews)
		essays.GET("/reviews/:id", c.essay.GetReview)
		essays.GET("/rubric", c.essay.Rubric)
	}

	// 智能问答
	chat := api.Group("/chat")
	{
		chat.POST("/ask", c.chat.Ask)
		chat.GET("/ws", c.chat.Stream)
		chat.POST("/images", c.chat.UploadImage)
		chat.GET("/history", c.chat.History)
		chat.GET("/session", c.chat.GetSession)
		chat.DELETE("/session", c.chat.ResetSession)
	}

	api.GET("/materials", c.material.List)

	news := api.Group("/news")
	{
		news.GET("", c.news.List)
		news.GET("/insights", c.news.Insights)
		news.GET("/export", c.news.Export)
	}

	api.GET("/experience", c.experience.List)
	api.POST("/experience/uploads", c.experience.Upload)

	api.GET("/calendar", c.calendar.Get)
	api.GET("/calendar/qrcode", c.calendar.QRCode)
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	api.POST("/admin/login", c.admin.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.Admin.JWTSecret), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.POST("/uploads", c.admin.Upload)
		admin.GET("/uploads/pending", c.admin.Pending)
		admin.POST("/uploads/:id/approve", c.admin.Approve)
	}
}
